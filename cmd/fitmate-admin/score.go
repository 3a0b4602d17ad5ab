package main

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/raushankrgupta/fitmate/config"
	"github.com/raushankrgupta/fitmate/fitting"
	"github.com/raushankrgupta/fitmate/utils"
	"github.com/spf13/cobra"
)

func newScoreCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Predict how an outfit fits a body",
		Long: `score runs the fit predictor on one body/outfit pair. The trained model is
used when its artifacts are found in the configured model store; otherwise
the rule-based scorer answers.`,
		Example: `  fitmate-admin score --user 96,70,98 --outfit 100,72,98
  fitmate-admin score --user 96,70,98,40 --outfit 88,,98 --model-dir ./models`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userFlag, outfitFlag := a.v.GetString("user"), a.v.GetString("outfit")
			if userFlag == "" || outfitFlag == "" {
				return errors.New("--user and --outfit are required")
			}
			user, err := parseSet(userFlag)
			if err != nil {
				return fmt.Errorf("--user: %w", err)
			}
			outfit, err := parseSet(outfitFlag)
			if err != nil {
				return fmt.Errorf("--outfit: %w", err)
			}

			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			var s3Client *s3.Client
			if cfg.ModelStore == config.ModelStoreS3 {
				if s3Client, err = utils.InitS3(cmd.Context(), cfg.AWSRegion); err != nil {
					return err
				}
			}
			artifacts := utils.NewArtifactStore(cfg, s3Client)

			p := fitting.NewPredictor(artifacts, a.log)
			source := "rule-based scorer"
			if p.ModelLoaded(cmd.Context()) {
				source = "trained model"
			}
			res := p.Predict(cmd.Context(), user, outfit)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Fit score: %.2f (%s)\n", res.Score, res.Status)
			fmt.Fprintf(out, "Source: %s\n", source)
			fmt.Fprintln(out, res.Recommendations)
			return nil
		},
	}

	cmd.Flags().String("user", "", "Body measurements chest,waist,hips[,shoulder] in cm")
	cmd.Flags().String("outfit", "", "Garment measurements chest,waist,hips[,shoulder] in cm")
	cmd.Flags().String("model-dir", "", "Read model artifacts from this directory (overrides MODEL_DIR)")
	return cmd
}
