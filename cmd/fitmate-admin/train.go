package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/raushankrgupta/fitmate/config"
	"github.com/raushankrgupta/fitmate/fitting"
	"github.com/raushankrgupta/fitmate/logger"
	"github.com/raushankrgupta/fitmate/models"
	"github.com/raushankrgupta/fitmate/utils"
	"github.com/spf13/cobra"
)

var errTrainingFailed = errors.New("training failed, see log for details")

func newTrainCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the fit predictor from recorded fit feedback",
		Long: `train reads every fit feedback record, turns each into a feature vector
labelled with the reported score, fits the scaler and regressor and writes
both artifacts to the configured model store. The server picks the new model
up on its next start.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			svc, err := openServices(cmd.Context(), a, cfg)
			if err != nil {
				return err
			}
			defer svc.Close(cmd.Context())

			n, err := trainFromFeedback(cmd.Context(), svc.Store, svc.Artifacts, a.log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Trained fit model on %d feedback samples\n", n)
			return nil
		},
	}

	cmd.Flags().String("model-dir", "", "Write model artifacts to this directory (overrides MODEL_DIR)")
	return cmd
}

func openServices(ctx context.Context, a *app, cfg *config.Config) (*utils.Services, error) {
	svc, err := utils.OpenServices(ctx, cfg, a.log)
	if err != nil {
		return nil, fmt.Errorf("open services: %w", err)
	}
	return svc, nil
}

// feedbackSource is the part of the store train reads.
type feedbackSource interface {
	ListFeedback(ctx context.Context) ([]models.FitFeedback, error)
}

// trainFromFeedback trains on every feedback record and returns the sample
// count.
func trainFromFeedback(ctx context.Context, src feedbackSource, artifacts fitting.ArtifactStore, log logger.Logger) (int, error) {
	feedback, err := src.ListFeedback(ctx)
	if err != nil {
		return 0, fmt.Errorf("list feedback: %w", err)
	}

	samples := make([][]float64, 0, len(feedback))
	labels := make([]float64, 0, len(feedback))
	for _, fb := range feedback {
		samples = append(samples, fitting.ExtractFeatures(fb.UserMeasurements, fb.OutfitMeasurements))
		labels = append(labels, fb.ActualScore)
	}
	log.Infof(ctx, "training fit model on %d samples", len(samples))

	if !fitting.Train(ctx, artifacts, samples, labels, log) {
		return 0, errTrainingFailed
	}
	return len(samples), nil
}
