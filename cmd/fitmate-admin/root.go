package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/raushankrgupta/fitmate/config"
	"github.com/raushankrgupta/fitmate/fitting"
	"github.com/raushankrgupta/fitmate/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "FITMATE"

// app carries per-invocation state shared by the subcommands.
type app struct {
	v   *viper.Viper
	log logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: logger.NewNop()}
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "fitmate-admin",
		Short: "Administrative tasks for the fit engine",
		Long: `fitmate-admin trains the learned fit predictor from recorded feedback and
runs the body shape classifier and fit predictor on ad-hoc measurements.

Storage and model settings come from the same environment as the server
(STORE_BACKEND, MONGO_URI, MODEL_STORE, MODEL_DIR, ...). Flags can also be
given as FITMATE_<FLAG> environment variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Only the running command's flags are bound, so subcommands
			// may share flag names.
			if err := a.v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			level := a.v.GetString("log-level")
			if level == "" {
				return nil
			}
			l, err := logger.NewZapLogger(level)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}
			a.log = l
			logger.SetDefault(l)
			return nil
		},
	}

	root.PersistentFlags().String("log-level", "", "Log to stdout at this level (debug|info|warn|error); silent when empty")

	root.AddCommand(newTrainCmd(a), newClassifyCmd(a), newScoreCmd(a))
	return root
}

// loadConfig reads the server configuration and applies CLI overrides.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if dir := a.v.GetString("model-dir"); dir != "" {
		cfg.ModelDir = dir
	}
	return cfg, nil
}

// parseSet parses "chest,waist,hips[,shoulder]" in centimeters.
func parseSet(s string) (fitting.Set, error) {
	parts := strings.Split(s, ",")
	if len(parts) < 3 || len(parts) > 4 {
		return fitting.Set{}, fmt.Errorf("want chest,waist,hips[,shoulder], got %q", s)
	}
	values := make([]*float64, 4)
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return fitting.Set{}, fmt.Errorf("parse %q: %w", p, err)
		}
		values[i] = fitting.Cm(v)
	}
	return fitting.Set{Chest: values[0], Waist: values[1], Hips: values[2], Shoulder: values[3]}, nil
}
