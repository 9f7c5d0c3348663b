package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Score every client and export recommendations",
		Long: `Runs the full batch: computes population thresholds once, scores every
client in the profile table in parallel, persists the winning product per
client, and writes the recommendations CSV.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, true)
			if err != nil {
				return err
			}
			defer a.close()

			stats, err := a.engine.Run(ctx)
			if err != nil {
				return err
			}

			slog.Info("Batch finished",
				"run_id", stats.RunID,
				"clients", stats.Total,
				"recommended", stats.Recommended,
				"skipped", stats.Skipped,
				"duration", stats.Duration,
				"output", a.cfg.Output.Path)
			return nil
		},
	}

	cmd.Flags().Int("workers", 0, "number of parallel scoring workers")
	_ = viper.BindPFlag("engine.workers", cmd.Flags().Lookup("workers"))

	cmd.Flags().String("output", "", "path of the recommendations CSV export")
	_ = viper.BindPFlag("output.path", cmd.Flags().Lookup("output"))

	return cmd
}
