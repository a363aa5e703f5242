package main

import (
	"context"
	"time"

	"github.com/geocoder89/classroom/internal/app"
	"github.com/geocoder89/classroom/internal/config"
	"github.com/geocoder89/classroom/internal/observability"
	"github.com/geocoder89/classroom/internal/worker"
	"github.com/spf13/cobra"
)

var sweepSessionsCmd = &cobra.Command{
	Use:   "sweep-sessions",
	Short: "Delete expired sessions from the postgres session store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		log := observability.NewLogger(cfg.Env)

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		stores, err := app.Build(ctx, cfg, log, nil)
		if err != nil {
			return err
		}
		defer stores.Close()

		if !stores.SweepNeeded {
			cmd.Printf("session store %q expires sessions itself, nothing to do\n", cfg.SessionStore)
			return nil
		}

		sweeper := worker.NewSweeper(worker.Config{SweepTimeout: 25 * time.Second}, stores.Sessions, nil, log)

		n, err := sweeper.SweepOnce(ctx)
		if err != nil {
			return err
		}

		cmd.Printf("swept %d expired session(s)\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sweepSessionsCmd)
}
