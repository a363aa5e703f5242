package main

import (
	"context"
	"time"

	"github.com/geocoder89/classroom/internal/app"
	"github.com/geocoder89/classroom/internal/config"
	"github.com/geocoder89/classroom/internal/observability"
	"github.com/spf13/cobra"
)

var (
	adminEmail    string
	adminName     string
	adminPassword string
)

// createAdminCmd creates a grader or promotes an existing account.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create or promote a grader account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		log := observability.NewLogger(cfg.Env)

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		stores, err := app.Build(ctx, cfg, log, nil)
		if err != nil {
			return err
		}
		defer stores.Close()

		u, err := stores.Credentials.EnsureAdmin(ctx, adminEmail, adminName, adminPassword)
		if err != nil {
			return err
		}

		cmd.Printf("admin ready: %s (%s)\n", u.Email, u.ID)
		return nil
	},
}

// resetPasswordCmd sets a new password for an existing account.
var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Set a new password for an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		log := observability.NewLogger(cfg.Env)

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		stores, err := app.Build(ctx, cfg, log, nil)
		if err != nil {
			return err
		}
		defer stores.Close()

		u, err := stores.Credentials.ResetPassword(ctx, resetEmail, resetPassword)
		if err != nil {
			return err
		}

		cmd.Printf("password reset: %s (%s)\n", u.Email, u.ID)
		return nil
	},
}

var (
	resetEmail    string
	resetPassword string
)

func init() {
	rootCmd.AddCommand(createAdminCmd)
	rootCmd.AddCommand(resetPasswordCmd)

	resetPasswordCmd.Flags().StringVar(&resetEmail, "email", "", "account email")
	resetPasswordCmd.Flags().StringVar(&resetPassword, "password", "", "new password")
	_ = resetPasswordCmd.MarkFlagRequired("email")
	_ = resetPasswordCmd.MarkFlagRequired("password")

	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "grader email")
	createAdminCmd.Flags().StringVar(&adminName, "name", "Grader", "grader display name")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "grader password")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}
