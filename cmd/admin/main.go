package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "Operator tasks for the classroom service",
	Long: `admin runs one-off maintenance against the classroom stores:
schema migrations, grader accounts and expired session cleanup.
Configuration is read from the environment (and .env) like the API.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
