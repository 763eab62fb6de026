package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "preflight",
	Short: "Preflight runs the CI gate locally before you push",
	Long: `Preflight reproduces the checks a CI pipeline runs before accepting a
change: dependency installation, static lint checks, and a smoke test that the
application's top-level modules load and bind their service singletons.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing the application to check")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
}
