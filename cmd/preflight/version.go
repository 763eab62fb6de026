package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/preflightci/preflight"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of preflight",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("preflight version %s\n", strings.TrimSpace(preflight.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
