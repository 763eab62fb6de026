package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/preflightci/preflight"
	"github.com/preflightci/preflight/internal/logging"
	"github.com/preflightci/preflight/internal/presentation/tui"
	"github.com/preflightci/preflight/pkg/check"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [dir]",
	Short: "Run the pre-flight checks",
	Long: `Runs the full pipeline against the target directory: environment
preparation, strict lint, advisory lint, and the load checks. The process
exits with the first failing phase's status.`,
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("dir")
		if !cmd.Flags().Changed("dir") && len(args) > 0 {
			dir = args[0]
		}
		level, _ := cmd.Flags().GetString("log-level")
		jsonMode, _ := cmd.Flags().GetBool("json")
		noBanner, _ := cmd.Flags().GetBool("no-banner")

		logger := logging.New(logging.ParseLevel(level))

		h, err := preflight.New(dir, preflight.WithLogger(logger))
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		if !noBanner && !jsonMode {
			tui.PrintBanner(os.Stdout)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		report, err := h.Run(ctx)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		if jsonMode {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
		} else if !report.Failed() {
			printAdvisorySummary(report)
			fmt.Println("\nAll pre-flight checks passed ✅")
		}

		os.Exit(report.ExitCode())
	},
}

// printAdvisorySummary renders the advisory findings as a markdown table.
// Findings were already printed verbatim during the pass; this is just the
// readable recap on success.
func printAdvisorySummary(report *check.Report) {
	res := report.Result("lint-advisory")
	if res == nil || len(res.Findings) == 0 {
		return
	}

	var md strings.Builder
	md.WriteString("## Advisory findings (not blocking)\n\n")
	md.WriteString("| Position | Code | Message |\n")
	md.WriteString("|----------|------|---------|\n")
	for _, f := range res.Findings {
		fmt.Fprintf(&md, "| %s | %s | %s |\n", f.Position, f.Code, f.Message)
	}

	render := tui.NewRenderer()
	out, err := render(md.String())
	if err != nil {
		fmt.Print(md.String())
		return
	}
	fmt.Print(out)
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("json", false, "Print the report as JSON instead of the summary")
	runCmd.Flags().Bool("no-banner", false, "Suppress the ASCII banner")

	// Make 'run' the default if no command is provided.
	rootCmd.Run = runCmd.Run
}
