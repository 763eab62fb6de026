package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/preflightci/preflight"
	httpAdapter "github.com/preflightci/preflight/internal/adapters/http"
	"github.com/preflightci/preflight/internal/logging"
	"github.com/preflightci/preflight/internal/metrics"
	"github.com/preflightci/preflight/pkg/check"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the checks and serve the report over HTTP",
	Long: `Runs the pipeline once, then serves the report, a health probe, and
Prometheus metrics. POST /run triggers a re-run.`,
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("dir")
		port, _ := cmd.Flags().GetString("port")
		level, _ := cmd.Flags().GetString("log-level")

		logger := logging.New(logging.ParseLevel(level))
		collectors := metrics.New(prometheus.DefaultRegisterer)

		logHooks := check.LifecycleHooks{
			OnCheckEnd: func(ctx context.Context, e *check.CheckEvent) {
				logger.Info("check finished", "check", e.Check, "status", e.Status, "duration", e.Duration)
			},
		}

		harness, err := preflight.New(dir,
			preflight.WithLogger(logger),
			preflight.WithLifecycleHooks(check.Join(collectors.Hooks(), logHooks)),
		)
		if err != nil {
			fmt.Printf("Error initializing preflight: %v\n", err)
			os.Exit(1)
		}

		server := httpAdapter.NewServer(harness.Run, logger)

		// Initial run so /report has something to say from the start.
		report, err := harness.Run(context.Background())
		if err != nil {
			fmt.Printf("Error running checks: %v\n", err)
			os.Exit(1)
		}
		server.SetReport(report)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: server.Handler(),
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting preflight server on %s\n", srv.Addr)
			fmt.Printf("Checking application in: %s\n", dir)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Preflight server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
