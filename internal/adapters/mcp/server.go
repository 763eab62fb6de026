// Package mcp exposes the harness as a Model Context Protocol server, so AI
// agents can gate their own edits on the same checks a developer runs.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/preflightci/preflight/pkg/check"
)

// RunFunc executes one harness invocation.
type RunFunc func(ctx context.Context) (*check.Report, error)

// Server wraps the harness and exposes it over MCP.
type Server struct {
	run       RunFunc
	mcpServer *server.MCPServer

	mu   sync.Mutex
	last *check.Report
}

// NewServer creates an MCP Server instance for the harness.
func NewServer(run RunFunc, version string) *Server {
	s := &Server{
		run:       run,
		mcpServer: server.NewMCPServer("preflight-mcp", version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	runTool := mcp.NewTool("preflight_run",
		mcp.WithDescription("Run the pre-flight checks (environment, strict lint, advisory lint, load checks) against the configured application and return the report."),
	)

	s.mcpServer.AddTool(runTool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		report, err := s.run(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("run failed: %v", err)), nil
		}
		s.last = report

		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode report: %w", err)
		}
		if report.Failed() {
			return mcp.NewToolResultError(string(data)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}

func (s *Server) registerResources() {
	reportResource := mcp.NewResource("preflight://report", "Last pre-flight report",
		mcp.WithResourceDescription("The report of the most recent harness invocation in this session."),
		mcp.WithMIMEType("application/json"),
	)

	s.mcpServer.AddResource(reportResource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		s.mu.Lock()
		last := s.last
		s.mu.Unlock()

		if last == nil {
			return nil, fmt.Errorf("no run recorded yet")
		}
		data, err := json.MarshalIndent(last, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode report: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "preflight://report",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
