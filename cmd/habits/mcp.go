// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server and optionally serves Prometheus metrics.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harperreed/habits/internal/logger"
	"github.com/harperreed/habits/internal/mcp"
	"github.com/harperreed/habits/internal/observability"
	"github.com/spf13/cobra"
)

var mcpMetricsAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to manage your habits and read your
streaks through a standardized protocol. The server communicates via
stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  Add this to your Claude Desktop config (claude_desktop_config.json):

  {
    "mcpServers": {
      "habits": {
        "command": "habits",
        "args": ["mcp"]
      }
    }
  }

  On macOS, the config is at:
    ~/Library/Application Support/Claude/claude_desktop_config.json

AVAILABLE TOOLS:

  add_habit           Create a habit
  list_habits         List habits
  update_habit        Change a habit's title, description or frequency
  delete_habit        Delete a habit and its completions
  complete_habit      Mark a habit as done
  list_completions    List recent completions
  delete_completion   Remove a completion
  get_streaks         Ranked leaderboard
  get_habit_streak    Streak of one habit

AVAILABLE RESOURCES:

  habits://streaks    Every habit ranked by best streak
  habits://top        The top three with badges
  habits://today      Which habits are done today

METRICS:

  --metrics-addr :9090 serves Prometheus metrics on /metrics while the
  server runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(repo, svc)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		if mcpMetricsAddr != "" {
			stop := serveMetrics(mcpMetricsAddr)
			defer stop()
		}

		return server.Serve(ctx)
	},
}

// serveMetrics exposes /metrics on addr and returns a shutdown func.
// stdout belongs to the MCP transport, so failures only go to the log.
func serveMetrics(addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "addr", addr, "err", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("metrics server shutdown", "err", err)
		}
	}
}

func init() {
	mcpCmd.Flags().StringVar(&mcpMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	rootCmd.AddCommand(mcpCmd)
}
