// ABOUTME: MCP server setup for the habits tracker.
// ABOUTME: Wraps the MCP server with repository and streak service access.
package mcp

import (
	"context"
	"fmt"

	"github.com/harperreed/habits/internal/logger"
	"github.com/harperreed/habits/internal/storage"
	"github.com/harperreed/habits/internal/tracker"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with storage and streak queries.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	svc       *tracker.Service
}

// NewServer creates a new MCP server. repo should be the same repository the
// service reads from so writes made through tools invalidate its ranking.
func NewServer(repo storage.Repository, svc *tracker.Service) (*Server, error) {
	if repo == nil || svc == nil {
		return nil, fmt.Errorf("mcp server requires a repository and a tracker service")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "habits",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		svc:       svc,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	logger.Info("mcp server starting", "user", s.svc.UserID())
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
