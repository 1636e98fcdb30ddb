// ABOUTME: MCP resource implementations for habit streaks.
// ABOUTME: Provides habits://streaks, habits://top, and habits://today resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/habits/internal/streak"
	"github.com/harperreed/habits/internal/tracker"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	streaksURI = "habits://streaks"
	topURI     = "habits://top"
	todayURI   = "habits://today"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         streaksURI,
		Name:        "Habit Streaks",
		Description: "Every habit ranked by best streak, with current streak and total completions",
		MIMEType:    "application/json",
	}, s.handleStreaksResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         topURI,
		Name:        "Top Streaks",
		Description: "The three highest ranked habits with gold, silver and bronze badges",
		MIMEType:    "application/json",
	}, s.handleTopResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         todayURI,
		Name:        "Today's Habits",
		Description: "Which habits have been completed today",
		MIMEType:    "application/json",
	}, s.handleTodayResource)
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func (s *Server) rankedViews(top bool) (map[string]interface{}, error) {
	entries, err := s.svc.Ranked()
	if entries == nil && err != nil {
		return nil, fmt.Errorf("failed to rank habits: %w", err)
	}
	if top {
		entries = streak.TopStreaks(entries)
	}

	result := map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"streaks":      tracker.StreakViews(entries),
	}
	if err != nil {
		result["error"] = err.Error()
	}
	return result, nil
}

func (s *Server) handleStreaksResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	result, err := s.rankedViews(false)
	if err != nil {
		return nil, err
	}
	return jsonResource(streaksURI, result)
}

func (s *Server) handleTopResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	result, err := s.rankedViews(true)
	if err != nil {
		return nil, err
	}
	return jsonResource(topURI, result)
}

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	statuses, err := s.svc.Today()
	if err != nil {
		return nil, fmt.Errorf("failed to load today's habits: %w", err)
	}

	done := 0
	for _, st := range statuses {
		if st.Done() {
			done++
		}
	}

	calc := s.svc.Calculator()
	result := map[string]interface{}{
		"date":   calc.Day(time.Now()).Format("2006-01-02"),
		"habits": tracker.TodayViews(statuses),
		"counts": map[string]int{
			"habits": len(statuses),
			"done":   done,
		},
	}
	return jsonResource(todayURI, result)
}
