// ABOUTME: MCP tool implementations for habits and completions.
// ABOUTME: Provides CRUD operations plus ranked and per-habit streak queries.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/streak"
	"github.com/harperreed/habits/internal/tracker"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_habit",
		Description: "Create a habit to track",
	}, s.handleAddHabit)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_habits",
		Description: "List all habits",
	}, s.handleListHabits)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_habit",
		Description: "Change the title, description or frequency of a habit",
	}, s.handleUpdateHabit)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_habit",
		Description: "Delete a habit and all of its completions",
	}, s.handleDeleteHabit)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "complete_habit",
		Description: "Mark a habit as done, now or at a given time",
	}, s.handleCompleteHabit)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_completions",
		Description: "List recent completions, optionally for one habit",
	}, s.handleListCompletions)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_completion",
		Description: "Delete a completion by ID or ID prefix",
	}, s.handleDeleteCompletion)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_streaks",
		Description: "Rank habits by best streak with current streak and total completions",
	}, s.handleGetStreaks)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_habit_streak",
		Description: "Get the current streak, best streak and total completions of one habit",
	}, s.handleGetHabitStreak)
}

// Tool input/output types

type addHabitInput struct {
	Title       string `json:"title" jsonschema:"Title of the habit"`
	Description string `json:"description" jsonschema:"What doing the habit means"`
	Frequency   string `json:"frequency,omitempty" jsonschema:"daily, weekly or monthly (default daily)"`
}

type habitOutput struct {
	Habit   tracker.HabitView `json:"habit"`
	Message string            `json:"message"`
}

type listHabitsInput struct{}

type listHabitsOutput struct {
	Habits []tracker.HabitView `json:"habits"`
	Count  int                 `json:"count"`
}

type updateHabitInput struct {
	ID          string `json:"id" jsonschema:"Habit ID or prefix"`
	Title       string `json:"title,omitempty" jsonschema:"New title"`
	Description string `json:"description,omitempty" jsonschema:"New description"`
	Frequency   string `json:"frequency,omitempty" jsonschema:"New frequency: daily, weekly or monthly"`
}

type idInput struct {
	ID string `json:"id" jsonschema:"ID or ID prefix"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type completeHabitInput struct {
	HabitID     string `json:"habit_id" jsonschema:"Habit ID or prefix"`
	CompletedAt string `json:"completed_at,omitempty" jsonschema:"When it was done (ISO 8601 or YYYY-MM-DD HH:MM), defaults to now"`
	Notes       string `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type completionOutput struct {
	Completion tracker.CompletionView `json:"completion"`
	Current    int                    `json:"current_streak"`
	Best       int                    `json:"best_streak"`
	Message    string                 `json:"message"`
}

type listCompletionsInput struct {
	HabitID string `json:"habit_id,omitempty" jsonschema:"Only completions of this habit (ID or prefix)"`
	Limit   int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type listCompletionsOutput struct {
	Completions []tracker.CompletionView `json:"completions"`
	Count       int                      `json:"count"`
}

type getStreaksInput struct {
	Top bool `json:"top,omitempty" jsonschema:"Only return the three highest ranked habits"`
}

type streaksOutput struct {
	Streaks []tracker.StreakView `json:"streaks"`
	Errors  []string             `json:"errors,omitempty"`
}

type habitStreakInput struct {
	HabitID string `json:"habit_id" jsonschema:"Habit ID or prefix"`
}

// Tool handlers

func (s *Server) handleAddHabit(ctx context.Context, req *mcp.CallToolRequest, input addHabitInput) (*mcp.CallToolResult, habitOutput, error) {
	freq, err := models.ParseFrequency(input.Frequency)
	if err != nil {
		return nil, habitOutput{}, err
	}

	h := models.NewHabit(s.svc.UserID(), strings.TrimSpace(input.Title), strings.TrimSpace(input.Description)).WithFrequency(freq)
	if err := h.Validate(); err != nil {
		return nil, habitOutput{}, err
	}

	if err := s.repo.CreateHabit(h); err != nil {
		return nil, habitOutput{}, fmt.Errorf("failed to create habit: %w", err)
	}

	return nil, habitOutput{
		Habit:   tracker.NewHabitView(h),
		Message: fmt.Sprintf("Added habit %q (ID: %s)", h.Title, h.ID.String()[:8]),
	}, nil
}

func (s *Server) handleListHabits(ctx context.Context, req *mcp.CallToolRequest, input listHabitsInput) (*mcp.CallToolResult, listHabitsOutput, error) {
	habits, err := s.repo.ListHabits(s.svc.UserID())
	if err != nil {
		return nil, listHabitsOutput{}, fmt.Errorf("failed to list habits: %w", err)
	}

	out := listHabitsOutput{Habits: make([]tracker.HabitView, 0, len(habits))}
	for _, h := range habits {
		out.Habits = append(out.Habits, tracker.NewHabitView(h))
	}
	out.Count = len(out.Habits)
	return nil, out, nil
}

func (s *Server) handleUpdateHabit(ctx context.Context, req *mcp.CallToolRequest, input updateHabitInput) (*mcp.CallToolResult, habitOutput, error) {
	h, err := s.svc.Habit(input.ID)
	if err != nil {
		return nil, habitOutput{}, fmt.Errorf("habit: %w", err)
	}

	if t := strings.TrimSpace(input.Title); t != "" {
		h.Title = t
	}
	if d := strings.TrimSpace(input.Description); d != "" {
		h.Description = d
	}
	if input.Frequency != "" {
		freq, err := models.ParseFrequency(input.Frequency)
		if err != nil {
			return nil, habitOutput{}, err
		}
		h.Frequency = freq
	}
	if err := h.Validate(); err != nil {
		return nil, habitOutput{}, err
	}

	if err := s.repo.UpdateHabit(h); err != nil {
		return nil, habitOutput{}, fmt.Errorf("failed to update habit: %w", err)
	}

	return nil, habitOutput{
		Habit:   tracker.NewHabitView(h),
		Message: fmt.Sprintf("Updated habit %q", h.Title),
	}, nil
}

func (s *Server) handleDeleteHabit(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	h, err := s.svc.Habit(input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("habit: %w", err)
	}

	if err := s.repo.DeleteHabit(h.ID.String()); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete habit: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted habit %q and its completions", h.Title),
	}, nil
}

func (s *Server) handleCompleteHabit(ctx context.Context, req *mcp.CallToolRequest, input completeHabitInput) (*mcp.CallToolResult, completionOutput, error) {
	h, err := s.svc.Habit(input.HabitID)
	if err != nil {
		return nil, completionOutput{}, fmt.Errorf("habit: %w", err)
	}

	c := models.NewCompletion(h)
	if input.CompletedAt != "" {
		t, err := tracker.ParseTime(input.CompletedAt, s.svc.Calculator().Location())
		if err != nil {
			return nil, completionOutput{}, fmt.Errorf("invalid completed_at: %w", err)
		}
		c.WithCompletedAt(t)
	}
	if input.Notes != "" {
		c.WithNotes(input.Notes)
	}

	if err := s.repo.CreateCompletion(c); err != nil {
		return nil, completionOutput{}, fmt.Errorf("failed to record completion: %w", err)
	}

	out := completionOutput{
		Completion: tracker.NewCompletionView(c),
		Message:    fmt.Sprintf("Completed %q (ID: %s)", h.Title, c.ID.String()[:8]),
	}
	if e, err := s.svc.HabitStreak(h.ID.String()); err == nil {
		out.Current, out.Best = e.Current, e.Best
		out.Message += fmt.Sprintf(", current streak %d", e.Current)
	}
	return nil, out, nil
}

func (s *Server) handleListCompletions(ctx context.Context, req *mcp.CallToolRequest, input listCompletionsInput) (*mcp.CallToolResult, listCompletionsOutput, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	var habitID *uuid.UUID
	if input.HabitID != "" {
		h, err := s.svc.Habit(input.HabitID)
		if err != nil {
			return nil, listCompletionsOutput{}, fmt.Errorf("habit: %w", err)
		}
		habitID = &h.ID
	}

	completions, err := s.repo.ListCompletions(s.svc.UserID(), habitID, input.Limit)
	if err != nil {
		return nil, listCompletionsOutput{}, fmt.Errorf("failed to list completions: %w", err)
	}

	out := listCompletionsOutput{Completions: make([]tracker.CompletionView, 0, len(completions))}
	for _, c := range completions {
		out.Completions = append(out.Completions, tracker.NewCompletionView(c))
	}
	out.Count = len(out.Completions)
	return nil, out, nil
}

func (s *Server) handleDeleteCompletion(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	c, err := s.svc.Completion(input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("completion: %w", err)
	}

	if err := s.repo.DeleteCompletion(c.ID.String()); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete completion: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted completion: %s", c.ID.String()[:8]),
	}, nil
}

func (s *Server) handleGetStreaks(ctx context.Context, req *mcp.CallToolRequest, input getStreaksInput) (*mcp.CallToolResult, streaksOutput, error) {
	entries, rankErr := s.svc.Ranked()
	if entries == nil && rankErr != nil {
		return nil, streaksOutput{}, fmt.Errorf("failed to rank habits: %w", rankErr)
	}
	if input.Top {
		entries = streak.TopStreaks(entries)
	}

	out := streaksOutput{Streaks: tracker.StreakViews(entries)}
	for _, e := range entries {
		if e.Err != nil {
			out.Errors = append(out.Errors, e.Err.Error())
		}
	}
	return nil, out, nil
}

func (s *Server) handleGetHabitStreak(ctx context.Context, req *mcp.CallToolRequest, input habitStreakInput) (*mcp.CallToolResult, tracker.StreakView, error) {
	e, err := s.svc.HabitStreak(input.HabitID)
	if err != nil && e.Habit == nil {
		return nil, tracker.StreakView{}, fmt.Errorf("habit: %w", err)
	}

	// A habit whose streak cannot be computed is still reported, with Error set.
	// Rank is its position in the full ranking, or 0 if it cannot be placed.
	position := 0
	if entries, _ := s.svc.Ranked(); entries != nil {
		for i, r := range entries {
			if r.Habit.ID == e.Habit.ID {
				position = i + 1
				break
			}
		}
	}

	view := tracker.NewStreakView(position, e)
	return nil, view, nil
}
