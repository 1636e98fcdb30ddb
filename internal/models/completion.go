// ABOUTME: Completion model recording one instance of a habit being performed.
// ABOUTME: Completions are append-only events referencing a habit by ID.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Completion marks a habit as done at a point in time.
type Completion struct {
	ID          uuid.UUID
	HabitID     uuid.UUID
	UserID      string
	CompletedAt time.Time
	Notes       *string
	CreatedAt   time.Time
}

// NewCompletion creates a Completion for the habit stamped with the current time.
func NewCompletion(h *Habit) *Completion {
	now := time.Now()
	return &Completion{
		ID:          uuid.New(),
		HabitID:     h.ID,
		UserID:      h.UserID,
		CompletedAt: now,
		CreatedAt:   now,
	}
}

// WithCompletedAt sets a custom completion timestamp.
func (c *Completion) WithCompletedAt(t time.Time) *Completion {
	c.CompletedAt = t
	return c
}

// WithNotes sets notes on the completion.
func (c *Completion) WithNotes(notes string) *Completion {
	c.Notes = &notes
	return c
}
