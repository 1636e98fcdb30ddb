// ABOUTME: Tests for Completion model.
// ABOUTME: Validates constructor and builder methods.
package models

import (
	"testing"
	"time"
)

func TestNewCompletion(t *testing.T) {
	h := NewHabit("harper", "Meditate", "10 minutes")
	c := NewCompletion(h)

	if c.HabitID != h.ID {
		t.Error("expected HabitID to match")
	}
	if c.UserID != "harper" {
		t.Errorf("UserID = %s, want harper", c.UserID)
	}
	if c.CompletedAt.IsZero() {
		t.Error("expected CompletedAt to be set")
	}
}

func TestCompletionBuilders(t *testing.T) {
	h := NewHabit("harper", "Meditate", "10 minutes")
	at := time.Date(2025, 3, 1, 7, 30, 0, 0, time.UTC)
	c := NewCompletion(h).WithCompletedAt(at).WithNotes("calm")

	if !c.CompletedAt.Equal(at) {
		t.Errorf("CompletedAt = %v, want %v", c.CompletedAt, at)
	}
	if c.Notes == nil || *c.Notes != "calm" {
		t.Error("expected Notes to be calm")
	}
}
