// ABOUTME: Habit model and Frequency enum for habit tracking.
// ABOUTME: Habits are owned by a user and referenced by completions.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Frequency is the cadence a habit is meant to be performed at.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// AllFrequencies returns all valid frequencies.
var AllFrequencies = []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly}

// IsValidFrequency checks if a string is a valid frequency.
func IsValidFrequency(s string) bool {
	for _, f := range AllFrequencies {
		if string(f) == s {
			return true
		}
	}
	return false
}

// ParseFrequency converts user input to a Frequency. Empty input means daily.
func ParseFrequency(s string) (Frequency, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FrequencyDaily, nil
	}
	if !IsValidFrequency(s) {
		return "", fmt.Errorf("unknown frequency: %s (use daily, weekly, or monthly)", s)
	}
	return Frequency(s), nil
}

// Habit represents a user-defined recurring activity.
type Habit struct {
	ID          uuid.UUID
	UserID      string
	Title       string
	Description string
	Frequency   Frequency
	CreatedAt   time.Time
}

// NewHabit creates a new daily Habit with generated UUID and current timestamp.
func NewHabit(userID, title, description string) *Habit {
	return &Habit{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Frequency:   FrequencyDaily,
		CreatedAt:   time.Now(),
	}
}

// WithFrequency sets the habit frequency.
func (h *Habit) WithFrequency(f Frequency) *Habit {
	h.Frequency = f
	return h
}

// Validate reports whether the habit can be stored.
func (h *Habit) Validate() error {
	if strings.TrimSpace(h.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(h.Description) == "" {
		return fmt.Errorf("description is required")
	}
	if !IsValidFrequency(string(h.Frequency)) {
		return fmt.Errorf("unknown frequency: %s", h.Frequency)
	}
	return nil
}
