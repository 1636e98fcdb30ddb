// ABOUTME: Terminal rendering for ranked streaks and shared text helpers.
// ABOUTME: Draws the leaderboard with lipgloss gold, silver and bronze badges.
package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/habits/internal/streak"
)

var (
	goldStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffd700"))
	silverStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#c0c0c0"))
	bronzeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#cd7f32"))
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff5f5f"))
)

const titleWidth = 24

func badgeLabel(b streak.Badge) string {
	switch b {
	case streak.BadgeGold:
		return goldStyle.Render("🥇 gold")
	case streak.BadgeSilver:
		return silverStyle.Render("🥈 silver")
	case streak.BadgeBronze:
		return bronzeStyle.Render("🥉 bronze")
	default:
		return ""
	}
}

// renderStreaks draws the leaderboard as one line per habit.
func renderStreaks(entries []streak.Entry) string {
	if len(entries) == 0 {
		return "No habits yet. Add one with 'habits add'.\n"
	}

	var b strings.Builder
	header := fmt.Sprintf("%-3s %-8s %s %7s %5s %6s",
		"#", "ID", padRight("HABIT", titleWidth), "CURRENT", "BEST", "TOTAL")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for i, e := range entries {
		pos := i + 1
		line := fmt.Sprintf("%-3d %s %s %7d %5d %6d",
			pos,
			dimStyle.Render(e.Habit.ID.String()[:8]),
			padRight(truncate(e.Habit.Title, titleWidth), titleWidth),
			e.Current, e.Best, e.Total)
		if badge := badgeLabel(streak.BadgeFor(pos)); badge != "" {
			line += "  " + badge
		}
		if e.Err != nil {
			line += "  " + errStyle.Render("⚠ "+e.Err.Error())
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

func padRight(s string, length int) string {
	n := len([]rune(s))
	if n >= length {
		return s
	}
	return s + strings.Repeat(" ", length-n)
}

func shortID(id fmt.Stringer) string {
	return id.String()[:8]
}
