// ABOUTME: Tests for the install-skill command.
// ABOUTME: Validates skill installation, confirmation handling, and file content.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestSkillInstallWritesFile verifies a confirmed install creates the
// directory tree and writes the embedded content.
func TestSkillInstallWritesFile(t *testing.T) {
	home := t.TempDir()
	var out bytes.Buffer

	if err := installSkill(home, true, strings.NewReader("y\n"), &out); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}

	written, err := os.ReadFile(skillPath(home))
	if err != nil {
		t.Fatalf("Skill file not created: %v", err)
	}

	embedded, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		t.Fatalf("Failed to read embedded skill: %v", err)
	}
	if !bytes.Equal(written, embedded) {
		t.Error("Installed skill does not match embedded content")
	}
	if !strings.Contains(out.String(), "Installed habits skill") {
		t.Errorf("Expected success message, got: %s", out.String())
	}
}

// TestSkillInstallCanceled verifies that anything but yes leaves no file.
func TestSkillInstallCanceled(t *testing.T) {
	for _, answer := range []string{"n\n", "\n", "maybe\n", ""} {
		home := t.TempDir()
		var out bytes.Buffer

		if err := installSkill(home, true, strings.NewReader(answer), &out); err != nil {
			t.Fatalf("installSkill(%q) failed: %v", answer, err)
		}
		if _, err := os.Stat(skillPath(home)); err == nil {
			t.Errorf("Answer %q should not install the skill", answer)
		}
		if !strings.Contains(out.String(), "Installation canceled") {
			t.Errorf("Answer %q: expected cancel message", answer)
		}
	}
}

// TestSkillInstallOverwritesExistingFile verifies that an existing skill file
// is replaced without prompting when confirmation is skipped.
func TestSkillInstallOverwritesExistingFile(t *testing.T) {
	home := t.TempDir()
	dest := skillPath(home)

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		t.Fatalf("Failed to create skill directory: %v", err)
	}
	if err := os.WriteFile(dest, []byte("# Old Skill\nstale content"), 0644); err != nil {
		t.Fatalf("Failed to write old skill file: %v", err)
	}

	var out bytes.Buffer
	if err := installSkill(home, false, strings.NewReader(""), &out); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Failed to read skill file: %v", err)
	}
	if strings.Contains(string(data), "stale content") {
		t.Error("Old content should have been replaced")
	}
	if !strings.Contains(out.String(), "already exists") {
		t.Error("Expected overwrite notice")
	}

	info, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("Failed to stat skill file: %v", err)
	}
	if info.Mode().Perm()&0600 != 0600 {
		t.Errorf("Expected file to be rw for owner, got %v", info.Mode())
	}
}

// TestSkillFSReadEmbeddedContent verifies the embedded SKILL.md has
// frontmatter and documents every MCP tool.
func TestSkillFSReadEmbeddedContent(t *testing.T) {
	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		t.Fatalf("Failed to read embedded skill/SKILL.md: %v", err)
	}

	contentStr := string(content)
	if !strings.HasPrefix(contentStr, "---") {
		t.Error("Expected SKILL.md to start with YAML frontmatter (---)")
	}

	expected := []string{
		"name: habits",
		"description:",
		"## When to use habits",
		"mcp__habits__add_habit",
		"mcp__habits__list_habits",
		"mcp__habits__update_habit",
		"mcp__habits__delete_habit",
		"mcp__habits__complete_habit",
		"mcp__habits__list_completions",
		"mcp__habits__delete_completion",
		"mcp__habits__get_streaks",
		"mcp__habits__get_habit_streak",
		"habits://today",
	}
	for _, marker := range expected {
		if !strings.Contains(contentStr, marker) {
			t.Errorf("Expected SKILL.md to contain %q", marker)
		}
	}
}

// TestSkillSkipConfirmFlag verifies the flag exists and has correct defaults.
func TestSkillSkipConfirmFlag(t *testing.T) {
	flag := installSkillCmd.Flags().Lookup("yes")
	if flag == nil {
		t.Fatal("Expected --yes flag to be defined")
	}
	if flag.Shorthand != "y" {
		t.Errorf("Expected shorthand 'y', got %q", flag.Shorthand)
	}
	if flag.DefValue != "false" {
		t.Errorf("Expected default value 'false', got %q", flag.DefValue)
	}
}
