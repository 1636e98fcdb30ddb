// ABOUTME: CLI commands for exporting and importing habit data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats and JSON import.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/habits/internal/storage"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export habit data",
	Long: `Export habit data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export with completions grouped under each habit
  markdown   One section per habit with its streaks and a completion table

OPTIONS:

  --output, -o   Write to file instead of stdout

EXAMPLES:

  habits export json                  # Export all data as JSON
  habits export json -o backup.json   # Save to file
  habits export yaml                  # Export as YAML
  habits export markdown -o habits.md # Shareable report`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = storage.ExportJSON(repo)
		case "yaml":
			data, err = storage.ExportYAML(repo)
		case "markdown", "md":
			var md string
			md, err = storage.ExportMarkdown(repo, svc.Calculator())
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import habit data from JSON",
	Long: `Import habits and completions from a JSON backup file.

Duplicate entries (same ID) will cause an error and nothing is imported
on backends that support transactions.

EXAMPLES:

  habits import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		raw, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		data, err := storage.ImportJSON(repo, raw)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported %d habits and %d completions from %s",
			len(data.Habits), len(data.Completions), filename)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
