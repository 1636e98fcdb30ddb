// ABOUTME: YAML frontmatter decoding, rendering, and atomic file writes.
// ABOUTME: Support helpers for the markdown-backed store.
package storage

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/adrg/frontmatter"
	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"
)

const frontmatterDelim = "---"

// yamlFrontmatter decodes headers with yaml.v3 so reads match renderFrontmatter.
var yamlFrontmatter = frontmatter.NewFormat(frontmatterDelim, frontmatterDelim, yaml.Unmarshal)

// decodeFrontmatter decodes the YAML header of data into v and returns the
// markdown body. A document without a header is an error.
func decodeFrontmatter(data []byte, v interface{}) (string, error) {
	body, err := frontmatter.MustParse(bytes.NewReader(data), v, yamlFrontmatter)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// renderFrontmatter encodes fm as a YAML header followed by body.
func renderFrontmatter(fm interface{}, body string) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(frontmatterDelim + "\n")
	sb.WriteString(buf.String())
	sb.WriteString(frontmatterDelim + "\n")
	sb.WriteString(body)
	return sb.String(), nil
}

// atomicWrite replaces path with data via a temp file in the same directory.
func atomicWrite(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := renameio.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// slugify lowercases s and joins its alphanumeric runs with hyphens.
func slugify(s string) string {
	var sb strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(r)
			pendingDash = false
			continue
		}
		pendingDash = true
	}

	slug := sb.String()
	if runes := []rune(slug); len(runes) > 40 {
		slug = strings.TrimRight(string(runes[:40]), "-")
	}
	if slug == "" {
		return "habit"
	}
	return slug
}
