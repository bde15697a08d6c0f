package chunking

import (
	"regexp"
	"strings"
)

// obsidianBlockIDPattern matches a trailing Obsidian-style block identifier
// (e.g. " ^abc123") at the end of a line, never mid-line.
var obsidianBlockIDPattern = regexp.MustCompile(`[ \t]\^[A-Za-z0-9_-]+[ \t]*$`)

// normalizeLineEndings converts CRLF and bare CR to LF. This runs once over
// the whole input before any scanning, so every subsequent line number is
// computed against LF-only text.
func normalizeLineEndings(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text
}

// stripObsidianBlockIDs removes trailing "^blockid" markers line by line.
// Disabled by default; callers opt in via ParseOptions.StripObsidianBlockIDs.
func stripObsidianBlockIDs(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = obsidianBlockIDPattern.ReplaceAllString(line, "")
	}
	return strings.Join(lines, "\n")
}

// ParseOptions carries parser preprocessing toggles that sit outside
// ChunkConfig's documented option set (spec §4.1: "Controlled by an
// explicit config flag (if exposed); default disabled.").
type ParseOptions struct {
	StripObsidianBlockIDs bool
}
