package chunking

import "strings"

// lineIndex precomputes per-line byte offsets over a normalized document so
// every scanner (fences, headers, tables, lists) and every downstream
// strategy can convert between 1-based line numbers and byte ranges without
// re-scanning the text.
type lineIndex struct {
	text     string
	lines    []string // raw line content, no terminators; len == numLines
	start    []int    // start[i] = byte offset of lines[i] in text
	fullEnd  []int    // fullEnd[i] = byte offset just past lines[i]'s line terminator (or EOF)
}

// newLineIndex builds a lineIndex over already-normalized (LF-only) text.
func newLineIndex(text string) *lineIndex {
	segments := strings.Split(text, "\n")

	numLines := len(segments)
	if text == "" {
		numLines = 0
	} else if numLines > 0 && segments[numLines-1] == "" {
		// A trailing "\n" produces a phantom empty final segment; don't
		// count it as a real line, but its offsets still fold into the
		// previous line's fullEnd so slicing stays correct.
		numLines--
	}

	start := make([]int, len(segments))
	offset := 0
	for i, seg := range segments {
		start[i] = offset
		offset += len(seg)
		if i < len(segments)-1 {
			offset++ // the '\n' consumed by Split
		}
	}

	fullEnd := make([]int, len(segments))
	for i := range segments {
		if i+1 < len(segments) {
			fullEnd[i] = start[i+1]
		} else {
			fullEnd[i] = len(text)
		}
	}

	return &lineIndex{
		text:    text,
		lines:   segments[:numLines],
		start:   start,
		fullEnd: fullEnd,
	}
}

// NumLines returns the number of real (non-phantom) lines.
func (li *lineIndex) NumLines() int { return len(li.lines) }

// Line returns the raw content of the given 1-based line number.
func (li *lineIndex) Line(n int) string {
	if n < 1 || n > len(li.lines) {
		return ""
	}
	return li.lines[n-1]
}

// Offset returns the byte offset at which line n (1-based) begins.
func (li *lineIndex) Offset(n int) int {
	if n < 1 || n > len(li.start) {
		if len(li.start) == 0 {
			return 0
		}
		n = len(li.start)
	}
	return li.start[n-1]
}

// EndOffset returns the byte offset just past line n (1-based), including
// its trailing newline when one follows in the source text.
func (li *lineIndex) EndOffset(n int) int {
	if n < 1 || n > len(li.fullEnd) {
		if len(li.fullEnd) == 0 {
			return 0
		}
		n = len(li.fullEnd)
	}
	return li.fullEnd[n-1]
}

// Slice returns the text spanning lines [start, end] inclusive (1-based),
// including interior and trailing newlines exactly as they appear in the
// source (so re-joining adjacent ranges reproduces the original text).
func (li *lineIndex) Slice(start, end int) string {
	if start < 1 {
		start = 1
	}
	if end > len(li.lines) {
		end = len(li.lines)
	}
	if start > end || len(li.lines) == 0 {
		return ""
	}
	return li.text[li.Offset(start):li.EndOffset(end)]
}

// LineAtOffset returns the 1-based line number containing the given byte
// offset.
func (li *lineIndex) LineAtOffset(off int) int {
	// Linear scan is fine: callers invoke this rarely, never in the hot
	// per-character scanning loops.
	for i := len(li.start) - 1; i >= 0; i-- {
		if off >= li.start[i] {
			return i + 1
		}
	}
	return 1
}
