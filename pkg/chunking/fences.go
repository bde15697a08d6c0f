package chunking

import "strings"

// fenceCandidate strips at most 3 leading spaces, per spec §4.1. A line
// with more than 3 leading spaces can never open or close a fence, because
// after stripping three the remaining leading space still blocks the
// fence-char-at-start test below.
func fenceCandidate(line string) string {
	i := 0
	for i < len(line) && i < 3 && line[i] == ' ' {
		i++
	}
	return line[i:]
}

// detectFenceOpen reports whether stripped begins a fence: a run of 3-5
// identical backtick or tilde characters. The optional info string is the
// trimmed remainder of the line.
func detectFenceOpen(stripped string) (char byte, length int, info string, ok bool) {
	if len(stripped) == 0 {
		return 0, 0, "", false
	}
	c := stripped[0]
	if c != '`' && c != '~' {
		return 0, 0, "", false
	}
	n := 0
	for n < len(stripped) && stripped[n] == c {
		n++
	}
	if n < 3 || n > 5 {
		return 0, 0, "", false
	}
	return c, n, strings.TrimSpace(stripped[n:]), true
}

// detectFenceClose reports whether stripped closes a fence opened with the
// given character and length: a run of the same character at least as long
// as the opener, with nothing else on the line.
func detectFenceClose(stripped string, char byte, openLength int) bool {
	if len(stripped) == 0 || stripped[0] != char {
		return false
	}
	n := 0
	for n < len(stripped) && stripped[n] == char {
		n++
	}
	if n < openLength {
		return false
	}
	return strings.TrimSpace(stripped[n:]) == ""
}

type fenceFrame struct {
	char      byte
	length    int
	info      string
	startLine int
	depth     int // 0 means top-level; only depth-0 frames become FencedBlocks
}

// scanFences performs the single-pass, stack-based fence scan described in
// spec §4.1. Only top-level (non-nested) fences are returned: a fence
// nested inside another is content of the outer block, never a separate
// atomic range (spec scenario C).
func scanFences(li *lineIndex) []FencedBlock {
	var blocks []FencedBlock
	var stack []fenceFrame

	finalize := func(f fenceFrame, endLine int, closed bool) {
		if f.depth != 0 {
			return
		}
		contentStart := f.startLine + 1
		contentEnd := endLine
		if closed {
			contentEnd = endLine - 1
		}
		var content string
		if contentStart <= contentEnd {
			content = li.Slice(contentStart, contentEnd)
		}
		language := f.info
		if idx := strings.IndexAny(language, " \t"); idx >= 0 {
			language = language[:idx]
		}
		blocks = append(blocks, FencedBlock{
			FenceChar:   FenceChar(f.char),
			FenceLength: f.length,
			Info:        f.info,
			Language:    language,
			Content:     content,
			StartLine:   f.startLine,
			EndLine:     endLine,
			StartOffset: li.Offset(f.startLine),
			EndOffset:   li.EndOffset(endLine),
			Closed:      closed,
		})
	}

	for ln := 1; ln <= li.NumLines(); ln++ {
		stripped := fenceCandidate(li.Line(ln))

		if len(stack) > 0 {
			top := stack[len(stack)-1]
			if detectFenceClose(stripped, top.char, top.length) {
				stack = stack[:len(stack)-1]
				finalize(top, ln, true)
				continue
			}
		}

		if c, n, info, ok := detectFenceOpen(stripped); ok {
			stack = append(stack, fenceFrame{
				char:      c,
				length:    n,
				info:      info,
				startLine: ln,
				depth:     len(stack),
			})
		}
	}

	// Any frames left open reach EOF unclosed (spec scenario D). Flush
	// innermost-first so each finalize call sees a consistent stack state.
	for i := len(stack) - 1; i >= 0; i-- {
		finalize(stack[i], li.NumLines(), false)
	}

	// Frames were pushed in document order, but EOF flush above emits in
	// reverse (innermost-first); only depth-0 frames are actually kept, and
	// there is at most one unclosed depth-0 frame at any time, so no
	// reordering is needed beyond a final sort by start line for safety.
	for i := 1; i < len(blocks); i++ {
		for j := i; j > 0 && blocks[j].StartLine < blocks[j-1].StartLine; j-- {
			blocks[j], blocks[j-1] = blocks[j-1], blocks[j]
		}
	}

	return blocks
}

// lineInFencedBlock reports whether the given 1-based line falls within
// any top-level fenced block (inclusive of its fence delimiter lines).
func lineInFencedBlock(blocks []FencedBlock, line int) bool {
	for _, b := range blocks {
		if line >= b.StartLine && line <= b.EndLine {
			return true
		}
	}
	return false
}
