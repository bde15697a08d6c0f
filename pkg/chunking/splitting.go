package chunking

import (
	"regexp"
	"strings"
)

// textSpan is a size-bounded slice of a larger buffer, with line numbers
// already resolved against that buffer's starting line.
type textSpan struct {
	Content   string
	StartLine int
	EndLine   int
}

var (
	paragraphBoundaryPattern = regexp.MustCompile(`\n\n+`)
	sentenceBoundaryPattern  = regexp.MustCompile(`[.!?]+\s+`)
	wordBoundaryPattern      = regexp.MustCompile(`\s+`)
)

// splitBoundaryLevels is the priority order from spec §4.6: paragraph,
// sentence, word, then (handled separately) a hard character cut.
var splitBoundaryLevels = []*regexp.Regexp{
	paragraphBoundaryPattern,
	sentenceBoundaryPattern,
	wordBoundaryPattern,
}

// splitTextBounded is the shared size-bounded text splitting primitive
// (spec §4.6), used by the fallback strategy and by the code-aware and
// structural strategies when packing non-atomic text.
func splitTextBounded(text string, startLine, maxChunkSize int) []textSpan {
	if text == "" || maxChunkSize <= 0 {
		return nil
	}
	return splitRange(text, 0, len(text), startLine, maxChunkSize, 0)
}

func makeSpan(buf string, lo, hi, startLine int) textSpan {
	content := buf[lo:hi]
	sl := startLine + strings.Count(buf[:lo], "\n")
	el := sl + strings.Count(content, "\n")
	return textSpan{Content: content, StartLine: sl, EndLine: el}
}

func splitRange(buf string, lo, hi, startLine, maxChunkSize, level int) []textSpan {
	segLen := hi - lo
	if segLen <= 0 {
		return nil
	}
	if segLen <= maxChunkSize {
		return []textSpan{makeSpan(buf, lo, hi, startLine)}
	}
	if level >= len(splitBoundaryLevels) {
		return hardCut(buf, lo, hi, startLine, maxChunkSize)
	}

	spans := tileBySeparator(buf, lo, hi, splitBoundaryLevels[level])
	if len(spans) <= 1 {
		// This level's boundary doesn't subdivide the range; escalate.
		return splitRange(buf, lo, hi, startLine, maxChunkSize, level+1)
	}

	var result []textSpan
	curStart, curEnd := lo, lo
	flush := func() {
		if curEnd > curStart {
			result = append(result, makeSpan(buf, curStart, curEnd, startLine))
		}
	}
	for _, s := range spans {
		unitLen := s[1] - s[0]
		if unitLen > maxChunkSize {
			flush()
			curStart, curEnd = s[1], s[1]
			result = append(result, splitRange(buf, s[0], s[1], startLine, maxChunkSize, level+1)...)
			continue
		}
		if curEnd > curStart && (curEnd-curStart)+unitLen > maxChunkSize {
			flush()
			curStart = s[0]
		}
		curEnd = s[1]
	}
	flush()
	return result
}

// hardCut is the last-resort splitter: fixed-width byte cuts. It still
// respects UTF-8 boundaries by nudging the cut point backward if it would
// land inside a multi-byte rune.
func hardCut(buf string, lo, hi, startLine, maxChunkSize int) []textSpan {
	var result []textSpan
	cur := lo
	for cur < hi {
		end := cur + maxChunkSize
		if end > hi {
			end = hi
		}
		for end < hi && end > cur+1 && isUTF8Continuation(buf[end]) {
			end--
		}
		result = append(result, makeSpan(buf, cur, end, startLine))
		cur = end
	}
	return result
}

func isUTF8Continuation(b byte) bool {
	return b&0xC0 == 0x80
}

// tileBySeparator splits [lo,hi) into consecutive spans such that
// concatenating them reproduces buf[lo:hi] exactly: each separator match is
// folded into the end of the unit that precedes it.
func tileBySeparator(buf string, lo, hi int, re *regexp.Regexp) [][2]int {
	matches := re.FindAllStringIndex(buf[lo:hi], -1)
	if len(matches) == 0 {
		return [][2]int{{lo, hi}}
	}
	var spans [][2]int
	prev := lo
	for _, m := range matches {
		end := lo + m[1]
		spans = append(spans, [2]int{prev, end})
		prev = end
	}
	if prev < hi {
		spans = append(spans, [2]int{prev, hi})
	}
	return spans
}
