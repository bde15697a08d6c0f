package chunking

import "regexp"

// atxHeaderPattern matches ATX headers: up to 3 leading spaces, 1-6 '#'
// characters, at least one space, the header text, and optional trailing
// hashes.
var atxHeaderPattern = regexp.MustCompile(`^ {0,3}(#{1,6}) +(.+?)\s*#*\s*$`)

// scanHeaders finds ATX headers outside fenced blocks. Setext headers
// (underlines) are intentionally not recognized, per spec §4.1.
func scanHeaders(li *lineIndex, fenced []FencedBlock) []Header {
	var headers []Header
	for ln := 1; ln <= li.NumLines(); ln++ {
		if lineInFencedBlock(fenced, ln) {
			continue
		}
		line := li.Line(ln)
		m := atxHeaderPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		headers = append(headers, Header{
			Level:      len(m[1]),
			Text:       m[2],
			Line:       ln,
			CharOffset: li.Offset(ln),
		})
	}
	return headers
}
