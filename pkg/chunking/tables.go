package chunking

import (
	"regexp"
	"strings"
)

// tableAlignmentPattern matches a GFM table alignment/delimiter row, e.g.
// "|---|:---:|---:|" or "--- | ---". Each cell needs at least three dashes.
var tableAlignmentPattern = regexp.MustCompile(`^\s*\|?(\s*:?-{3,}:?\s*\|)+\s*:?-{3,}:?\s*\|?\s*$`)

// hasUnescapedPipe reports whether line contains at least one '|' not
// preceded by a backslash escape.
func hasUnescapedPipe(line string) bool {
	for i := 0; i < len(line); i++ {
		if line[i] == '|' && (i == 0 || line[i-1] != '\\') {
			return true
		}
	}
	return false
}

// countTableColumns counts the cells implied by a delimiter row.
func countTableColumns(row string) int {
	trimmed := strings.TrimSpace(row)
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")
	if trimmed == "" {
		return 0
	}
	return len(strings.Split(trimmed, "|"))
}

// scanTables finds GFM pipe tables outside fenced blocks: a header row with
// at least one unescaped pipe, immediately followed by a delimiter row, and
// zero or more continuation rows until a blank line or a line without a
// pipe. Spec §9 Open Questions settles on a minimum of 2 rows (header +
// delimiter), not the stricter "3 data rows" some of the retrieval pack's
// chunkers require.
func scanTables(li *lineIndex, fenced []FencedBlock) []TableBlock {
	var tables []TableBlock
	ln := 1
	for ln <= li.NumLines() {
		if lineInFencedBlock(fenced, ln) {
			ln++
			continue
		}
		header := li.Line(ln)
		if ln+1 > li.NumLines() || lineInFencedBlock(fenced, ln+1) {
			ln++
			continue
		}
		if !hasUnescapedPipe(header) {
			ln++
			continue
		}
		alignRow := li.Line(ln + 1)
		if !tableAlignmentPattern.MatchString(alignRow) {
			ln++
			continue
		}

		end := ln + 1
		cursor := ln + 2
		for cursor <= li.NumLines() && !lineInFencedBlock(fenced, cursor) {
			line := li.Line(cursor)
			if strings.TrimSpace(line) == "" || !hasUnescapedPipe(line) {
				break
			}
			end = cursor
			cursor++
		}

		tables = append(tables, TableBlock{
			StartLine: ln,
			EndLine:   end,
			Rows:      end - ln + 1,
			Columns:   countTableColumns(alignRow),
		})
		ln = end + 1
	}
	return tables
}

// lineInTable reports whether the given 1-based line falls within any
// detected table.
func lineInTable(tables []TableBlock, line int) bool {
	for _, t := range tables {
		if line >= t.StartLine && line <= t.EndLine {
			return true
		}
	}
	return false
}
