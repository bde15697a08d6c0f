package chunking

import (
	"strconv"
	"strings"
)

// validationResult carries the validator's findings: warnings accumulate
// without stopping chunking, while a non-nil Err means a hard invariant was
// broken and chunking must abort (spec §4.8).
type validationResult struct {
	Warnings []string
	Err      *ChunkingError
}

// validateChunks runs every check from spec §4.8 against the final chunk
// list, in document order against the original (normalized) text.
func validateChunks(chunks []Chunk, normalized string, cfg ChunkConfig) validationResult {
	var res validationResult

	if err := checkMonotonicOrder(chunks); err != nil {
		res.Err = err
		return res
	}
	if err := checkNoEmptyChunks(chunks); err != nil {
		res.Err = err
		return res
	}
	if err := checkHeaderPaths(chunks); err != nil {
		res.Err = err
		return res
	}
	if err := checkMetadataConsistency(chunks); err != nil {
		res.Err = err
		return res
	}
	if err := checkContentLossGaps(chunks, normalized); err != nil {
		res.Err = err
		return res
	}

	if w := checkContentPreservation(chunks, normalized); w != "" {
		res.Warnings = append(res.Warnings, w)
	}
	res.Warnings = append(res.Warnings, checkSizeBounds(chunks, cfg)...)

	return res
}

// checkMonotonicOrder is a hard invariant: StartLine/EndLine must never
// decrease across the chunk sequence.
func checkMonotonicOrder(chunks []Chunk) *ChunkingError {
	for i := 1; i < len(chunks); i++ {
		if chunks[i].StartLine < chunks[i-1].StartLine {
			return newHardInvariantError("chunk %d starts at line %d, before chunk %d's line %d",
				i, chunks[i].StartLine, i-1, chunks[i-1].StartLine)
		}
		if chunks[i].EndLine < chunks[i-1].EndLine {
			return newHardInvariantError("chunk %d ends at line %d, before chunk %d's line %d",
				i, chunks[i].EndLine, i-1, chunks[i-1].EndLine)
		}
		if chunks[i].EndLine < chunks[i].StartLine {
			return newHardInvariantError("chunk %d has end_line %d before start_line %d",
				i, chunks[i].EndLine, chunks[i].StartLine)
		}
	}
	return nil
}

// checkNoEmptyChunks is a hard invariant: every chunk must carry non-blank
// content.
func checkNoEmptyChunks(chunks []Chunk) *ChunkingError {
	for i, c := range chunks {
		if strings.TrimSpace(c.Content) == "" {
			return newHardInvariantError("chunk %d is empty or whitespace-only", i)
		}
	}
	return nil
}

// checkHeaderPaths is a hard invariant: any header_path present must be
// the preamble sentinel or start with "/" and contain no empty segments.
func checkHeaderPaths(chunks []Chunk) *ChunkingError {
	for i, c := range chunks {
		path, ok := c.Metadata[MetaHeaderPath].(string)
		if !ok || path == "" {
			continue
		}
		if path == PreambleHeaderPath {
			continue
		}
		if !strings.HasPrefix(path, "/") {
			return newHardInvariantError("chunk %d header_path %q does not start with /", i, path)
		}
		for _, seg := range strings.Split(path, "/")[1:] {
			if seg == "" {
				return newHardInvariantError("chunk %d header_path %q has an empty segment", i, path)
			}
		}
	}
	return nil
}

// checkMetadataConsistency is a hard invariant: size/line_count must match
// the chunk's actual content, and chunk_index must be sequential.
func checkMetadataConsistency(chunks []Chunk) *ChunkingError {
	for i, c := range chunks {
		if size, ok := c.Metadata[MetaSize].(int); ok && size != c.Size() {
			return newHardInvariantError("chunk %d metadata size %d does not match actual size %d", i, size, c.Size())
		}
		if lc, ok := c.Metadata[MetaLineCount].(int); ok {
			want := c.EndLine - c.StartLine + 1
			if lc != want {
				return newHardInvariantError("chunk %d metadata line_count %d does not match %d", i, lc, want)
			}
		}
		if idx, ok := c.Metadata[MetaChunkIndex].(int); ok && idx != i {
			return newHardInvariantError("chunk %d metadata chunk_index %d does not match position %d", i, idx, i)
		}
	}
	return nil
}

// checkContentLossGaps is a hard invariant (spec §4.8/§7): a single
// contiguous run of >=10 consecutive source lines, carrying real (non-blank)
// content, that no chunk's [StartLine, EndLine] covers is a ContentLoss
// error, not a warning. Shorter gaps are left to checkContentPreservation's
// aggregate coverage warning.
func checkContentLossGaps(chunks []Chunk, normalized string) *ChunkingError {
	li := newLineIndex(normalized)
	total := li.NumLines()
	if total == 0 {
		return nil
	}

	covered := make([]bool, total+1) // 1-based
	for _, c := range chunks {
		start, end := c.StartLine, c.EndLine
		if start < 1 {
			start = 1
		}
		if end > total {
			end = total
		}
		for n := start; n <= end; n++ {
			covered[n] = true
		}
	}

	gapStart := 0
	for n := 1; n <= total; n++ {
		blank := strings.TrimSpace(li.Line(n)) == ""
		if !covered[n] && !blank {
			if gapStart == 0 {
				gapStart = n
			}
			continue
		}
		if gapStart != 0 {
			if n-gapStart >= 10 {
				return newContentLossError("lines %d-%d (%d consecutive lines) are missing from the chunked output",
					gapStart, n-1, n-gapStart)
			}
			gapStart = 0
		}
	}
	if gapStart != 0 && total-gapStart+1 >= 10 {
		return newContentLossError("lines %d-%d (%d consecutive lines) are missing from the chunked output",
			gapStart, total, total-gapStart+1)
	}
	return nil
}

// checkContentPreservation is a soft check (spec §4.8): concatenated chunk
// content must cover at least 95% of the normalized input's non-whitespace
// characters. A shortfall yields a warning, never an error; long uncovered
// runs of lines are reported as errors separately, by checkContentLossGaps.
func checkContentPreservation(chunks []Chunk, normalized string) string {
	total := countNonSpace(normalized)
	if total == 0 {
		return ""
	}
	var covered int
	for _, c := range chunks {
		covered += countNonSpace(c.Content)
	}
	coverage := float64(covered) / float64(total)
	if coverage >= 0.95 {
		return ""
	}
	return formatCoverageWarning(coverage)
}

func countNonSpace(s string) int {
	n := 0
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			n++
		}
	}
	return n
}

func formatCoverageWarning(coverage float64) string {
	return "content coverage " + trimFloat(coverage*100) + "% is below the 95% preservation threshold"
}

func trimFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// checkSizeBounds is a soft check: any non-atomic chunk exceeding
// MaxChunkSize without an oversize_reason is an invariant the validator
// cannot fix post hoc, so it is promoted to allow_oversize here and
// reported as a warning rather than a hard failure.
func checkSizeBounds(chunks []Chunk, cfg ChunkConfig) []string {
	var warnings []string
	for i := range chunks {
		c := &chunks[i]
		if c.Size() <= cfg.MaxChunkSize {
			continue
		}
		if _, ok := c.Metadata[MetaOversizeReason]; ok {
			continue
		}
		c.Metadata[MetaAllowOversize] = true
		c.Metadata[MetaOversizeReason] = string(OversizeSection)
		warnings = append(warnings, "chunk "+strconv.Itoa(i)+" exceeds max_chunk_size and was upgraded to allow_oversize")
	}
	return warnings
}
