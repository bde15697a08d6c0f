package chunking

import "strings"

// sectionBoundary is one top-level (level <= MaxStructuralLevel) header
// plus the computed header_path for the section it opens.
type sectionBoundary struct {
	Header     Header
	HeaderPath string
	StartLine  int
	EndLine    int
}

// applyStructural implements the structural strategy (spec §4.4): chunk
// along header boundaries up to MaxStructuralLevel, attaching header paths
// and local section tags.
func applyStructural(li *lineIndex, analysis *ContentAnalysis, cfg ChunkConfig) []Chunk {
	var chunks []Chunk

	if cfg.ExtractPreamble && analysis.PreambleRange != nil {
		content := li.Slice(analysis.PreambleRange.Start, analysis.PreambleRange.End)
		if strings.TrimSpace(content) != "" {
			chunks = append(chunks, Chunk{
				Content:   content,
				StartLine: analysis.PreambleRange.Start,
				EndLine:   analysis.PreambleRange.End,
				Metadata: map[string]any{
					MetaContentType: string(ContentTypePreamble),
					MetaStrategy:    string(StrategyStructural),
					MetaHasCode:     false,
					MetaHeaderPath:  PreambleHeaderPath,
				},
			})
		}
	}

	boundaries := buildSectionBoundaries(li, analysis)
	for _, b := range boundaries {
		chunks = append(chunks, buildSectionChunks(li, analysis, cfg, b)...)
	}

	return chunks
}

// buildSectionBoundaries partitions the document at headers whose level is
// <= MaxStructuralLevel, computing each boundary's header_path from a
// running header stack.
func buildSectionBoundaries(li *lineIndex, analysis *ContentAnalysis) []sectionBoundary {
	var topHeaders []Header
	for _, h := range analysis.Headers {
		if h.Level <= MaxStructuralLevel {
			topHeaders = append(topHeaders, h)
		}
	}
	if len(topHeaders) == 0 {
		return nil
	}

	var stack []Header
	boundaries := make([]sectionBoundary, 0, len(topHeaders))
	for i, h := range topHeaders {
		for len(stack) > 0 && stack[len(stack)-1].Level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, h)

		texts := make([]string, len(stack))
		for j, s := range stack {
			texts[j] = s.Text
		}

		end := li.NumLines()
		if i+1 < len(topHeaders) {
			end = topHeaders[i+1].Line - 1
		}

		boundaries = append(boundaries, sectionBoundary{
			Header:     h,
			HeaderPath: "/" + strings.Join(texts, "/"),
			StartLine:  h.Line,
			EndLine:    end,
		})
	}
	return boundaries
}

// buildSectionChunks emits one chunk for a section that fits, or splits it
// per spec §4.4: first at sub-header boundaries, then via size-bounded text
// splitting, always preserving atomic ranges.
func buildSectionChunks(li *lineIndex, analysis *ContentAnalysis, cfg ChunkConfig, b sectionBoundary) []Chunk {
	full := li.Slice(b.StartLine, b.EndLine)
	if len(full) <= cfg.MaxChunkSize {
		return []Chunk{newSectionChunk(li, analysis, cfg, b.StartLine, b.EndLine, b)}
	}

	subLines := subHeaderLines(analysis, b)
	if len(subLines) == 0 {
		return packSectionRange(li, analysis, cfg, b.StartLine, b.EndLine, b)
	}

	var chunks []Chunk
	segStart := b.StartLine
	for _, subLine := range subLines {
		if subLine > segStart {
			chunks = append(chunks, packSectionRange(li, analysis, cfg, segStart, subLine-1, b)...)
		}
		segStart = subLine
	}
	chunks = append(chunks, packSectionRange(li, analysis, cfg, segStart, b.EndLine, b)...)
	return chunks
}

// subHeaderLines returns the document lines of headers one level deeper
// than b's own level, within b's span — the "next-deeper level" boundary
// set spec §4.4 prefers splitting at before falling back to text splitting.
func subHeaderLines(analysis *ContentAnalysis, b sectionBoundary) []int {
	minDeeper := 0
	for _, h := range analysis.Headers {
		if h.Line <= b.StartLine || h.Line > b.EndLine {
			continue
		}
		if h.Level > b.Header.Level && (minDeeper == 0 || h.Level < minDeeper) {
			minDeeper = h.Level
		}
	}
	if minDeeper == 0 {
		return nil
	}
	var lines []int
	for _, h := range analysis.Headers {
		if h.Line > b.StartLine && h.Line <= b.EndLine && h.Level == minDeeper {
			lines = append(lines, h.Line)
		}
	}
	return lines
}

// packSectionRange applies atomic-preserving, size-bounded text splitting
// (spec §4.6) to one slice of a section's body.
func packSectionRange(li *lineIndex, analysis *ContentAnalysis, cfg ChunkConfig, startLine, endLine int, b sectionBoundary) []Chunk {
	if startLine > endLine {
		return nil
	}
	if li.Slice(startLine, endLine) == "" {
		return nil
	}
	if endLine-startLine+1 <= 0 {
		return nil
	}
	if l := li.Slice(startLine, endLine); len(l) <= cfg.MaxChunkSize {
		if strings.TrimSpace(l) == "" {
			return nil
		}
		return []Chunk{newSectionChunk(li, analysis, cfg, startLine, endLine, b)}
	}

	var ranges []atomicRange
	for _, ar := range collectAtomicRanges(analysis) {
		if ar.Start >= startLine && ar.End <= endLine {
			ranges = append(ranges, ar)
		}
	}

	var chunks []Chunk
	cursor := startLine
	for _, ar := range ranges {
		if ar.Start > cursor {
			chunks = append(chunks, packSectionText(li, analysis, cfg, cursor, ar.Start-1, b)...)
		}
		atomic := makeAtomicChunk(li, ar, cfg)
		atomic.Metadata[MetaStrategy] = string(StrategyStructural)
		atomic.Metadata[MetaHeaderPath] = b.HeaderPath
		atomic.Metadata[MetaHeaderLevel] = b.Header.Level
		chunks = append(chunks, atomic)
		cursor = ar.End + 1
	}
	if cursor <= endLine {
		chunks = append(chunks, packSectionText(li, analysis, cfg, cursor, endLine, b)...)
	}
	return chunks
}

func packSectionText(li *lineIndex, analysis *ContentAnalysis, cfg ChunkConfig, startLine, endLine int, b sectionBoundary) []Chunk {
	if startLine > endLine {
		return nil
	}
	text := li.Slice(startLine, endLine)
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var chunks []Chunk
	for _, span := range splitTextBounded(text, startLine, cfg.MaxChunkSize) {
		if strings.TrimSpace(span.Content) == "" {
			continue
		}
		c := newSectionChunk(li, analysis, cfg, span.StartLine, span.EndLine, b)
		c.Content = span.Content
		if len(c.Content) > cfg.MaxChunkSize {
			c.Metadata[MetaAllowOversize] = true
			c.Metadata[MetaOversizeReason] = string(OversizeSection)
		}
		chunks = append(chunks, c)
	}
	return chunks
}

func newSectionChunk(li *lineIndex, analysis *ContentAnalysis, cfg ChunkConfig, startLine, endLine int, b sectionBoundary) Chunk {
	content := li.Slice(startLine, endLine)
	tags := localSectionTags(analysis, b, startLine, endLine)
	meta := map[string]any{
		MetaContentType: string(ContentTypeSection),
		MetaStrategy:    string(StrategyStructural),
		MetaHeaderPath:  b.HeaderPath,
		MetaHeaderLevel: b.Header.Level,
		MetaSectionTags: tags,
	}
	if len(content) > cfg.MaxChunkSize {
		meta[MetaAllowOversize] = true
		meta[MetaOversizeReason] = string(OversizeSection)
	}
	return Chunk{
		Content:   content,
		StartLine: startLine,
		EndLine:   endLine,
		Metadata:  meta,
	}
}

// localSectionTags collects sub-header texts (deeper than b's own level)
// whose line falls within [startLine, endLine], in first-seen order.
func localSectionTags(analysis *ContentAnalysis, b sectionBoundary, startLine, endLine int) []string {
	var tags []string
	seen := map[string]bool{}
	for _, h := range analysis.Headers {
		if h.Line < startLine || h.Line > endLine {
			continue
		}
		if h.Line == b.StartLine {
			continue // the section's own boundary header, not a sub-tag
		}
		if h.Level <= b.Header.Level {
			continue
		}
		if !seen[h.Text] {
			seen[h.Text] = true
			tags = append(tags, h.Text)
		}
	}
	return tags
}
