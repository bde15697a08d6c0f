package chunking

import "strings"

type atomicRange struct {
	Start, End int
	Kind       ContentType // ContentTypeCode or ContentTypeTable
	Fenced     *FencedBlock
	Table      *TableBlock
}

// collectAtomicRanges merges fenced blocks and tables into one sorted,
// non-overlapping sequence. Tables never land inside fenced blocks because
// scanTables already skips fenced lines, so a plain start-line sort is
// sufficient (spec §4.3).
func collectAtomicRanges(analysis *ContentAnalysis) []atomicRange {
	ranges := make([]atomicRange, 0, len(analysis.FencedBlocks)+len(analysis.Tables))
	for i := range analysis.FencedBlocks {
		f := &analysis.FencedBlocks[i]
		ranges = append(ranges, atomicRange{Start: f.StartLine, End: f.EndLine, Kind: ContentTypeCode, Fenced: f})
	}
	for i := range analysis.Tables {
		t := &analysis.Tables[i]
		ranges = append(ranges, atomicRange{Start: t.StartLine, End: t.EndLine, Kind: ContentTypeTable, Table: t})
	}
	for i := 1; i < len(ranges); i++ {
		for j := i; j > 0 && ranges[j].Start < ranges[j-1].Start; j-- {
			ranges[j], ranges[j-1] = ranges[j-1], ranges[j]
		}
	}
	return ranges
}

// applyCodeAware implements the code-aware strategy (spec §4.3): atomic
// blocks are preserved whole, everything else is packed into size-bounded
// text chunks.
func applyCodeAware(li *lineIndex, analysis *ContentAnalysis, cfg ChunkConfig) []Chunk {
	ranges := collectAtomicRanges(analysis)

	var chunks []Chunk
	cursor := 1
	for _, ar := range ranges {
		if ar.Start > cursor {
			chunks = append(chunks, packCodeAwareText(li, cursor, ar.Start-1, cfg)...)
		}
		chunks = append(chunks, makeAtomicChunk(li, ar, cfg))
		cursor = ar.End + 1
	}
	if cursor <= li.NumLines() {
		chunks = append(chunks, packCodeAwareText(li, cursor, li.NumLines(), cfg)...)
	}
	return chunks
}

func packCodeAwareText(li *lineIndex, startLine, endLine int, cfg ChunkConfig) []Chunk {
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
		chunks = append(chunks, Chunk{
			Content:   span.Content,
			StartLine: span.StartLine,
			EndLine:   span.EndLine,
			Metadata: map[string]any{
				MetaContentType: string(ContentTypeText),
				MetaStrategy:    string(StrategyCodeAware),
				MetaHasCode:     false,
			},
		})
	}
	return chunks
}

func makeAtomicChunk(li *lineIndex, ar atomicRange, cfg ChunkConfig) Chunk {
	content := li.Slice(ar.Start, ar.End)
	meta := map[string]any{
		MetaContentType: string(ar.Kind),
		MetaStrategy:    string(StrategyCodeAware),
	}

	switch ar.Kind {
	case ContentTypeCode:
		meta[MetaHasCode] = true
		if ar.Fenced.Language != "" {
			meta[MetaLanguage] = ar.Fenced.Language
		}
		if len(content) > cfg.MaxChunkSize && cfg.PreserveAtomicBlocks {
			meta[MetaAllowOversize] = true
			meta[MetaOversizeReason] = string(OversizeCodeBlock)
		}
	case ContentTypeTable:
		meta[MetaHasCode] = false
		meta[MetaRowCount] = ar.Table.Rows
		meta[MetaColumnCount] = ar.Table.Columns
		if len(content) > cfg.MaxChunkSize && cfg.PreserveAtomicBlocks {
			meta[MetaAllowOversize] = true
			meta[MetaOversizeReason] = string(OversizeTable)
		}
	}

	return Chunk{
		Content:   content,
		StartLine: ar.Start,
		EndLine:   ar.End,
		Metadata:  meta,
	}
}
