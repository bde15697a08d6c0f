package chunking

import "strings"

// applyFallback implements the fallback strategy (spec §4.5): pure
// size-bounded text splitting with no header or atomic-block awareness. It
// always succeeds, even on documents with no discernible structure at all.
func applyFallback(li *lineIndex, analysis *ContentAnalysis, cfg ChunkConfig) []Chunk {
	text := li.Slice(1, li.NumLines())
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var chunks []Chunk
	for _, span := range splitTextBounded(text, 1, cfg.MaxChunkSize) {
		if strings.TrimSpace(span.Content) == "" {
			continue
		}
		chunks = append(chunks, Chunk{
			Content:   span.Content,
			StartLine: span.StartLine,
			EndLine:   span.EndLine,
			Metadata: map[string]any{
				MetaContentType: string(ContentTypeText),
				MetaStrategy:    string(StrategyFallback),
				MetaHasCode:     false,
			},
		})
	}
	return chunks
}
