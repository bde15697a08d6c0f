package chunking

import (
	"strings"
	"time"
)

// Chunk splits text into semantically coherent, size-bounded chunks per the
// configured (or defaulted) ChunkConfig. Empty or whitespace-only input
// yields an empty, error-free result. A non-nil error is returned for an
// invalid config, an unknown strategy override, or a hard invariant
// violation (including content loss) found by the validator; soft findings
// are reported as warnings on the result.
func Chunk(text string, cfg ChunkConfig) (*ChunkingResult, error) {
	start := time.Now()

	cfg, err := NewChunkConfig(cfg)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		return &ChunkingResult{
			StrategyUsed:   StrategyFallback,
			ProcessingTime: time.Since(start).Seconds(),
		}, nil
	}

	analysis := ParseContent(text, ParseOptions{StripObsidianBlockIDs: false})
	li := newLineIndex(analysis.NormalizedText)

	strategy, err := selectStrategy(analysis, cfg)
	if err != nil {
		return nil, err
	}

	chunks := runStrategy(strategy, li, analysis, cfg)

	// A strategy that aborts (structural with no eligible headers after
	// all, or code-aware with no atomic ranges left once stripped) always
	// falls back rather than returning an empty result for non-empty input.
	if len(chunks) == 0 && strategy != StrategyFallback {
		strategy = StrategyFallback
		chunks = applyFallback(li, analysis, cfg)
	}

	chunks = postProcess(chunks, cfg)

	result := &ChunkingResult{
		Chunks:       chunks,
		StrategyUsed: strategy,
		TotalChars:   analysis.TotalChars,
		TotalLines:   analysis.TotalLines,
	}

	v := validateChunks(chunks, analysis.NormalizedText, cfg)
	if v.Err != nil {
		return nil, v.Err
	}
	result.Warnings = v.Warnings
	result.ProcessingTime = time.Since(start).Seconds()

	return result, nil
}

func runStrategy(strategy Strategy, li *lineIndex, analysis *ContentAnalysis, cfg ChunkConfig) []Chunk {
	switch strategy {
	case StrategyCodeAware:
		return applyCodeAware(li, analysis, cfg)
	case StrategyStructural:
		return applyStructural(li, analysis, cfg)
	default:
		return applyFallback(li, analysis, cfg)
	}
}
