package chunking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckMonotonicOrder_DetectsRegression(t *testing.T) {
	chunks := []Chunk{
		{Content: "a", StartLine: 5, EndLine: 5},
		{Content: "b", StartLine: 2, EndLine: 2},
	}
	err := checkMonotonicOrder(chunks)
	require.NotNil(t, err)
	assert.Equal(t, HardInvariantViolation, err.Kind)
}

func TestCheckNoEmptyChunks_DetectsBlank(t *testing.T) {
	chunks := []Chunk{{Content: "   \n", StartLine: 1, EndLine: 1}}
	err := checkNoEmptyChunks(chunks)
	require.NotNil(t, err)
}

func TestCheckHeaderPaths_RejectsMalformed(t *testing.T) {
	chunks := []Chunk{{Content: "x", Metadata: map[string]any{MetaHeaderPath: "no-leading-slash"}}}
	err := checkHeaderPaths(chunks)
	require.NotNil(t, err)

	chunks = []Chunk{{Content: "x", Metadata: map[string]any{MetaHeaderPath: "/A//B"}}}
	err = checkHeaderPaths(chunks)
	require.NotNil(t, err)
}

func TestCheckHeaderPaths_AllowsPreambleSentinel(t *testing.T) {
	chunks := []Chunk{{Content: "x", Metadata: map[string]any{MetaHeaderPath: PreambleHeaderPath}}}
	assert.Nil(t, checkHeaderPaths(chunks))
}

func TestCheckMetadataConsistency_DetectsSizeMismatch(t *testing.T) {
	chunks := []Chunk{{Content: "hello", Metadata: map[string]any{MetaSize: 999}}}
	err := checkMetadataConsistency(chunks)
	require.NotNil(t, err)
}

func TestCheckContentLossGaps_DetectsTenLineGap(t *testing.T) {
	lines := make([]string, 0, 14)
	for i := 0; i < 14; i++ {
		lines = append(lines, "content line")
	}
	normalized := joinLines(lines)
	// Chunks cover only lines 1-2 and 13-14, leaving a 10-line contiguous gap.
	chunks := []Chunk{
		{Content: "content line\ncontent line", StartLine: 1, EndLine: 2},
		{Content: "content line\ncontent line", StartLine: 13, EndLine: 14},
	}
	err := checkContentLossGaps(chunks, normalized)
	require.NotNil(t, err)
	assert.Equal(t, ContentLoss, err.Kind)
}

func TestCheckContentLossGaps_AllowsShortGap(t *testing.T) {
	lines := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		lines = append(lines, "content line")
	}
	normalized := joinLines(lines)
	chunks := []Chunk{
		{Content: "content line", StartLine: 1, EndLine: 1},
		{Content: "content line", StartLine: 5, EndLine: 5},
	}
	assert.Nil(t, checkContentLossGaps(chunks, normalized))
}

func TestCheckContentLossGaps_IgnoresBlankLineGaps(t *testing.T) {
	lines := []string{"content line", "content line"}
	for i := 0; i < 12; i++ {
		lines = append(lines, "")
	}
	lines = append(lines, "content line")
	normalized := joinLines(lines)
	chunks := []Chunk{
		{Content: "content line\ncontent line", StartLine: 1, EndLine: 2},
		{Content: "content line", StartLine: 15, EndLine: 15},
	}
	assert.Nil(t, checkContentLossGaps(chunks, normalized), "a gap of only blank lines is not content loss")
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}

func TestCheckContentPreservation_WarnsBelowThreshold(t *testing.T) {
	normalized := "abcdefghijklmnopqrstuvwxyz0123456789"
	chunks := []Chunk{{Content: "abc"}}
	warning := checkContentPreservation(chunks, normalized)
	assert.NotEmpty(t, warning)
}

func TestCheckContentPreservation_NoWarningWhenCovered(t *testing.T) {
	normalized := "hello world"
	chunks := []Chunk{{Content: "hello world"}}
	assert.Empty(t, checkContentPreservation(chunks, normalized))
}

func TestCheckSizeBounds_PromotesOversized(t *testing.T) {
	cfg := DefaultChunkConfig()
	big := make([]byte, cfg.MaxChunkSize+10)
	for i := range big {
		big[i] = 'x'
	}
	chunks := []Chunk{{Content: string(big), Metadata: map[string]any{}}}
	warnings := checkSizeBounds(chunks, cfg)
	require.Len(t, warnings, 1)
	assert.Equal(t, true, chunks[0].Metadata[MetaAllowOversize])
	assert.Equal(t, string(OversizeSection), chunks[0].Metadata[MetaOversizeReason])
}

func TestCheckSizeBounds_SkipsAlreadyJustified(t *testing.T) {
	cfg := DefaultChunkConfig()
	big := make([]byte, cfg.MaxChunkSize+10)
	chunks := []Chunk{{Content: string(big), Metadata: map[string]any{MetaOversizeReason: string(OversizeCodeBlock)}}}
	warnings := checkSizeBounds(chunks, cfg)
	assert.Empty(t, warnings)
}
