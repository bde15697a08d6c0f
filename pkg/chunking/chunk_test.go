package chunking_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsn0918/mdchunk/pkg/chunking"
)

func TestChunk_EmptyInput(t *testing.T) {
	result, err := chunking.Chunk("   \n\t\n", chunking.DefaultChunkConfig())
	require.NoError(t, err)
	assert.Empty(t, result.Chunks)
	assert.Equal(t, chunking.StrategyFallback, result.StrategyUsed)
}

func TestChunk_InvalidConfig(t *testing.T) {
	cfg := chunking.DefaultChunkConfig()
	cfg.OverlapSize = cfg.MaxChunkSize + 1
	_, err := chunking.Chunk("# Title\n\nsome text", cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, chunking.ErrInvalidConfig)
}

func TestChunk_UnknownStrategyOverride(t *testing.T) {
	cfg := chunking.DefaultChunkConfig()
	cfg.StrategyOverride = "not_a_real_strategy"
	_, err := chunking.Chunk("# Title\n\nsome text", cfg)
	require.Error(t, err)
	var nf *chunking.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

// Scenario A: a single fenced code block dominates a short document, so the
// code-aware strategy must be selected even though headers are absent.
func TestChunk_ScenarioA_CodeAwareSelection(t *testing.T) {
	text := "Some intro text.\n\n```go\nfunc main() {}\n```\n\nSome trailing text.\n"
	result, err := chunking.Chunk(text, chunking.DefaultChunkConfig())
	require.NoError(t, err)
	assert.Equal(t, chunking.StrategyCodeAware, result.StrategyUsed)

	var sawCode bool
	for _, c := range result.Chunks {
		if ct, _ := c.Metadata[chunking.MetaContentType].(string); ct == string(chunking.ContentTypeCode) {
			sawCode = true
			assert.Contains(t, c.Content, "func main()")
		}
	}
	assert.True(t, sawCode, "expected a code chunk in the result")
}

// Scenario B: a document with enough ATX headers to cross structure_threshold
// is split along header boundaries with well-formed header_path metadata.
func TestChunk_ScenarioB_StructuralSelection(t *testing.T) {
	text := strings.Join([]string{
		"# Title",
		"",
		"Intro paragraph.",
		"",
		"## Section One",
		"",
		"Body of section one.",
		"",
		"## Section Two",
		"",
		"Body of section two.",
		"",
		"### Subsection Two A",
		"",
		"Deeper content.",
		"",
	}, "\n")

	cfg := chunking.DefaultChunkConfig()
	cfg.StructureThreshold = 2
	result, err := chunking.Chunk(text, cfg)
	require.NoError(t, err)
	assert.Equal(t, chunking.StrategyStructural, result.StrategyUsed)

	for _, c := range result.Chunks {
		hp, ok := c.Metadata[chunking.MetaHeaderPath].(string)
		if !ok {
			continue
		}
		assert.True(t, strings.HasPrefix(hp, "/"), "header_path must start with /: %q", hp)
	}
}

// Scenario D: an unclosed fence still yields a single atomic block running
// to EOF, never fabricating a boundary the document didn't express.
func TestChunk_ScenarioD_UnclosedFence(t *testing.T) {
	text := "# Doc\n\n```python\nprint('hello')\nno closing fence here\n"
	result, err := chunking.Chunk(text, chunking.DefaultChunkConfig())
	require.NoError(t, err)
	require.NotEmpty(t, result.Chunks)

	joined := ""
	for _, c := range result.Chunks {
		joined += c.Content
	}
	assert.Contains(t, joined, "no closing fence here")
}

func TestChunk_MonotonicLineOrdering(t *testing.T) {
	text := strings.Repeat("Paragraph text that repeats many times to force splitting across several chunks.\n\n", 50)
	result, err := chunking.Chunk(text, chunking.DefaultChunkConfig())
	require.NoError(t, err)
	require.NotEmpty(t, result.Chunks)

	for i := 1; i < len(result.Chunks); i++ {
		assert.LessOrEqual(t, result.Chunks[i-1].EndLine, result.Chunks[i].StartLine)
	}
}

func TestChunk_NeverExceedsHardEmptyChunks(t *testing.T) {
	text := "# A\n\nsome content\n\n## B\n\nmore content\n"
	result, err := chunking.Chunk(text, chunking.DefaultChunkConfig())
	require.NoError(t, err)
	for _, c := range result.Chunks {
		assert.NotEmpty(t, strings.TrimSpace(c.Content))
	}
}

func TestChunk_PreambleExtraction(t *testing.T) {
	text := "This is a preamble before any header.\n\n# First Header\n\nBody.\n"
	cfg := chunking.DefaultChunkConfig()
	cfg.StructureThreshold = 1
	result, err := chunking.Chunk(text, cfg)
	require.NoError(t, err)

	var sawPreamble bool
	for _, c := range result.Chunks {
		if hp, _ := c.Metadata[chunking.MetaHeaderPath].(string); hp == chunking.PreambleHeaderPath {
			sawPreamble = true
			assert.Contains(t, c.Content, "preamble before any header")
		}
	}
	assert.True(t, sawPreamble)
}

func TestChunk_SmallChunkTagging(t *testing.T) {
	cfg := chunking.DefaultChunkConfig()
	cfg.MinChunkSize = 5000
	cfg.MaxChunkSize = 6000
	text := "# A\n\nshort\n\n## B\n\nalso short\n"
	result, err := chunking.Chunk(text, cfg)
	require.NoError(t, err)

	for _, c := range result.Chunks {
		if small, _ := c.Metadata[chunking.MetaSmallChunk].(bool); small {
			assert.Equal(t, "cannot_merge", c.Metadata[chunking.MetaSmallChunkReason])
		}
	}
}

func TestChunk_OverlapMetadataWordBoundary(t *testing.T) {
	text := strings.Repeat("word ", 2000)
	cfg := chunking.DefaultChunkConfig()
	cfg.MaxChunkSize = 400
	cfg.MinChunkSize = 50
	cfg.OverlapSize = 40
	result, err := chunking.Chunk(text, cfg)
	require.NoError(t, err)
	require.Greater(t, len(result.Chunks), 1)

	for i := 1; i < len(result.Chunks); i++ {
		prev, ok := result.Chunks[i].Metadata[chunking.MetaPreviousContent].(string)
		if !ok {
			continue
		}
		assert.False(t, strings.HasPrefix(prev, " "), "overlap text should not start mid-word with a leading space artifact")
	}
}

func TestChunk_MetadataEnrichment(t *testing.T) {
	text := "# A\n\nVisit https://example.com for v2 of the docs.\n"
	result, err := chunking.Chunk(text, chunking.DefaultChunkConfig())
	require.NoError(t, err)
	require.NotEmpty(t, result.Chunks)

	for i, c := range result.Chunks {
		assert.Equal(t, i, c.Metadata[chunking.MetaChunkIndex])
		assert.Equal(t, c.Size(), c.Metadata[chunking.MetaSize])
	}
}
