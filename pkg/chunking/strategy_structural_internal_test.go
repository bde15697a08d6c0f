package chunking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSectionBoundaries_NestedHeaderPaths(t *testing.T) {
	text := "# A\n\nbody\n\n## B\n\nbody\n\n# C\n\nbody\n"
	analysis := ParseContent(text, ParseOptions{})
	li := newLineIndex(analysis.NormalizedText)

	boundaries := buildSectionBoundaries(li, analysis)
	require.Len(t, boundaries, 3)
	assert.Equal(t, "/A", boundaries[0].HeaderPath)
	assert.Equal(t, "/A/B", boundaries[1].HeaderPath)
	assert.Equal(t, "/C", boundaries[2].HeaderPath, "a new level-1 header resets the stack")
}

func TestBuildSectionBoundaries_IgnoresDeepHeadersAsBoundaries(t *testing.T) {
	text := "# A\n\n### Deep\n\nbody\n"
	analysis := ParseContent(text, ParseOptions{})
	li := newLineIndex(analysis.NormalizedText)

	boundaries := buildSectionBoundaries(li, analysis)
	require.Len(t, boundaries, 1)
	assert.Equal(t, "/A", boundaries[0].HeaderPath)
}

func TestSubHeaderLines_FindsMinimumDeeperLevel(t *testing.T) {
	text := "# A\n\n### B\n\nbody\n\n### C\n\nbody\n\n#### D\n\ndeep body\n"
	analysis := ParseContent(text, ParseOptions{})
	boundaries := buildSectionBoundaries(newLineIndex(analysis.NormalizedText), analysis)
	require.Len(t, boundaries, 1)

	lines := subHeaderLines(analysis, boundaries[0])
	assert.Len(t, lines, 2, "only level-3 headers (the minimum deeper level), not the level-4 one")
}

func TestLocalSectionTags_ExcludesOwnHeaderAndDedupes(t *testing.T) {
	text := "# A\n\n### B\n\nbody\n\n### B\n\nmore body\n"
	analysis := ParseContent(text, ParseOptions{})
	boundaries := buildSectionBoundaries(newLineIndex(analysis.NormalizedText), analysis)
	require.Len(t, boundaries, 1)

	tags := localSectionTags(analysis, boundaries[0], boundaries[0].StartLine, boundaries[0].EndLine)
	assert.Equal(t, []string{"B"}, tags)
}

func TestApplyStructural_SectionFittingWholeIsOneChunk(t *testing.T) {
	text := "# Title\n\nsmall body\n"
	analysis := ParseContent(text, ParseOptions{})
	li := newLineIndex(analysis.NormalizedText)
	cfg := DefaultChunkConfig()

	chunks := applyStructural(li, analysis, cfg)
	require.Len(t, chunks, 1)
	assert.Equal(t, "/Title", chunks[0].Metadata[MetaHeaderPath])
}

func TestApplyStructural_AtomicBlockInsideSectionNeverSplit(t *testing.T) {
	cfg := DefaultChunkConfig()
	cfg.MaxChunkSize = 40
	text := "# Title\n\n```go\nfunc f() {\n\treturn 1\n}\n```\n"
	analysis := ParseContent(text, ParseOptions{})
	li := newLineIndex(analysis.NormalizedText)

	chunks := applyStructural(li, analysis, cfg)
	var sawCode bool
	for _, c := range chunks {
		if ct, _ := c.Metadata[MetaContentType].(string); ct == string(ContentTypeCode) {
			sawCode = true
			assert.Contains(t, c.Content, "func f()")
			assert.Contains(t, c.Content, "```")
		}
	}
	assert.True(t, sawCode)
}
