package preview_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsn0918/mdchunk/internal/preview"
	"github.com/hsn0918/mdchunk/pkg/chunking"
)

func TestRender_ProducesHTMLPerChunk(t *testing.T) {
	result, err := chunking.Chunk("# Title\n\n- one\n- two\n", chunking.DefaultChunkConfig())
	require.NoError(t, err)

	html := preview.Render(result)
	require.Len(t, html, len(result.Chunks))
	for _, h := range html {
		assert.NotEmpty(t, h.HTML)
	}
}

func TestRender_EmptyResultYieldsEmptySlice(t *testing.T) {
	result := &chunking.ChunkingResult{}
	html := preview.Render(result)
	assert.Empty(t, html)
}
