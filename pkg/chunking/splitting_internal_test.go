package chunking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineIndex_SliceRoundTrips(t *testing.T) {
	text := "line one\nline two\nline three\n"
	li := newLineIndex(text)
	require.Equal(t, 3, li.NumLines())
	assert.Equal(t, text, li.Slice(1, 3))
	assert.Equal(t, "line two\n", li.Slice(2, 2))
}

func TestLineIndex_NoTrailingNewline(t *testing.T) {
	li := newLineIndex("only line")
	assert.Equal(t, 1, li.NumLines())
	assert.Equal(t, "only line", li.Slice(1, 1))
}

func TestSplitTextBounded_FitsWhole(t *testing.T) {
	spans := splitTextBounded("short text", 1, 4096)
	require.Len(t, spans, 1)
	assert.Equal(t, "short text", spans[0].Content)
}

func TestSplitTextBounded_ParagraphBoundary(t *testing.T) {
	text := strings.Repeat("word ", 20) + "\n\n" + strings.Repeat("more ", 20)
	spans := splitTextBounded(text, 1, len(text)/2)
	require.GreaterOrEqual(t, len(spans), 2)

	var rebuilt strings.Builder
	for _, s := range spans {
		rebuilt.WriteString(s.Content)
	}
	assert.Equal(t, text, rebuilt.String())
}

func TestSplitTextBounded_HardCutRespectsUTF8(t *testing.T) {
	text := strings.Repeat("日本語テキスト", 50)
	spans := splitTextBounded(text, 1, 10)
	for _, s := range spans {
		assert.True(t, isValidUTF8Prefix(s.Content))
	}
	var rebuilt strings.Builder
	for _, s := range spans {
		rebuilt.WriteString(s.Content)
	}
	assert.Equal(t, text, rebuilt.String())
}

func isValidUTF8Prefix(s string) bool {
	for i := 0; i < len(s); {
		b := s[i]
		switch {
		case b&0x80 == 0:
			i++
		case b&0xE0 == 0xC0:
			i += 2
		case b&0xF0 == 0xE0:
			i += 3
		case b&0xF8 == 0xF0:
			i += 4
		default:
			return false
		}
	}
	return true
}

func TestSplitTextBounded_NoSeparatorEscalatesToHardCut(t *testing.T) {
	text := strings.Repeat("a", 100)
	spans := splitTextBounded(text, 1, 10)
	require.Len(t, spans, 10)
	for _, s := range spans {
		assert.Len(t, s.Content, 10)
	}
}
