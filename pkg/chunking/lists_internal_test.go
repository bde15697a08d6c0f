package chunking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanLists_DetectsOrderedAndTasks(t *testing.T) {
	text := "1. first\n2. second\n   - [x] done subtask\n   - [ ] todo subtask\n"
	li := newLineIndex(text)
	lists := scanLists(li, nil)
	require.Len(t, lists, 1)
	assert.True(t, lists[0].Ordered)
	assert.True(t, lists[0].HasTasks)
	assert.GreaterOrEqual(t, lists[0].MaxDepth, 2)
}

func TestScanLists_SingleBlankLineGapStaysOneRun(t *testing.T) {
	text := "- a\n\n- b\n"
	li := newLineIndex(text)
	lists := scanLists(li, nil)
	require.Len(t, lists, 1)
	assert.Equal(t, 3, lists[0].EndLine)
}

func TestScanLists_DoubleBlankLineEndsRun(t *testing.T) {
	text := "- a\n\n\n- b\n"
	li := newLineIndex(text)
	lists := scanLists(li, nil)
	require.Len(t, lists, 2)
}

func TestComplexityScore_MonotonicInCodeRatio(t *testing.T) {
	low := complexityScore(0.1, 2, 0, 0, 100)
	high := complexityScore(0.9, 2, 0, 0, 100)
	assert.Less(t, low, high)
}

func TestComplexityScore_ClampedToUnitRange(t *testing.T) {
	score := complexityScore(5.0, 20, 1000, 1000, 10)
	assert.LessOrEqual(t, score, 1.0)
	assert.GreaterOrEqual(t, score, 0.0)
}
