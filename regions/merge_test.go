package regions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-regions/images"
)

// TestMergeOverlappingGeneratesCandidate validates the far-corner midpoint
// formula and summed scores for a qualifying pair.
func TestMergeOverlappingGeneratesCandidate(t *testing.T) {
	boxes := []images.Box{
		{Y1: 0, X1: 0, Y2: 10, X2: 10},
		{Y1: 5, X1: 5, Y2: 15, X2: 15},
	}
	scores := []float32{1.0, 2.0}

	out, outScores, err := MergeOverlapping(boxes, scores, 20, 0.1)
	require.NoError(t, err)
	require.Len(t, out, 3)
	require.Len(t, outScores, 3)

	// Originals are an unchanged prefix.
	assert.Equal(t, boxes, out[:2])
	assert.Equal(t, scores, outScores[:2])

	// Midpoint of far corners: ((0+15)/2, (0+15)/2) = (7.5, 7.5), box of
	// length 20 centered there without a half-pixel offset.
	merged := out[2]
	assert.InDelta(t, -2.5, merged.Y1, 1e-5)
	assert.InDelta(t, -2.5, merged.X1, 1e-5)
	assert.InDelta(t, 17.5, merged.Y2, 1e-5)
	assert.InDelta(t, 17.5, merged.X2, 1e-5)
	assert.InDelta(t, 3.0, outScores[2], 1e-5)
}

// TestMergeOverlappingNoPairs validates that disjoint boxes pass through
// unchanged, as do empty and single-box inputs.
func TestMergeOverlappingNoPairs(t *testing.T) {
	boxes := []images.Box{
		{Y1: 0, X1: 0, Y2: 10, X2: 10},
		{Y1: 100, X1: 100, Y2: 110, X2: 110},
	}
	scores := []float32{0.5, 0.8}

	out, outScores, err := MergeOverlapping(boxes, scores, 20, 0.1)
	require.NoError(t, err)
	assert.Equal(t, boxes, out)
	assert.Equal(t, scores, outScores)
}

func TestMergeOverlappingThresholdAtOne(t *testing.T) {
	// IoU never exceeds 1, so a threshold >= 1 produces no candidates even
	// for identical boxes.
	boxes := []images.Box{
		{Y1: 0, X1: 0, Y2: 10, X2: 10},
		{Y1: 0, X1: 0, Y2: 10, X2: 10},
	}
	scores := []float32{1, 1}

	out, outScores, err := MergeOverlapping(boxes, scores, 20, 1.0)
	require.NoError(t, err)
	assert.Equal(t, boxes, out)
	assert.Equal(t, scores, outScores)
}

func TestMergeOverlappingDegenerateInputs(t *testing.T) {
	out, outScores, err := MergeOverlapping(nil, nil, 20, 0.1)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, outScores)

	single := []images.Box{{Y1: 0, X1: 0, Y2: 10, X2: 10}}
	out, outScores, err = MergeOverlapping(single, []float32{1}, 20, 0.1)
	require.NoError(t, err)
	assert.Equal(t, single, out)
	assert.Equal(t, []float32{1}, outScores)
}

// TestMergeOverlappingAllPairs validates the combinatorial candidate count
// for a cluster where every pair overlaps.
func TestMergeOverlappingAllPairs(t *testing.T) {
	boxes := []images.Box{
		{Y1: 0, X1: 0, Y2: 10, X2: 10},
		{Y1: 1, X1: 1, Y2: 11, X2: 11},
		{Y1: 2, X1: 2, Y2: 12, X2: 12},
	}
	scores := []float32{1, 2, 3}

	out, outScores, err := MergeOverlapping(boxes, scores, 24, 0.1)
	require.NoError(t, err)
	// 3 originals + C(3,2) merged candidates.
	assert.Len(t, out, 6)
	assert.Equal(t, []float32{1, 2, 3, 3, 4, 5}, outScores)
}

func TestMergeOverlappingRejectsBadInput(t *testing.T) {
	boxes := []images.Box{{Y1: 0, X1: 0, Y2: 10, X2: 10}}

	_, _, err := MergeOverlapping(boxes, []float32{1, 2}, 20, 0.1)
	assert.Error(t, err)

	_, _, err = MergeOverlapping(boxes, []float32{1}, 0, 0.1)
	assert.Error(t, err)
}
