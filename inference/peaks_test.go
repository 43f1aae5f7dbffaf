package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"

	"github.com/nvr-ai/go-regions/images"
)

func confmapTensor(n, h, w, c int, set func(data []float32, at func(s, y, x, ch int) int)) *tensor.Dense {
	data := make([]float32, n*h*w*c)
	at := func(s, y, x, ch int) int { return ((s*h+y)*w+x)*c + ch }
	set(data, at)
	return tensor.New(
		tensor.WithShape(n, h, w, c),
		tensor.Of(tensor.Float32),
		tensor.WithBacking(data),
	)
}

// TestFindLocalPeaksBasic validates that isolated maxima above the threshold
// are reported with their subscripts and values.
func TestFindLocalPeaksBasic(t *testing.T) {
	cm := confmapTensor(1, 8, 8, 2, func(data []float32, at func(s, y, x, ch int) int) {
		data[at(0, 2, 3, 0)] = 0.9
		data[at(0, 6, 1, 1)] = 0.7
	})

	centroids, vals, err := FindLocalPeaks(cm, 0.3)
	require.NoError(t, err)
	require.Len(t, centroids, 2)

	assert.Equal(t, images.Centroid{Sample: 0, Row: 2, Col: 3, Channel: 0}, centroids[0])
	assert.Equal(t, images.Centroid{Sample: 0, Row: 6, Col: 1, Channel: 1}, centroids[1])
	assert.Equal(t, []float32{0.9, 0.7}, vals)
}

// TestFindLocalPeaksNeighborSuppression validates that a cell adjacent to a
// larger value is not a peak, and that equal-valued plateau cells suppress
// each other.
func TestFindLocalPeaksNeighborSuppression(t *testing.T) {
	cm := confmapTensor(1, 8, 8, 1, func(data []float32, at func(s, y, x, ch int) int) {
		data[at(0, 4, 4, 0)] = 0.9
		data[at(0, 4, 5, 0)] = 0.8 // shoulder of the peak
		data[at(0, 1, 1, 0)] = 0.6 // two-cell plateau
		data[at(0, 1, 2, 0)] = 0.6
	})

	centroids, vals, err := FindLocalPeaks(cm, 0.3)
	require.NoError(t, err)
	require.Len(t, centroids, 1)
	assert.Equal(t, images.Centroid{Sample: 0, Row: 4, Col: 4, Channel: 0}, centroids[0])
	assert.Equal(t, []float32{0.9}, vals)
}

func TestFindLocalPeaksThreshold(t *testing.T) {
	cm := confmapTensor(1, 4, 4, 1, func(data []float32, at func(s, y, x, ch int) int) {
		data[at(0, 2, 2, 0)] = 0.25
	})

	centroids, vals, err := FindLocalPeaks(cm, 0.3)
	require.NoError(t, err)
	assert.Empty(t, centroids)
	assert.Empty(t, vals)
}

// TestFindLocalPeaksCornerPeak validates that out-of-bounds neighbors are
// ignored so a corner cell can still be a peak.
func TestFindLocalPeaksCornerPeak(t *testing.T) {
	cm := confmapTensor(2, 4, 4, 1, func(data []float32, at func(s, y, x, ch int) int) {
		data[at(1, 0, 0, 0)] = 0.5
	})

	centroids, _, err := FindLocalPeaks(cm, 0.3)
	require.NoError(t, err)
	require.Len(t, centroids, 1)
	assert.Equal(t, images.Centroid{Sample: 1, Row: 0, Col: 0, Channel: 0}, centroids[0])
}

func TestFindLocalPeaksRejectsBadTensor(t *testing.T) {
	flat := tensor.New(tensor.WithShape(4, 4), tensor.Of(tensor.Float32))
	_, _, err := FindLocalPeaks(flat, 0.3)
	assert.Error(t, err)

	wrongType := tensor.New(tensor.WithShape(1, 4, 4, 1), tensor.Of(tensor.Float64))
	_, _, err = FindLocalPeaks(wrongType, 0.3)
	assert.Error(t, err)
}
