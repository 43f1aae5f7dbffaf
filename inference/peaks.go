package inference

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/nvr-ai/go-regions/images"
)

// DefaultPeakThreshold is the minimum confidence for a local maximum to count
// as a detected centroid.
const DefaultPeakThreshold float32 = 0.3

// FindLocalPeaks scans NHWC confidence maps for local maxima.
//
// A grid cell is a peak when its value exceeds threshold and is strictly
// greater than all of its in-bounds 8-connected neighbors within the same
// sample and channel. Peaks are emitted in row-major scan order per sample,
// which keeps the output deterministic.
//
// Arguments:
//   - confmaps: Float32 tensor of shape (samples, height, width, channels).
//   - threshold: Minimum confidence for a peak.
//
// Returns:
//   - []images.Centroid: Peak subscripts as (sample, row, col, channel).
//   - []float32: Confidence values index-aligned with the centroids.
//   - error: If the tensor is not a float32 NHWC tensor.
func FindLocalPeaks(confmaps *tensor.Dense, threshold float32) ([]images.Centroid, []float32, error) {
	shape := confmaps.Shape()
	if len(shape) != 4 {
		return nil, nil, errors.Errorf("confidence maps must be rank 4 (NHWC), got shape %v", shape)
	}
	data, ok := confmaps.Data().([]float32)
	if !ok {
		return nil, nil, errors.Errorf("confidence maps must be float32, got %v", confmaps.Dtype())
	}

	n, h, w, c := shape[0], shape[1], shape[2], shape[3]
	at := func(s, y, x, ch int) float32 {
		return data[((s*h+y)*w+x)*c+ch]
	}

	var centroids []images.Centroid
	var vals []float32
	for s := 0; s < n; s++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				for ch := 0; ch < c; ch++ {
					v := at(s, y, x, ch)
					if v <= threshold {
						continue
					}
					if !isLocalMax(at, v, s, y, x, ch, h, w) {
						continue
					}
					centroids = append(centroids, images.Centroid{
						Sample:  s,
						Row:     float32(y),
						Col:     float32(x),
						Channel: ch,
					})
					vals = append(vals, v)
				}
			}
		}
	}
	return centroids, vals, nil
}

func isLocalMax(at func(s, y, x, ch int) float32, v float32, s, y, x, ch, h, w int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dy == 0 && dx == 0 {
				continue
			}
			ny, nx := y+dy, x+dx
			if ny < 0 || ny >= h || nx < 0 || nx >= w {
				continue
			}
			if at(s, ny, nx, ch) >= v {
				return false
			}
		}
	}
	return true
}
