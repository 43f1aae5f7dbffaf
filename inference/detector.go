// Package inference - Centroid detection capabilities consumed by the region
// proposal pipeline.
//
// The pipeline only depends on the narrow Detector interface; the concrete
// ONNX Runtime implementation lives alongside it so the geometry and merging
// logic carries no runtime dependency of its own.
package inference

import (
	"image"

	"gorgonia.org/tensor"
)

// Detector produces per-pixel confidence maps of candidate instance centroids
// for a batch of images.
type Detector interface {
	// Infer runs the model on a batch of same-sized images and returns a
	// float32 confidence map tensor of shape
	// (samples, height, width, channels).
	Infer(batch []image.Image) (*tensor.Dense, error)

	// InputScale is the factor the network expects its input to be resized
	// by, relative to native image resolution.
	InputScale() float32

	// OutputScale is the resolution of the confidence maps relative to the
	// network input. Peak coordinates must be divided by this factor to map
	// them back to network input resolution.
	OutputScale() float32

	// InputDivisor is the required divisor of the network input dimensions
	// (the total downsampling stride of the architecture).
	InputDivisor() int
}
