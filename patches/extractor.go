// Package patches - Batched extraction of fixed size image patches from
// region proposal boxes.
package patches

import (
	"image"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-regions/images"
)

// Extractor resamples one fixed size patch per box from a batch of images.
//
// Boxes are given in [0, 1] normalized coordinates (see images.Normalize) and
// every patch in one call has exactly the requested output size. Implementors
// may batch, vectorize or accelerate internally; callers treat the call as a
// pure, blocking computation.
type Extractor interface {
	// Extract returns one patch per box, index-aligned with boxes and
	// sampleInds. sampleInds[i] selects the image in imgs that boxes[i] is
	// cropped from.
	Extract(imgs []image.Image, boxes []images.Box, sampleInds []int, size images.Size) ([]image.Image, error)
}

// cropRect converts a normalized pixel-inclusive box into an integer crop
// rectangle (exclusive max, like image.Rectangle) clamped to the image
// bounds.
func cropRect(b images.Box, bounds image.Rectangle) (image.Rectangle, error) {
	abs, err := images.Denormalize([]images.Box{b}, bounds.Dy(), bounds.Dx())
	if err != nil {
		return image.Rectangle{}, err
	}
	r := image.Rect(
		int(math32.Round(abs[0].X1)),
		int(math32.Round(abs[0].Y1)),
		int(math32.Round(abs[0].X2))+1,
		int(math32.Round(abs[0].Y2))+1,
	).Add(bounds.Min)
	return r.Intersect(bounds), nil
}

// validateRequest checks the shared preconditions of the extraction backends.
func validateRequest(imgs []image.Image, boxes []images.Box, sampleInds []int, size images.Size) error {
	if len(boxes) != len(sampleInds) {
		return errors.Errorf("got %d boxes but %d sample indices", len(boxes), len(sampleInds))
	}
	if size.Height <= 0 || size.Width <= 0 {
		return errors.Errorf("output size must be positive, got %dx%d", size.Height, size.Width)
	}
	for i, s := range sampleInds {
		if s < 0 || s >= len(imgs) {
			return errors.Errorf("sample index %d of box %d is out of range for %d images", s, i, len(imgs))
		}
	}
	return nil
}
