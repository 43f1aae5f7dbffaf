package patches

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-regions/images"
)

// ImagingExtractor is a pure Go Extractor built on disintegration/imaging.
// It requires no native dependencies and is the default backend.
type ImagingExtractor struct {
	// Filter is the resampling kernel used when rescaling crops to the
	// output size. Defaults to Lanczos when zero-valued.
	Filter imaging.ResampleFilter
}

// NewImagingExtractor returns an ImagingExtractor with Lanczos resampling.
func NewImagingExtractor() *ImagingExtractor {
	return &ImagingExtractor{Filter: imaging.Lanczos}
}

// Extract implements Extractor. Boxes extending past the image bounds are
// clamped before cropping.
func (e *ImagingExtractor) Extract(
	imgs []image.Image,
	boxes []images.Box,
	sampleInds []int,
	size images.Size,
) ([]image.Image, error) {
	if err := validateRequest(imgs, boxes, sampleInds, size); err != nil {
		return nil, err
	}

	filter := e.Filter
	if filter.Support == 0 {
		filter = imaging.Lanczos
	}

	out := make([]image.Image, len(boxes))
	for i, b := range boxes {
		src := imgs[sampleInds[i]]
		rect, err := cropRect(b, src.Bounds())
		if err != nil {
			return nil, errors.Wrapf(err, "box %d", i)
		}
		crop := imaging.Crop(src, rect)
		out[i] = imaging.Resize(crop, size.Width, size.Height, filter)
	}
	return out, nil
}
