package patches

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-regions/images"
)

// MatExtractor is an Extractor backed by OpenCV (gocv). It converts each
// source image to a Mat once per call and slices crop regions out of it,
// which is considerably faster than the pure Go backend for large batches.
type MatExtractor struct{}

// NewMatExtractor returns a gocv-backed extractor.
func NewMatExtractor() *MatExtractor {
	return &MatExtractor{}
}

// Extract implements Extractor. Boxes extending past the image bounds are
// clamped before cropping.
func (e *MatExtractor) Extract(
	imgs []image.Image,
	boxes []images.Box,
	sampleInds []int,
	size images.Size,
) ([]image.Image, error) {
	if err := validateRequest(imgs, boxes, sampleInds, size); err != nil {
		return nil, err
	}

	// Convert each source image at most once.
	mats := make([]gocv.Mat, len(imgs))
	converted := make([]bool, len(imgs))
	defer func() {
		for i := range mats {
			if converted[i] {
				mats[i].Close()
			}
		}
	}()

	out := make([]image.Image, len(boxes))
	for i, b := range boxes {
		s := sampleInds[i]
		if !converted[s] {
			mat, err := gocv.ImageToMatRGB(imgs[s])
			if err != nil {
				return nil, errors.Wrapf(err, "converting image %d", s)
			}
			mats[s] = mat
			converted[s] = true
		}

		rect, err := cropRect(b, imgs[s].Bounds())
		if err != nil {
			return nil, errors.Wrapf(err, "box %d", i)
		}
		rect = rect.Sub(imgs[s].Bounds().Min)

		region := mats[s].Region(rect)
		resized := gocv.NewMat()
		gocv.Resize(region, &resized, image.Pt(size.Width, size.Height), 0, 0, gocv.InterpolationLinear)
		region.Close()

		patch, err := resized.ToImage()
		resized.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "resampling box %d", i)
		}
		out[i] = patch
	}
	return out, nil
}
