package images

import (
	"image"

	"github.com/chewxy/math32"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// ResizeToScale resizes every image in a batch by the given scale factor,
// rounding the target dimensions up to a common divisor.
//
// Detection networks typically require input dimensions divisible by the
// total downsampling stride of their architecture; rounding up (rather than
// down) never discards image content.
//
// Arguments:
//   - imgs: The batch to resize. All images must share the same dimensions.
//   - scale: Scale factor applied to both dimensions. Must be positive.
//   - divisor: Required divisor of the output dimensions. Values < 1 are
//     treated as 1 (no divisibility constraint).
//
// Returns:
//   - []image.Image: The resized batch, in input order.
//   - error: If scale is not positive or the batch dimensions are mixed.
func ResizeToScale(imgs []image.Image, scale float32, divisor int) ([]image.Image, error) {
	if scale <= 0 {
		return nil, errors.Errorf("scale must be positive, got %f", scale)
	}
	if divisor < 1 {
		divisor = 1
	}
	if len(imgs) == 0 {
		return nil, nil
	}

	bounds := imgs[0].Bounds()
	targetW := roundUpTo(int(math32.Ceil(float32(bounds.Dx())*scale)), divisor)
	targetH := roundUpTo(int(math32.Ceil(float32(bounds.Dy())*scale)), divisor)

	out := make([]image.Image, len(imgs))
	for i, img := range imgs {
		if img.Bounds().Dx() != bounds.Dx() || img.Bounds().Dy() != bounds.Dy() {
			return nil, errors.Errorf(
				"batch images must share dimensions: image %d is %dx%d, expected %dx%d",
				i, img.Bounds().Dx(), img.Bounds().Dy(), bounds.Dx(), bounds.Dy())
		}
		if targetW == bounds.Dx() && targetH == bounds.Dy() {
			out[i] = img
			continue
		}
		out[i] = resize.Resize(uint(targetW), uint(targetH), img, resize.Bilinear)
	}
	return out, nil
}

// roundUpTo rounds n up to the nearest multiple of divisor.
func roundUpTo(n, divisor int) int {
	if rem := n % divisor; rem != 0 {
		n += divisor - rem
	}
	return n
}
