package images

import (
	"image"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// BatchToTensor converts a batch of same-sized images into a float32 NHWC
// tensor with pixel values scaled to [0, 1], the layout consumed by centroid
// detection models.
//
// Arguments:
//   - imgs: The batch to convert. All images must share the same dimensions.
//
// Returns:
//   - *tensor.Dense: Tensor of shape (samples, height, width, 3).
//   - error: If the batch is empty or dimensions are mixed.
func BatchToTensor(imgs []image.Image) (*tensor.Dense, error) {
	if len(imgs) == 0 {
		return nil, errors.New("cannot convert an empty image batch")
	}

	bounds := imgs[0].Bounds()
	h := bounds.Dy()
	w := bounds.Dx()

	data := make([]float32, len(imgs)*h*w*3)
	idx := 0
	for i, img := range imgs {
		ib := img.Bounds()
		if ib.Dx() != w || ib.Dy() != h {
			return nil, errors.Errorf(
				"batch images must share dimensions: image %d is %dx%d, expected %dx%d",
				i, ib.Dx(), ib.Dy(), w, h)
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, b, _ := img.At(ib.Min.X+x, ib.Min.Y+y).RGBA()
				data[idx] = float32(r>>8) / 255.0
				data[idx+1] = float32(g>>8) / 255.0
				data[idx+2] = float32(b>>8) / 255.0
				idx += 3
			}
		}
	}

	return tensor.New(
		tensor.WithShape(len(imgs), h, w, 3),
		tensor.Of(tensor.Float32),
		tensor.WithBacking(data),
	), nil
}
