// Package images - Box geometry and image batch utilities for region proposals.
package images

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// Box is an axis-aligned bounding box in absolute image coordinates.
//
// Coordinates follow the pixel-inclusive convention: (Y1, X1) is the top-left
// corner and (Y2, X2) the bottom-right corner, with both corner rows/columns
// counted as part of the box. A valid box always has Y2 >= Y1 and X2 >= X1.
type Box struct {
	Y1, X1, Y2, X2 float32
}

// Height returns the vertical extent of the box (Y2 - Y1).
func (b Box) Height() float32 { return b.Y2 - b.Y1 }

// Width returns the horizontal extent of the box (X2 - X1).
func (b Box) Width() float32 { return b.X2 - b.X1 }

// Size returns the (height, width) size key of the box, rounded to the
// nearest integer. Boxes sharing a size key can be extracted in a single
// batched call to a patch extractor.
func (b Box) Size() Size {
	return Size{
		Height: int(math32.Round(b.Y2 - b.Y1)),
		Width:  int(math32.Round(b.X2 - b.X1)),
	}
}

// Size is a (height, width) pair in pixels. It is used both as the uniform
// output size of extracted patches and as the grouping key for batching.
type Size struct {
	Height int
	Width  int
}

// Point is a (row, col) location in image coordinates.
type Point struct {
	Row, Col float32
}

// Centroid is a detected candidate instance location.
//
// Sample identifies the image within a batch, Row/Col are sub-pixel
// coordinates in the image's native resolution, and Channel identifies the
// logical part type the point was detected for. Channel is carried through
// the pipeline but plays no role in geometry.
type Centroid struct {
	Sample   int
	Row, Col float32
	Channel  int
}

// Point returns the (row, col) location of the centroid.
func (c Centroid) Point() Point {
	return Point{Row: c.Row, Col: c.Col}
}

// CenteredBoxes generates fixed size bounding boxes centered on a set of
// points, one box per point, to be used as region proposals.
//
// The top/left offset from the center is the floored negative half length and
// the bottom/right offset the truncated positive half, so Height() and
// Width() of every generated box equal exactly float32(length); for odd
// lengths the box extends one extra unit above/left of the center.
//
// Arguments:
//   - points: The (row, col) centers to build boxes around.
//   - length: Width and height of each box, in pixels. Must be positive.
//   - centerOffset: If true, add 0.5 to each coordinate first. Set this when
//     the points are integer grid subscripts, so boxes are centered on pixel
//     centers rather than top-left pixel corners. Leave false for points that
//     are already real-valued image coordinates (e.g. pair midpoints).
//
// Returns:
//   - []Box: One box per input point, in input order.
//   - error: If length is not positive.
func CenteredBoxes(points []Point, length int, centerOffset bool) ([]Box, error) {
	if length <= 0 {
		return nil, errors.Errorf("box length must be positive, got %d", length)
	}

	// Floored division of the negative half keeps the total extent at
	// exactly `length` for both parities.
	top := -float32((length + 1) / 2)
	bottom := float32(length / 2)

	shift := float32(0)
	if centerOffset {
		shift = 0.5
	}

	boxes := make([]Box, len(points))
	for i, p := range points {
		y := p.Row + shift
		x := p.Col + shift
		boxes[i] = Box{
			Y1: y + top,
			X1: x + top,
			Y2: y + bottom,
			X2: x + bottom,
		}
	}
	return boxes, nil
}

// CentroidBoxes builds one centered box per centroid, applying the half-pixel
// center offset appropriate for integer peak subscripts.
func CentroidBoxes(centroids []Centroid, length int) ([]Box, error) {
	points := make([]Point, len(centroids))
	for i, c := range centroids {
		points[i] = c.Point()
	}
	return CenteredBoxes(points, length, true)
}

// IoU computes the intersection over union of two bounding boxes under the
// pixel-inclusive convention: a box's area counts both of its corner
// rows/columns, so the area of a degenerate single-point box is 1 and two
// boxes that merely share an edge still intersect.
//
// Returns 0 when the boxes share no pixels. Valid boxes have area >= 1, so
// the union is never zero.
func IoU(a, b Box) float32 {
	iy1 := math32.Max(a.Y1, b.Y1)
	ix1 := math32.Max(a.X1, b.X1)
	iy2 := math32.Min(a.Y2, b.Y2)
	ix2 := math32.Min(a.X2, b.X2)

	interArea := math32.Max(ix2-ix1+1, 0) * math32.Max(iy2-iy1+1, 0)
	if interArea == 0 {
		return 0
	}

	areaA := (a.X2 - a.X1 + 1) * (a.Y2 - a.Y1 + 1)
	areaB := (b.X2 - b.X1 + 1) * (b.Y2 - b.Y1 + 1)

	return interArea / (areaA + areaB - interArea)
}

// Normalize rescales boxes from absolute pixel coordinates into the [0, 1]
// range expected by patch extraction backends. Row coordinates are divided by
// (imgHeight - 1) and column coordinates by (imgWidth - 1), consistent with
// the pixel-inclusive convention where coordinate H-1 is the last row.
//
// Arguments:
//   - boxes: Boxes in absolute image coordinates.
//   - imgHeight: Image height in pixels. Must be > 1.
//   - imgWidth: Image width in pixels. Must be > 1.
//
// Returns:
//   - []Box: New normalized boxes; the input is not mutated.
//   - error: If either image dimension is <= 1.
func Normalize(boxes []Box, imgHeight, imgWidth int) ([]Box, error) {
	if imgHeight <= 1 || imgWidth <= 1 {
		return nil, errors.Errorf("image dimensions must be > 1 to normalize, got %dx%d", imgHeight, imgWidth)
	}

	h := float32(imgHeight - 1)
	w := float32(imgWidth - 1)

	out := make([]Box, len(boxes))
	for i, b := range boxes {
		out[i] = Box{
			Y1: b.Y1 / h,
			X1: b.X1 / w,
			Y2: b.Y2 / h,
			X2: b.X2 / w,
		}
	}
	return out, nil
}

// Denormalize is the inverse of Normalize, mapping [0, 1] box coordinates
// back to absolute pixel coordinates for the given image dimensions.
func Denormalize(boxes []Box, imgHeight, imgWidth int) ([]Box, error) {
	if imgHeight <= 1 || imgWidth <= 1 {
		return nil, errors.Errorf("image dimensions must be > 1 to denormalize, got %dx%d", imgHeight, imgWidth)
	}

	h := float32(imgHeight - 1)
	w := float32(imgWidth - 1)

	out := make([]Box, len(boxes))
	for i, b := range boxes {
		out[i] = Box{
			Y1: b.Y1 * h,
			X1: b.X1 * w,
			Y2: b.Y2 * h,
			X2: b.X2 * w,
		}
	}
	return out, nil
}
