// Package regions - Region proposal generation for multi-instance pose
// estimation.
//
// Starting from per-image centroid detections, the package builds fixed size
// bounding boxes around each detection, generates merged candidates for
// closely interacting instances, suppresses redundant overlaps, and groups
// the surviving proposals for batched patch extraction.
package regions

import (
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-regions/images"
)

// MergeOverlapping generates new candidate region proposals by merging
// overlapping bounding boxes.
//
// Every unordered pair of boxes is examined; for each pair whose IoU exceeds
// iouThreshold, a new box of size mergedLength is centered at the midpoint of
// the pair's far corners ((a.Y1+b.Y2)/2, (a.X1+b.X2)/2) with a score equal to
// the sum of the pair's scores. The far-corner midpoint is a deliberate
// heuristic: with mergedLength at roughly twice the individual box length the
// candidate tends to enclose both originals. Callers choose mergedLength; the
// function does not enforce that relationship.
//
// Arguments:
//   - boxes: A starting set of possibly overlapping boxes for one sample.
//   - scores: Scores index-aligned with boxes.
//   - mergedLength: Width and height of merged candidate boxes.
//     A conservative value is twice the original box length.
//   - iouThreshold: Minimum IoU between a pair of boxes to generate a merged
//     candidate.
//
// Returns:
//   - []images.Box: The original boxes, in order, followed by all merged
//     candidates. Equal to the input when no pair qualifies.
//   - []float32: Scores index-aligned with the returned boxes.
//   - error: If boxes and scores disagree in length or mergedLength is not
//     positive.
func MergeOverlapping(
	boxes []images.Box,
	scores []float32,
	mergedLength int,
	iouThreshold float32,
) ([]images.Box, []float32, error) {
	if len(boxes) != len(scores) {
		return nil, nil, errors.Errorf("got %d boxes but %d scores", len(boxes), len(scores))
	}
	if mergedLength <= 0 {
		return nil, nil, errors.Errorf("merged box length must be positive, got %d", mergedLength)
	}

	// Check every pair for mergers. Quadratic in the sample's box count;
	// callers bound the cost by capping per-sample centroids.
	var midpoints []images.Point
	var mergedScores []float32
	for i := 0; i < len(boxes)-1; i++ {
		for j := i + 1; j < len(boxes); j++ {
			if images.IoU(boxes[i], boxes[j]) <= iouThreshold {
				continue
			}
			midpoints = append(midpoints, images.Point{
				Row: (boxes[i].Y1 + boxes[j].Y2) / 2,
				Col: (boxes[i].X1 + boxes[j].X2) / 2,
			})
			mergedScores = append(mergedScores, scores[i]+scores[j])
		}
	}

	out := make([]images.Box, 0, len(boxes)+len(midpoints))
	outScores := make([]float32, 0, len(scores)+len(mergedScores))
	out = append(out, boxes...)
	outScores = append(outScores, scores...)

	if len(midpoints) > 0 {
		// Midpoints are already real-valued image coordinates, so no
		// half-pixel center offset here.
		merged, err := images.CenteredBoxes(midpoints, mergedLength, false)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, merged...)
		outScores = append(outScores, mergedScores...)
	}

	return out, outScores, nil
}
