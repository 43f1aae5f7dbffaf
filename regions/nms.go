package regions

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-regions/images"
)

// Suppress selects a bounded subset of boxes by greedy non-maximum
// suppression.
//
// The highest scoring remaining box is kept and every remaining box whose IoU
// against it exceeds iouThreshold is discarded, until no boxes remain or
// maxBoxes have been kept. Score ties are broken by original index, so the
// selection is deterministic. This is the only stage that bounds candidate
// count; it must run after merging to keep the combinatorial merge step from
// growing the proposal set without limit.
//
// Arguments:
//   - boxes: Candidate boxes for one sample.
//   - scores: Scores index-aligned with boxes, used to prioritize selection.
//   - iouThreshold: Minimum IoU with a kept box for a candidate to be
//     suppressed.
//   - maxBoxes: Maximum number of boxes to keep. Must be positive.
//
// Returns:
//   - []images.Box: The kept boxes in selection (descending score) order.
//     Every returned box existed in the input.
//   - []float32: Scores index-aligned with the kept boxes.
//   - error: If boxes and scores disagree in length or maxBoxes is not
//     positive.
func Suppress(
	boxes []images.Box,
	scores []float32,
	iouThreshold float32,
	maxBoxes int,
) ([]images.Box, []float32, error) {
	if len(boxes) != len(scores) {
		return nil, nil, errors.Errorf("got %d boxes but %d scores", len(boxes), len(scores))
	}
	if maxBoxes <= 0 {
		return nil, nil, errors.Errorf("max boxes must be positive, got %d", maxBoxes)
	}

	order := make([]int, len(boxes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	kept := make([]images.Box, 0, min(maxBoxes, len(boxes)))
	keptScores := make([]float32, 0, cap(kept))
	used := make([]bool, len(boxes))

	for _, i := range order {
		if used[i] {
			continue
		}
		kept = append(kept, boxes[i])
		keptScores = append(keptScores, scores[i])
		used[i] = true
		if len(kept) == maxBoxes {
			break
		}

		// Suppress lower-priority candidates overlapping the kept box.
		for _, j := range order {
			if used[j] {
				continue
			}
			if images.IoU(boxes[i], boxes[j]) > iouThreshold {
				used[j] = true
			}
		}
	}

	return kept, keptScores, nil
}
