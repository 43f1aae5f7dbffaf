package regions

import (
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-regions/images"
	"github.com/nvr-ai/go-regions/util"
)

// SampleProposals holds the scored boxes belonging to one image of a batch.
type SampleProposals struct {
	Sample int
	Boxes  []images.Box
	Scores []float32
}

// SizeGroup holds boxes from across the whole batch that share a rounded
// (height, width), together with the sample index each box originated from.
// The three slices are index-aligned.
type SizeGroup struct {
	Size       images.Size
	SampleInds []int
	Boxes      []images.Box
}

// GroupBySample partitions a flat, batch-wide set of scored boxes into
// per-sample groups. The partition is stable (boxes keep their relative order
// within a sample) and total (every box lands in exactly one group). Sample
// groups are returned in order of first appearance.
func GroupBySample(boxes []images.Box, scores []float32, sampleInds []int) ([]SampleProposals, error) {
	if len(boxes) != len(scores) || len(boxes) != len(sampleInds) {
		return nil, errors.Errorf(
			"boxes, scores and sample indices must be aligned: got %d, %d, %d",
			len(boxes), len(scores), len(sampleInds))
	}

	groups := util.NewGroups[int, int]()
	for i, sample := range sampleInds {
		groups.Add(sample, i)
	}

	out := make([]SampleProposals, 0, groups.Len())
	for _, sample := range groups.Keys() {
		inds := groups.Get(sample)
		sp := SampleProposals{
			Sample: sample,
			Boxes:  make([]images.Box, len(inds)),
			Scores: make([]float32, len(inds)),
		}
		for j, i := range inds {
			sp.Boxes[j] = boxes[i]
			sp.Scores[j] = scores[i]
		}
		out = append(out, sp)
	}
	return out, nil
}

// GroupBySize repartitions per-sample proposals across the whole batch into
// groups keyed by rounded box (height, width), carrying each box's
// originating sample index into its new group.
//
// Patch extraction requires a single uniform output size per batched call;
// grouping by size minimizes extraction calls while guaranteeing every patch
// in a call shares the requested size. Within a group the insertion order
// (samples in input order, each sample's boxes in order) is preserved so the
// group's slices stay index-aligned.
func GroupBySize(samples []SampleProposals) []SizeGroup {
	type member struct {
		sample int
		box    images.Box
	}

	groups := util.NewGroups[images.Size, member]()
	for _, sp := range samples {
		for _, b := range sp.Boxes {
			groups.Add(b.Size(), member{sample: sp.Sample, box: b})
		}
	}

	out := make([]SizeGroup, 0, groups.Len())
	for _, size := range groups.Keys() {
		members := groups.Get(size)
		sg := SizeGroup{
			Size:       size,
			SampleInds: make([]int, len(members)),
			Boxes:      make([]images.Box, len(members)),
		}
		for i, m := range members {
			sg.SampleInds[i] = m.sample
			sg.Boxes[i] = m.box
		}
		out = append(out, sg)
	}
	return out
}
