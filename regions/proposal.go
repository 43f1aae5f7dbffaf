package regions

import (
	"image"

	"github.com/nvr-ai/go-regions/images"
)

// RegionProposalSet bundles the patches extracted for one size group together
// with their provenance. SampleInds, Boxes and Patches are index-aligned and
// every patch has pixel dimensions equal to BoxSize. The set is constructed
// once per size group per pipeline run and never mutated afterwards.
type RegionProposalSet struct {
	// BoxSize is the uniform (height, width) of every patch in the set.
	BoxSize images.Size
	// SampleInds maps each patch back to its source image in the batch.
	SampleInds []int
	// Boxes are the absolute-coordinate boxes the patches were cropped from.
	Boxes []images.Box
	// Patches are the resampled crops.
	Patches []image.Image
}

// Options are the tuning parameters of the region proposal pipeline.
type Options struct {
	// InstanceBoxLength is the width and height of boxes centered on
	// individual detected instances.
	InstanceBoxLength int
	// MergedBoxLength is the width and height of candidate boxes generated
	// for overlapping pairs. Recommended to be at least twice
	// InstanceBoxLength so a merged box encloses both originals.
	MergedBoxLength int
	// MergeIoUThreshold is the minimum overlap between a pair for a merged
	// candidate to be generated.
	MergeIoUThreshold float32
	// NMSIoUThreshold is the overlap above which lower scoring proposals
	// are suppressed.
	NMSIoUThreshold float32
	// MaxBoxes caps the number of proposals kept per sample.
	MaxBoxes int
}

// DefaultOptions returns pipeline options with the standard thresholds.
func DefaultOptions(instanceBoxLength, mergedBoxLength int) Options {
	return Options{
		InstanceBoxLength: instanceBoxLength,
		MergedBoxLength:   mergedBoxLength,
		MergeIoUThreshold: 0.1,
		NMSIoUThreshold:   0.25,
		MaxBoxes:          128,
	}
}
