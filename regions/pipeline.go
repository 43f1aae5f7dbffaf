package regions

import (
	"image"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-regions/images"
	"github.com/nvr-ai/go-regions/inference"
	"github.com/nvr-ai/go-regions/patches"
)

// DefaultBatchSize is the number of images sent through the detector per
// inference call in PredictCentroids.
const DefaultBatchSize = 16

// ExtractRegionProposals produces fixed size patches tightly centered on
// detected instances, merging nearby detections into joint crops and
// suppressing redundant overlaps.
//
// For every centroid an instance box is built; per sample, overlapping pairs
// spawn merged candidates and greedy NMS prunes the result. Surviving boxes
// across all samples are grouped by rounded size and each size group is
// extracted in a single batched call.
//
// Arguments:
//   - imgs: The image batch. All images must share dimensions > 1.
//   - centroids: Detected candidate locations across the batch.
//   - scores: Confidences index-aligned with centroids.
//   - extractor: The patch resampling backend.
//   - opts: Pipeline tuning parameters; see DefaultOptions.
//
// Returns:
//   - []RegionProposalSet: One set per distinct box size. Order across sets
//     follows first appearance of each size; within a set the slices are
//     index-aligned.
//   - error: On malformed input. No partial results are returned on failure.
func ExtractRegionProposals(
	imgs []image.Image,
	centroids []images.Centroid,
	scores []float32,
	extractor patches.Extractor,
	opts Options,
) ([]RegionProposalSet, error) {
	if len(centroids) != len(scores) {
		return nil, errors.Errorf("got %d centroids but %d scores", len(centroids), len(scores))
	}
	if len(imgs) == 0 {
		return nil, errors.New("image batch is empty")
	}
	if extractor == nil {
		return nil, errors.New("patch extractor is required")
	}

	imgHeight := imgs[0].Bounds().Dy()
	imgWidth := imgs[0].Bounds().Dx()

	// Initial region proposals centered on the centroids.
	allBoxes, err := images.CentroidBoxes(centroids, opts.InstanceBoxLength)
	if err != nil {
		return nil, err
	}

	sampleInds := make([]int, len(centroids))
	for i, c := range centroids {
		sampleInds[i] = c.Sample
	}
	samples, err := GroupBySample(allBoxes, scores, sampleInds)
	if err != nil {
		return nil, err
	}

	// Merge then suppress, independently per sample.
	for i := range samples {
		merged, mergedScores, err := MergeOverlapping(
			samples[i].Boxes, samples[i].Scores, opts.MergedBoxLength, opts.MergeIoUThreshold)
		if err != nil {
			return nil, errors.Wrapf(err, "merging sample %d", samples[i].Sample)
		}

		kept, keptScores, err := Suppress(merged, mergedScores, opts.NMSIoUThreshold, opts.MaxBoxes)
		if err != nil {
			return nil, errors.Wrapf(err, "suppressing sample %d", samples[i].Sample)
		}
		samples[i].Boxes = kept
		samples[i].Scores = keptScores
	}

	// Pool across samples and extract one batched call per size group.
	sets := make([]RegionProposalSet, 0)
	for _, group := range GroupBySize(samples) {
		normalized, err := images.Normalize(group.Boxes, imgHeight, imgWidth)
		if err != nil {
			return nil, err
		}

		extracted, err := extractor.Extract(imgs, normalized, group.SampleInds, group.Size)
		if err != nil {
			return nil, errors.Wrapf(err, "extracting %dx%d patches", group.Size.Height, group.Size.Width)
		}

		sets = append(sets, RegionProposalSet{
			BoxSize:    group.Size,
			SampleInds: group.SampleInds,
			Boxes:      group.Boxes,
			Patches:    extracted,
		})
	}

	return sets, nil
}

// PredictCentroids runs a centroid detector over a batch of images and
// returns peak locations in native image resolution.
//
// Images are resized to the detector's input scale (rounded up to its
// required divisor), inference runs in batches of batchSize, confidence maps
// are scanned for local peaks, and peak coordinates are rescaled from
// confidence map resolution back to detector input resolution by dividing
// row/col by the detector's output scale. Sample and channel subscripts pass
// through untouched.
//
// Arguments:
//   - imgs: The image batch in native resolution.
//   - detector: The centroid detection capability.
//   - batchSize: Images per inference call; values < 1 use DefaultBatchSize.
//   - threshold: Minimum peak confidence; see DefaultPeakThreshold.
//
// Returns:
//   - []images.Centroid: Detected peaks across the whole batch.
//   - []float32: Peak confidences, index-aligned with the centroids.
//   - error: If preprocessing or inference fails.
func PredictCentroids(
	imgs []image.Image,
	detector inference.Detector,
	batchSize int,
	threshold float32,
) ([]images.Centroid, []float32, error) {
	if detector == nil {
		return nil, nil, errors.New("detector is required")
	}
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}

	resized, err := images.ResizeToScale(imgs, detector.InputScale(), detector.InputDivisor())
	if err != nil {
		return nil, nil, errors.Wrap(err, "resizing batch for inference")
	}

	outputScale := detector.OutputScale()
	if outputScale <= 0 {
		return nil, nil, errors.Errorf("detector output scale must be positive, got %f", outputScale)
	}

	var centroids []images.Centroid
	var vals []float32
	for start := 0; start < len(resized); start += batchSize {
		end := min(start+batchSize, len(resized))

		confmaps, err := detector.Infer(resized[start:end])
		if err != nil {
			return nil, nil, errors.Wrapf(err, "inferring batch starting at sample %d", start)
		}

		peaks, peakVals, err := inference.FindLocalPeaks(confmaps, threshold)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "finding peaks in batch starting at sample %d", start)
		}

		for _, p := range peaks {
			centroids = append(centroids, images.Centroid{
				Sample:  p.Sample + start,
				Row:     p.Row / outputScale,
				Col:     p.Col / outputScale,
				Channel: p.Channel,
			})
		}
		vals = append(vals, peakVals...)
	}

	return centroids, vals, nil
}
