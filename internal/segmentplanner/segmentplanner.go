// Package segmentplanner implements SegmentPlanner (C6): choosing the
// segment count, entries per segment, and chunks per segment, iterating
// hash-lookup slot-width strategies until one fits within the platform's
// constraints.
package segmentplanner

import (
	"math"

	"github.com/iamNilotpal/latticemap/internal/hashlookup"
	"github.com/iamNilotpal/latticemap/internal/numberkit"
	"github.com/iamNilotpal/latticemap/internal/planconsts"
	"github.com/iamNilotpal/latticemap/internal/poisson"
	"github.com/iamNilotpal/latticemap/pkg/errors"
	"github.com/iamNilotpal/latticemap/pkg/hashtable"
)

// Input carries everything SegmentPlanner needs from the resolved
// configuration and from ChunkPlanner's output.
type Input struct {
	Entries               int64
	AverageEntrySize       float64
	AverageChunksPerEntry  float64
	AverageValueSize       float64
	NonTieredPercentile    float64
	Aligned64BitMemOpAtomic bool
	OSPageSize             int64
	SlotMath               hashtable.SlotMath

	// Overrides; 0/unset means "not configured".
	ActualSegments            int64
	EntriesPerSegmentOverride int64
	ActualChunksPerSegment    int64
	MinSegmentsOption         int64
}

// Result is SegmentPlanner's output.
type Result struct {
	Segments          int64
	EntriesPerSegment int64
	ChunksPerSegment  int64
	SlotBytes         int64
	ValueBits         int
	KeyBits           int
}

// Plan implements spec.md §4.6.
func Plan(in Input) (Result, error) {
	minSeg := minSegments(in)

	switch {
	case in.ActualSegments > 0:
		return planWithFixedSegments(in, in.ActualSegments, minSeg)

	case in.EntriesPerSegmentOverride > 0:
		return planWithFixedEntriesPerSegment(in, in.EntriesPerSegmentOverride, minSeg)

	default:
		return planHeuristic(in, minSeg)
	}
}

func planWithFixedSegments(in Input, segments, minSeg int64) (Result, error) {
	if segments < minSeg {
		segments = minSeg
	}

	var entriesPerSegment int64
	if in.EntriesPerSegmentOverride > 0 {
		entriesPerSegment = in.EntriesPerSegmentOverride
	} else {
		avg := float64(in.Entries) / float64(segments)
		k, ok := poisson.InverseCDF(avg, in.NonTieredPercentile)
		if !ok {
			return Result{}, errors.NewTooManyEntriesError("segmentplanner", segments, planconsts.MaxSegments)
		}
		entriesPerSegment = k
	}

	if float64(entriesPerSegment)*in.AverageChunksPerEntry > float64(planconsts.MaxSegmentChunks) {
		return Result{}, errors.NewTooManyChunksError("segmentplanner", entriesPerSegment, planconsts.MaxSegmentChunks)
	}
	if entriesPerSegment > planconsts.MaxSegmentEntries {
		return Result{}, errors.NewTooManyEntriesError("segmentplanner", entriesPerSegment, planconsts.MaxSegmentEntries)
	}

	chunksPerSegment := in.ActualChunksPerSegment
	if chunksPerSegment == 0 {
		chunksPerSegment = int64(math.Round(float64(entriesPerSegment) * in.AverageChunksPerEntry))
	}

	return finish(in, segments, entriesPerSegment, chunksPerSegment)
}

func planWithFixedEntriesPerSegment(in Input, entriesPerSegment, minSeg int64) (Result, error) {
	segments, ok := segmentsGivenEntriesPerSegment(in, entriesPerSegment, minSeg)
	if !ok {
		return Result{}, errors.NewTooManyEntriesError("segmentplanner", entriesPerSegment, planconsts.MaxSegments)
	}

	chunksPerSegment := in.ActualChunksPerSegment
	if chunksPerSegment == 0 {
		chunksPerSegment = int64(math.Round(float64(entriesPerSegment) * in.AverageChunksPerEntry))
	}

	return finish(in, segments, entriesPerSegment, chunksPerSegment)
}

func planHeuristic(in Input, minSeg int64) (Result, error) {
	var lastErr error

	for _, width := range []int64{4, 8} {
		if width == 8 && !in.Aligned64BitMemOpAtomic {
			continue
		}

		entriesPerSegment := largestEntriesPerSegmentForWidth(in, width)
		if entriesPerSegment < 1 {
			lastErr = errors.NewTooManyChunksError("segmentplanner", 0, planconsts.MaxSegmentChunks)
			continue
		}

		segments, ok := segmentsGivenEntriesPerSegment(in, entriesPerSegment, minSeg)
		if !ok {
			lastErr = errors.NewTooManyEntriesError("segmentplanner", entriesPerSegment, planconsts.MaxSegments)
			continue
		}

		if width == 4 {
			// Page-efficiency guard: reject many tiny segments in favor of
			// the wider slot, which supports fewer, larger segments.
			if float64(entriesPerSegment)*in.AverageEntrySize < 5*float64(in.OSPageSize) {
				continue
			}
		}

		if segments > planconsts.MaxSegments {
			lastErr = errors.NewTooManyEntriesError("segmentplanner", segments, planconsts.MaxSegments)
			continue
		}

		chunksPerSegment := in.ActualChunksPerSegment
		if chunksPerSegment == 0 {
			chunksPerSegment = int64(math.Round(float64(entriesPerSegment) * in.AverageChunksPerEntry))
		}

		return finish(in, segments, entriesPerSegment, chunksPerSegment)
	}

	if lastErr == nil {
		lastErr = errors.NewTooManyEntriesError("segmentplanner", in.Entries, planconsts.MaxSegments)
	}
	return Result{}, lastErr
}

// finish rounds segments up to a power of two, re-validates against
// minSegments/MaxSegments, and resolves the hash-lookup slot sizing for the
// final (chunksPerSegment, entriesPerSegment) pair.
func finish(in Input, segments, entriesPerSegment, chunksPerSegment int64) (Result, error) {
	segments = numberkit.NextPowerOfTwo(segments, minSegments(in))
	if segments > planconsts.MaxSegments {
		return Result{}, errors.NewTooManyEntriesError("segmentplanner", segments, planconsts.MaxSegments)
	}

	lookup := hashlookup.Compute(in.SlotMath, chunksPerSegment, entriesPerSegment, in.Aligned64BitMemOpAtomic)
	if !lookup.Feasible {
		return Result{}, errors.NewTooManyChunksError("hashlookup", chunksPerSegment, planconsts.MaxSegmentChunks)
	}

	return Result{
		Segments:          segments,
		EntriesPerSegment: entriesPerSegment,
		ChunksPerSegment:  chunksPerSegment,
		SlotBytes:         lookup.SlotBytes,
		ValueBits:         lookup.ValueBits,
		KeyBits:           lookup.KeyBits,
	}, nil
}

// segmentsGivenEntriesPerSegment implements spec.md §4.6 step 3.
func segmentsGivenEntriesPerSegment(in Input, entriesPerSegment, minSeg int64) (int64, bool) {
	avgChunksPerEntry := in.AverageChunksPerEntry
	if avgChunksPerEntry <= 0 {
		avgChunksPerEntry = 1
	}
	precision := 1 / avgChunksPerEntry

	mu, ok := poisson.MeanByCumulativeProbabilityAndValue(in.NonTieredPercentile, entriesPerSegment, precision)
	if !ok || mu <= 0 {
		return 0, false
	}

	segments := int64(math.Floor(float64(in.Entries)/mu)) + 1
	if segments < 1 {
		segments = 1
	}
	if segments < minSeg {
		segments = minSeg
	}
	if segments > planconsts.MaxSegments {
		return segments, false
	}
	return segments, true
}

// largestEntriesPerSegmentForWidth binary-searches the largest
// entriesPerSegment for which the resulting slot fits within width bytes.
func largestEntriesPerSegmentForWidth(in Input, width int64) int64 {
	fits := func(e int64) bool {
		chunks := int64(math.Round(float64(e) * in.AverageChunksPerEntry))
		res := hashlookup.Compute(in.SlotMath, chunks, e, in.Aligned64BitMemOpAtomic)
		return res.Feasible && res.SlotBytes <= width
	}

	lo, hi := int64(1), planconsts.MaxSegmentEntries
	if !fits(lo) {
		return 0
	}
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		if fits(mid) {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// minSegments implements spec.md §4.6 step 5: the floor is the larger of the
// user-configured minSegments option and a heuristic estimate that keeps
// small or large-value maps from being planned into too few segments.
func minSegments(in Input) int64 {
	estimate := estimateSegments(in.Entries, in.AverageValueSize)
	if in.MinSegmentsOption > estimate {
		return in.MinSegmentsOption
	}
	return estimate
}

func estimateSegments(entries int64, averageValueSize float64) int64 {
	byCount := numberkit.NextPowerOfTwo(entries/32, 1)
	bySize := estimateBySize(entries, averageValueSize)
	if byCount < bySize {
		return byCount
	}
	return bySize
}

// estimateBySize implements the base/multiplier ladder in §4.6 step 5.
func estimateBySize(entries int64, averageValueSize float64) int64 {
	var base int64
	switch {
	case entries < 1024:
		base = 1
	case entries < 4096:
		base = 8
	case entries < 16384:
		base = 16
	case entries < 131072:
		base = 32
	case entries < 1048576:
		base = 64
	case entries < 209715200:
		base = 128
	default:
		base = 256
	}

	multiplier := int64(1)
	switch {
	case averageValueSize >= 1e6:
		multiplier = 16
	case averageValueSize >= 1e5:
		multiplier = 8
	case averageValueSize >= 1e4:
		multiplier = 4
	case averageValueSize >= 1e3:
		multiplier = 2
	}

	return base * multiplier
}
