// Package chunkplanner implements ChunkPlanner (C5): choosing the chunk
// size and the average number of chunks an entry occupies.
package chunkplanner

import (
	"math"

	"github.com/iamNilotpal/latticemap/internal/planconsts"
)

// Input carries what ChunkPlanner needs from the resolved configuration and
// from EntrySizer's output.
type Input struct {
	AverageEntrySize float64

	// ConstantEntrySize is true only when both key and value are
	// constant-sized (so one chunk holds exactly one entry).
	ConstantEntrySize bool

	Replicated bool

	// ActualChunkSize is the user override, or 0 if unset.
	ActualChunkSize int64

	// ConstantValueSize and ValueAlignment feed segmentEntrySpaceInnerOffset.
	ConstantValueSize bool
	ConstantValueSz   int64 // the constant value size itself, if ConstantValueSize
	ValueAlignment    int64
}

// Result is ChunkPlanner's output.
type Result struct {
	ChunkSize                    int64
	AverageChunksPerEntry        float64
	SegmentEntrySpaceInnerOffset int64
}

// Compute implements spec.md §4.5.
func Compute(in Input) Result {
	chunkSize := resolveChunkSize(in)
	avgChunksPerEntry := 1.0
	if !in.ConstantEntrySize {
		avgChunksPerEntry = math.Ceil(in.AverageEntrySize / float64(chunkSize))
	}

	innerOffset := int64(0)
	if in.ConstantEntrySize && in.ConstantValueSize && in.ValueAlignment > 0 {
		innerOffset = in.ConstantValueSz % in.ValueAlignment
	}

	return Result{
		ChunkSize:                    chunkSize,
		AverageChunksPerEntry:        avgChunksPerEntry,
		SegmentEntrySpaceInnerOffset: innerOffset,
	}
}

func resolveChunkSize(in Input) int64 {
	if in.ActualChunkSize > 0 {
		return in.ActualChunkSize
	}
	if in.ConstantEntrySize {
		return int64(math.Round(in.AverageEntrySize))
	}

	budget := int64(planconsts.MaxDefaultChunksPerAverageEntry(in.Replicated))
	for chunkSize := int64(4); chunkSize <= 1<<30; chunkSize <<= 1 {
		if float64(budget*chunkSize) > in.AverageEntrySize {
			return chunkSize
		}
	}
	return 1 << 30
}
