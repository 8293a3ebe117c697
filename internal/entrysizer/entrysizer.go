// Package entrysizer implements EntrySizer (C4): it turns resolved key/value
// sizing information into the average footprint of one entry and the
// worst-case padding needed to keep the value payload aligned.
package entrysizer

import (
	"math"

	"github.com/iamNilotpal/latticemap/internal/numberkit"
	"github.com/iamNilotpal/latticemap/internal/planconsts"
	"github.com/iamNilotpal/latticemap/pkg/marshal"
)

// Input carries every resolved (post-mutual-exclusion) sizing fact the
// entry-size computation needs.
type Input struct {
	// AverageKeySize and AverageValueSize are the resolved average
	// serialized sizes in bytes (from an explicit average, a measured
	// sample, or a constant size collapsed to a point value).
	AverageKeySize   float64
	AverageValueSize float64

	// ConstantKeySize and ConstantValueSize report whether the key/value are
	// constant-sized (statically by type, or asserted by configuration).
	ConstantKeySize   bool
	ConstantValueSize bool

	Replicated      bool
	ChecksumEntries bool
	ValueAlignment  int64

	// ActualChunkSize is the user override, or 0 if unset.
	ActualChunkSize int64

	// LengthCodec reports how many bytes a length prefix needs for a given
	// length; defaults to marshal.VarintLengthCodec() if nil.
	LengthCodec marshal.LengthPrefixCodec
}

// Result is EntrySizer's output.
type Result struct {
	AverageEntrySize      float64
	WorstAlignmentPadding int64
}

// Compute implements spec.md §4.4.
func Compute(in Input) Result {
	codec := in.LengthCodec
	if codec == nil {
		codec = marshal.VarintLengthCodec()
	}

	keyPrefix := averageStoringLength(codec, in.AverageKeySize)
	valuePrefix := averageStoringLength(codec, in.AverageValueSize)

	sizeBeforeAlignment := keyPrefix + in.AverageKeySize
	if in.Replicated {
		sizeBeforeAlignment += planconsts.AdditionalEntryBytes
	}
	if in.ChecksumEntries {
		sizeBeforeAlignment += planconsts.ChecksumStoredBytes
	}
	sizeBeforeAlignment += valuePrefix

	padding := worstAlignmentPadding(in, codec, sizeBeforeAlignment)

	total := sizeBeforeAlignment + float64(padding) + in.AverageValueSize
	return Result{AverageEntrySize: total, WorstAlignmentPadding: padding}
}

// averageStoringLength implements the "average prefix length" rule in §4.4:
// if avg is an integer, use the codec's length at that integer; otherwise
// linearly interpolate between the lengths at the floor and ceiling.
func averageStoringLength(codec marshal.LengthPrefixCodec, avg float64) float64 {
	if avg == math.Trunc(avg) {
		return float64(codec.StoringLength(int64(avg)))
	}

	lo := int64(math.Floor(avg))
	hi := int64(math.Ceil(avg))
	loLen := float64(codec.StoringLength(lo))
	hiLen := float64(codec.StoringLength(hi))
	frac := avg - float64(lo)
	return loLen + frac*(hiLen-loLen)
}

// valueLengthPrefixConstant reports whether the value's length-prefix width
// is the same regardless of rounding direction, i.e. it does not vary with
// the exact value length near the configured average. This can hold even
// when the value itself is not constant-sized, if the prefix encoding uses a
// fixed-width length field.
func valueLengthPrefixConstant(codec marshal.LengthPrefixCodec, avg float64) bool {
	if avg == math.Trunc(avg) {
		return true
	}
	lo := int64(math.Floor(avg))
	hi := int64(math.Ceil(avg))
	return codec.StoringLength(lo) == codec.StoringLength(hi)
}

func worstAlignmentPadding(in Input, codec marshal.LengthPrefixCodec, sizeBeforeAlignment float64) int64 {
	if in.ValueAlignment <= 1 {
		return 0
	}

	if in.ConstantKeySize && valueLengthPrefixConstant(codec, in.AverageValueSize) {
		size := int64(math.Round(sizeBeforeAlignment))

		if in.ConstantKeySize && in.ConstantValueSize {
			return numberkit.AlignUp(size, in.ValueAlignment) - size
		}

		if in.ActualChunkSize > 0 {
			return worstPaddingGivenChunkSize(size, in.ActualChunkSize, in.ValueAlignment)
		}

		budget := planconsts.MaxDefaultChunksPerAverageEntry(in.Replicated)
		for _, candidate := range []int64{8, 4} {
			padding := worstPaddingGivenChunkSize(size, candidate, in.ValueAlignment)
			chunksPerEntry := int64(math.Ceil((sizeBeforeAlignment + float64(padding) + in.AverageValueSize) / float64(candidate)))
			if chunksPerEntry <= int64(budget) {
				return padding
			}
		}
		// Neither candidate chunk size keeps the entry within budget; fall
		// back to the worst case rather than understate padding.
		return in.ValueAlignment - 1
	}

	return in.ValueAlignment - 1
}

// worstPaddingGivenChunkSize implements the residue analysis in §4.4: the
// entry's start position within a segment advances by multiples of
// gcd(alignment, chunkSize) as chunk allocation proceeds, so the achievable
// padding values are a residue class of that size; the worst member of that
// class (still < alignment, per invariant 8) is reported.
func worstPaddingGivenChunkSize(sizeBeforeAlignment, chunkSize, alignment int64) int64 {
	g := numberkit.GCD(alignment, chunkSize)
	first := numberkit.AlignUp(sizeBeforeAlignment, alignment) - sizeBeforeAlignment

	if g == alignment {
		return first
	}

	worst := first
	for add := g; add <= alignment-g; add += g {
		candidate := (first + add) % alignment
		if candidate > worst {
			worst = candidate
		}
	}
	return worst
}
