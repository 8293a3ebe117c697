package options

import (
	"github.com/iamNilotpal/latticemap/internal/serialization"
	"github.com/iamNilotpal/latticemap/pkg/errors"
)

// ResolvedConfig is the single resolution pass spec.md §9 calls preEmit(): it
// materializes every derived value exactly once so the rest of the planning
// pipeline never has to ask "is this set?" again.
type ResolvedConfig struct {
	Entries int64

	AverageKeySize    float64
	ConstantKeySize   bool
	AverageValueSize  float64
	ConstantValueSize bool
	ConstantValueSz   int64

	ActualChunkSize        int64
	ActualChunksPerSegment int64
	EntriesPerSegment      int64
	ActualSegments         int64
	MinSegments            int64
	MaxChunksPerEntry      int64

	ValueAlignment int64
	Replicated     bool
	Checksums      ChecksumMode
	MaxBloatFactor float64

	AllowSegmentTiering         bool
	NonTieredSegmentsPercentile float64

	Aligned64BitMemoryOperationsAtomic bool
	WillBePersisted                    bool
}

// Resolve validates o and derives every field the planning pipeline needs,
// or fails with a structured error from pkg/errors. It is the only place
// spec.md's InvalidConfig and most ConflictingConfig checks happen.
func Resolve(o *Options) (*ResolvedConfig, error) {
	if o.Entries < 1 {
		return nil, errors.NewRangeError("entries", o.Entries, 1, nil)
	}
	if o.ValueAlignment < 1 || (o.ValueAlignment&(o.ValueAlignment-1)) != 0 {
		return nil, errors.NewRangeError("valueAlignment", o.ValueAlignment, 1, "power of two")
	}
	if o.NonTieredSegmentsPercentile <= 0.5 || o.NonTieredSegmentsPercentile >= 1 {
		return nil, errors.NewRangeError("nonTieredSegmentsPercentile", o.NonTieredSegmentsPercentile, 0.5, 1.0)
	}
	if o.MaxBloatFactor < 1 || o.MaxBloatFactor > 1000 {
		return nil, errors.NewRangeError("maxBloatFactor", o.MaxBloatFactor, 1.0, 1000.0)
	}
	if o.ActualSegments != 0 && (o.ActualSegments < 1 || o.ActualSegments > 1<<30) {
		return nil, errors.NewRangeError("actualSegments", o.ActualSegments, 1, int64(1)<<30)
	}

	if o.ActualChunksPerSegment > 0 {
		if o.ActualChunkSize == 0 || o.EntriesPerSegment == 0 || o.ActualSegments == 0 {
			return nil, errors.NewConflictError("actualChunksPerSegment",
				"actualChunksPerSegment requires actualChunkSize, entriesPerSegment, and actualSegments to all be set")
		}
	}
	if o.EntriesPerSegment > 0 && o.ActualChunksPerSegment > 0 && o.EntriesPerSegment > o.ActualChunksPerSegment {
		return nil, errors.NewConflictError("entriesPerSegment", "entriesPerSegment must not exceed actualChunksPerSegment")
	}

	keyOracle := serialization.New(o.KeyMarshaller)
	valueOracle := serialization.New(o.ValueMarshaller)

	avgKeySize, constKeySize, err := resolveSize("key", o.keySizeMode, o.AverageKeySize, o.AverageKeySample, keyOracle)
	if err != nil {
		return nil, err
	}
	avgValueSize, constValueSize, err := resolveSize("value", o.valueSizeMode, o.AverageValueSize, o.AverageValueSample, valueOracle)
	if err != nil {
		return nil, err
	}

	var constValueSz int64
	if constValueSize {
		constValueSz = int64(avgValueSize)
	}

	return &ResolvedConfig{
		Entries: o.Entries,

		AverageKeySize:    avgKeySize,
		ConstantKeySize:   constKeySize,
		AverageValueSize:  avgValueSize,
		ConstantValueSize: constValueSize,
		ConstantValueSz:   constValueSz,

		ActualChunkSize:        o.ActualChunkSize,
		ActualChunksPerSegment: o.ActualChunksPerSegment,
		EntriesPerSegment:      o.EntriesPerSegment,
		ActualSegments:         o.ActualSegments,
		MinSegments:            o.MinSegments,
		MaxChunksPerEntry:      o.MaxChunksPerEntry,

		ValueAlignment: o.ValueAlignment,
		Replicated:     o.Replicated,
		Checksums:      resolveChecksumMode(o.Checksums),
		MaxBloatFactor: o.MaxBloatFactor,

		AllowSegmentTiering:         o.AllowSegmentTiering,
		NonTieredSegmentsPercentile: o.NonTieredSegmentsPercentile,

		Aligned64BitMemoryOperationsAtomic: o.Aligned64BitMemoryOperationsAtomic,
		WillBePersisted:                    o.WillBePersisted,
	}, nil
}

func resolveChecksumMode(m ChecksumMode) ChecksumMode {
	if m == "" {
		return ChecksumIfPersisted
	}
	return m
}

// resolveSize implements the mutual-exclusion and static-type rules for one
// of the key/value sides: if the marshaller reports a statically-known size,
// any explicit size option conflicts with it; otherwise the active mode
// (average size, average sample, or constant size) resolves to a concrete
// average and a constant-sized flag.
func resolveSize(field string, mode sizeMode, averageSize float64, sample any, oracle *serialization.Oracle) (avg float64, constant bool, err error) {
	if oracle.StaticallyKnown() {
		if mode != sizeModeUnset {
			return 0, false, errors.NewConflictError(field, "size option set on a statically-sized type")
		}
		size, _ := oracle.ConstantSize()
		return float64(size), true, nil
	}

	switch mode {
	case sizeModeAverageSize:
		if averageSize <= 0 {
			return 0, false, errors.NewRangeError(field, averageSize, 0, nil)
		}
		return averageSize, false, nil

	case sizeModeAverageSample:
		size, measureErr := oracle.SerializationSize(sample)
		if measureErr != nil {
			return 0, false, errors.NewBadSampleError(field, measureErr, sample)
		}
		return float64(size), false, nil

	case sizeModeConstantSize:
		return averageSize, true, nil

	default:
		if oracle.ConstantSizeMarshaller() {
			size, _ := oracle.ConstantSize()
			return float64(size), true, nil
		}
		return 0, false, errors.NewMissingSizeError(field)
	}
}
