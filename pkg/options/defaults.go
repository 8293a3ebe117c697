package options

const (
	// DefaultEntries is the upper bound on logical entry count assumed when
	// the caller does not specify one: 2^20.
	DefaultEntries int64 = 1 << 20

	// DefaultMinSegments leaves the segment-count floor entirely to the
	// heuristic estimate in internal/segmentplanner.
	DefaultMinSegments int64 = 0

	// DefaultMaxBloatFactor adds no bloat-proportional tiers by default; the
	// layout still budgets one extra tier per segment.
	DefaultMaxBloatFactor float64 = 1.0

	// DefaultAllowSegmentTiering keeps tiering available unless disabled.
	DefaultAllowSegmentTiering = true

	// DefaultNonTieredSegmentsPercentile is the load percentile a segment
	// must accommodate without overflowing into a tier.
	DefaultNonTieredSegmentsPercentile float64 = 0.99999

	// DefaultValueAlignment leaves values unaligned unless the caller asks for
	// alignment explicitly; no platform-recommended alignment is consulted.
	DefaultValueAlignment int64 = 1
)

// NewDefaultOptions returns an Options record populated with every default
// from spec.md's configuration table. aligned64BitAtomic is supplied by the
// platform collaborator (pkg/platform), since it depends on GOARCH rather
// than on any fixed constant.
func NewDefaultOptions(aligned64BitAtomic bool) *Options {
	return &Options{
		Entries:                     DefaultEntries,
		MinSegments:                 DefaultMinSegments,
		ValueAlignment:              DefaultValueAlignment,
		Checksums:                   ChecksumIfPersisted,
		MaxBloatFactor:              DefaultMaxBloatFactor,
		AllowSegmentTiering:         DefaultAllowSegmentTiering,
		NonTieredSegmentsPercentile: DefaultNonTieredSegmentsPercentile,

		aligned64BitSet:                    false,
		Aligned64BitMemoryOperationsAtomic: aligned64BitAtomic,
	}
}
