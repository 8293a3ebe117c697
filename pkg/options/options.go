// Package options defines the mutable configuration record for a latticemap
// builder: target entry count, key/value sizing, chunk/segment overrides, and
// the replication and tiering knobs, configured through functional options in
// the same idiom the rest of this codebase uses for its storage engine.
package options

import "github.com/iamNilotpal/latticemap/pkg/marshal"

// sizeMode tracks which of the three mutually exclusive ways of describing a
// key's or value's size is currently active.
type sizeMode int

const (
	sizeModeUnset sizeMode = iota
	sizeModeAverageSize
	sizeModeAverageSample
	sizeModeConstantSize
)

// ChecksumMode is the tri-state checksumming option.
type ChecksumMode string

const (
	ChecksumYes         ChecksumMode = "yes"
	ChecksumNo          ChecksumMode = "no"
	ChecksumIfPersisted ChecksumMode = "if-persisted"
)

// Options is the builder's mutable configuration record. Every field here
// corresponds to one row of the configuration surface; Resolve turns it into
// a validated, fully-derived ResolvedConfig.
type Options struct {
	Entries int64

	KeyMarshaller   marshal.Marshaller
	ValueMarshaller marshal.Marshaller

	keySizeMode      sizeMode
	AverageKeySize   float64
	AverageKeySample any

	valueSizeMode      sizeMode
	AverageValueSize   float64
	AverageValueSample any

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

	aligned64BitSet                    bool
	Aligned64BitMemoryOperationsAtomic bool

	// WillBePersisted tells checksum resolution whether the map backing this
	// layout will be mapped from a file. It is not part of the documented
	// configuration surface; the embedder that owns the memory-mapping layer
	// sets it alongside the marshallers.
	WillBePersisted bool
}

// OptionFunc mutates an Options record.
type OptionFunc func(*Options)

// WithEntries sets the upper bound on logical entry count.
func WithEntries(entries int64) OptionFunc {
	return func(o *Options) { o.Entries = entries }
}

// WithKeyMarshaller supplies the collaborator used to resolve key sizing.
func WithKeyMarshaller(m marshal.Marshaller) OptionFunc {
	return func(o *Options) { o.KeyMarshaller = m }
}

// WithValueMarshaller supplies the collaborator used to resolve value sizing.
func WithValueMarshaller(m marshal.Marshaller) OptionFunc {
	return func(o *Options) { o.ValueMarshaller = m }
}

// WithAverageKeySize declares the average serialized key length directly,
// clearing any previously set averageKey sample or constantKeySize.
func WithAverageKeySize(size float64) OptionFunc {
	return func(o *Options) {
		o.keySizeMode = sizeModeAverageSize
		o.AverageKeySize = size
		o.AverageKeySample = nil
	}
}

// WithAverageKey supplies a representative sample the sizer measures,
// clearing any previously set averageKeySize or constantKeySize.
func WithAverageKey(sample any) OptionFunc {
	return func(o *Options) {
		o.keySizeMode = sizeModeAverageSample
		o.AverageKeySample = sample
		o.AverageKeySize = 0
	}
}

// WithConstantKeySize asserts the key always serializes to the given size,
// clearing any previously set averageKeySize or averageKey sample.
func WithConstantKeySize(size int64) OptionFunc {
	return func(o *Options) {
		o.keySizeMode = sizeModeConstantSize
		o.AverageKeySize = float64(size)
		o.AverageKeySample = nil
	}
}

// WithAverageValueSize declares the average serialized value length directly.
func WithAverageValueSize(size float64) OptionFunc {
	return func(o *Options) {
		o.valueSizeMode = sizeModeAverageSize
		o.AverageValueSize = size
		o.AverageValueSample = nil
	}
}

// WithAverageValue supplies a representative sample the sizer measures.
func WithAverageValue(sample any) OptionFunc {
	return func(o *Options) {
		o.valueSizeMode = sizeModeAverageSample
		o.AverageValueSample = sample
		o.AverageValueSize = 0
	}
}

// WithConstantValueSize asserts the value always serializes to the given size.
func WithConstantValueSize(size int64) OptionFunc {
	return func(o *Options) {
		o.valueSizeMode = sizeModeConstantSize
		o.AverageValueSize = float64(size)
		o.AverageValueSample = nil
	}
}

// WithActualChunkSize overrides the computed chunk size.
func WithActualChunkSize(size int64) OptionFunc {
	return func(o *Options) { o.ActualChunkSize = size }
}

// WithActualChunksPerSegment overrides the computed chunks-per-segment.
func WithActualChunksPerSegment(n int64) OptionFunc {
	return func(o *Options) { o.ActualChunksPerSegment = n }
}

// WithEntriesPerSegment overrides the computed entries-per-segment.
func WithEntriesPerSegment(n int64) OptionFunc {
	return func(o *Options) { o.EntriesPerSegment = n }
}

// WithActualSegments overrides the computed segment count.
func WithActualSegments(n int64) OptionFunc {
	return func(o *Options) { o.ActualSegments = n }
}

// WithMinSegments sets a floor on the segment count.
func WithMinSegments(n int64) OptionFunc {
	return func(o *Options) { o.MinSegments = n }
}

// WithMaxChunksPerEntry caps the hash-lookup slot's value field.
func WithMaxChunksPerEntry(n int64) OptionFunc {
	return func(o *Options) { o.MaxChunksPerEntry = n }
}

// WithValueAlignment sets the entry/value alignment (must be a power of two).
func WithValueAlignment(alignment int64) OptionFunc {
	return func(o *Options) { o.ValueAlignment = alignment }
}

// WithReplicated toggles per-entry replication bytes.
func WithReplicated(replicated bool) OptionFunc {
	return func(o *Options) { o.Replicated = replicated }
}

// WithChecksums sets the checksum tri-state.
func WithChecksums(mode ChecksumMode) OptionFunc {
	return func(o *Options) { o.Checksums = mode }
}

// WithMaxBloatFactor sets the overflow-tier budget multiplier.
func WithMaxBloatFactor(factor float64) OptionFunc {
	return func(o *Options) { o.MaxBloatFactor = factor }
}

// WithAllowSegmentTiering toggles whether tiers may be created at all.
func WithAllowSegmentTiering(allow bool) OptionFunc {
	return func(o *Options) { o.AllowSegmentTiering = allow }
}

// WithNonTieredSegmentsPercentile sets the load percentile segments must
// accommodate without tiering.
func WithNonTieredSegmentsPercentile(p float64) OptionFunc {
	return func(o *Options) { o.NonTieredSegmentsPercentile = p }
}

// WithAligned64BitMemoryOperationsAtomic overrides the platform's default
// atomicity guarantee for the hash-lookup slot width decision.
func WithAligned64BitMemoryOperationsAtomic(atomic bool) OptionFunc {
	return func(o *Options) {
		o.aligned64BitSet = true
		o.Aligned64BitMemoryOperationsAtomic = atomic
	}
}

// WithPersisted tells checksum resolution whether this map will be backed by
// a file, for the "if-persisted" checksum mode.
func WithPersisted(persisted bool) OptionFunc {
	return func(o *Options) { o.WillBePersisted = persisted }
}

// Clone returns a field-by-field copy of o. Marshallers and sample values are
// shared with o, not copied; applying OptionFuncs to the clone never affects o.
func (o *Options) Clone() *Options {
	if o == nil {
		return nil
	}
	c := *o
	return &c
}
