// Package latticemap is the public facade over the sizing and
// layout-planning engine: a Builder accumulates configuration through
// pkg/options functional options, then Emit turns a frozen snapshot of that
// configuration into an immutable Layout by running the full planning
// pipeline (EntrySizer, ChunkPlanner, SegmentPlanner, HashLookupSizer,
// LayoutAssembler) described in spec.md.
package latticemap

import (
	"sync"
	"sync/atomic"

	"github.com/iamNilotpal/latticemap/internal/chunkplanner"
	"github.com/iamNilotpal/latticemap/internal/entrysizer"
	"github.com/iamNilotpal/latticemap/internal/layout"
	"github.com/iamNilotpal/latticemap/internal/segmentplanner"
	"github.com/iamNilotpal/latticemap/pkg/errors"
	"github.com/iamNilotpal/latticemap/pkg/hashtable"
	"github.com/iamNilotpal/latticemap/pkg/logger"
	"github.com/iamNilotpal/latticemap/pkg/options"
	"github.com/iamNilotpal/latticemap/pkg/platform"
	"go.uber.org/zap"
)

// Builder accumulates configuration for one map layout and, on Emit,
// produces the immutable Layout the memory-mapping and segment-allocation
// layer consumes. Builder implements the Configuring -> Frozen state
// machine from spec.md §4.8: mutators fail with AlreadyFrozen once Emit has
// run.
type Builder struct {
	opts *options.Options
	log  *zap.SugaredLogger

	frozen atomic.Bool
	once   sync.Once
	layout *layout.Layout
	err    error
}

// New creates a Builder with the platform's defaults applied, then the given
// functional options layered on top.
func New(optFns ...options.OptionFunc) *Builder {
	return NewWithLogger(logger.New("latticemap"), optFns...)
}

// NewWithLogger is New, but with an explicit logger instead of the package
// default (used by the CLI's flag mode, which passes a human-readable
// development logger instead of structured JSON).
func NewWithLogger(log *zap.SugaredLogger, optFns ...options.OptionFunc) *Builder {
	opts := options.NewDefaultOptions(platform.Aligned64BitMemoryOperationsAtomic())
	for _, fn := range optFns {
		fn(opts)
	}
	return &Builder{opts: opts, log: log}
}

// Configure applies additional options to the builder. It fails with
// AlreadyFrozen if Emit has already run.
func (b *Builder) Configure(optFns ...options.OptionFunc) error {
	if b.frozen.Load() {
		return errors.NewAlreadyFrozenError("builder")
	}
	for _, fn := range optFns {
		fn(b.opts)
	}
	return nil
}

// Clone returns an independent Builder in the Configuring state, with a copy
// of this builder's current configuration (options.Options.Clone: marshallers
// and samples are shared, not copied). Configuring the clone never affects
// the original, and vice versa (spec.md P8).
func (b *Builder) Clone() *Builder {
	return &Builder{opts: b.opts.Clone(), log: b.log}
}

// Emit resolves the configuration and runs the planning pipeline, producing
// an immutable Layout. The builder transitions to Frozen as soon as Emit is
// called, even if it returns an error; further mutation attempts fail with
// AlreadyFrozen. Calling Emit more than once returns the same result without
// re-running the pipeline.
func (b *Builder) Emit() (*layout.Layout, error) {
	b.frozen.Store(true)
	b.once.Do(func() {
		b.layout, b.err = b.emit()
	})
	return b.layout, b.err
}

func (b *Builder) emit() (*layout.Layout, error) {
	cfg, err := options.Resolve(b.opts)
	if err != nil {
		b.log.Errorw("configuration resolution failed", "error", err)
		return nil, err
	}

	entrySize := entrysizer.Compute(entrysizer.Input{
		AverageKeySize:    cfg.AverageKeySize,
		AverageValueSize:  cfg.AverageValueSize,
		ConstantKeySize:   cfg.ConstantKeySize,
		ConstantValueSize: cfg.ConstantValueSize,
		Replicated:        cfg.Replicated,
		ChecksumEntries:   resolveChecksumEntries(cfg.Checksums, cfg.WillBePersisted),
		ValueAlignment:    cfg.ValueAlignment,
		ActualChunkSize:   cfg.ActualChunkSize,
	})

	constantEntrySize := cfg.ConstantKeySize && cfg.ConstantValueSize

	chunks := chunkplanner.Compute(chunkplanner.Input{
		AverageEntrySize:  entrySize.AverageEntrySize,
		ConstantEntrySize: constantEntrySize,
		Replicated:        cfg.Replicated,
		ActualChunkSize:   cfg.ActualChunkSize,
		ConstantValueSize: cfg.ConstantValueSize,
		ConstantValueSz:   cfg.ConstantValueSz,
		ValueAlignment:    cfg.ValueAlignment,
	})

	segments, err := segmentplanner.Plan(segmentplanner.Input{
		Entries:                 cfg.Entries,
		AverageEntrySize:        entrySize.AverageEntrySize,
		AverageChunksPerEntry:   chunks.AverageChunksPerEntry,
		AverageValueSize:        cfg.AverageValueSize,
		NonTieredPercentile:     cfg.NonTieredSegmentsPercentile,
		Aligned64BitMemOpAtomic: cfg.Aligned64BitMemoryOperationsAtomic,
		OSPageSize:              int64(platform.PageSize()),
		SlotMath:                hashtable.Default{},
		ActualSegments:          cfg.ActualSegments,
		EntriesPerSegmentOverride: cfg.EntriesPerSegment,
		ActualChunksPerSegment:    cfg.ActualChunksPerSegment,
		MinSegmentsOption:         cfg.MinSegments,
	})
	if err != nil {
		b.log.Errorw("segment planning failed", "error", err)
		return nil, err
	}

	var entrySizeForConstant int64
	if constantEntrySize {
		entrySizeForConstant = chunks.ChunkSize
	}

	result, err := layout.Assemble(layout.Assembly{
		Segments:                segments.Segments,
		EntriesPerSegment:       segments.EntriesPerSegment,
		ChunkSize:               chunks.ChunkSize,
		ChunksPerSegment:        segments.ChunksPerSegment,
		HashLookupValueBits:     segments.ValueBits,
		HashLookupKeyBits:       segments.KeyBits,
		HashLookupSlotBytes:     segments.SlotBytes,
		ValueAlignment:          cfg.ValueAlignment,
		WorstAlignmentPadding:   entrySize.WorstAlignmentPadding,
		SegmentInnerOffset:      chunks.SegmentEntrySpaceInnerOffset,
		ConstantEntrySize:       constantEntrySize,
		EntrySize:               entrySizeForConstant,
		ActualChunkSize:         cfg.ActualChunkSize,
		MaxChunksPerEntryOption: cfg.MaxChunksPerEntry,
		AllowSegmentTiering:     cfg.AllowSegmentTiering,
		MaxBloatFactor:          cfg.MaxBloatFactor,
		ChecksumMode:            string(cfg.Checksums),
		WillBePersisted:         cfg.WillBePersisted,
		Replicated:              cfg.Replicated,
		OSPageSize:              int64(platform.PageSize()),
	})
	if err != nil {
		b.log.Errorw("layout assembly failed", "error", err)
		return nil, err
	}

	b.log.Infow("layout emitted",
		"segments", result.Segments,
		"entriesPerSegment", result.EntriesPerSegment,
		"chunkSize", result.ChunkSize,
		"chunksPerSegment", result.ChunksPerSegment,
		"hashLookupSlotBytes", result.HashLookupSlotBytes,
	)
	return result, nil
}

func resolveChecksumEntries(mode options.ChecksumMode, persisted bool) bool {
	switch mode {
	case options.ChecksumYes:
		return true
	case options.ChecksumNo:
		return false
	default:
		return persisted
	}
}
