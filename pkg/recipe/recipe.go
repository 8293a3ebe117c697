// Package recipe loads a latticemap builder's configuration from a TOML
// file using github.com/BurntSushi/toml, the same decoder the gvisor/ligolo
// lineage in this codebase's dependency tree uses for its own config files.
// A recipe is the on-disk counterpart of a pkg/options.Options record: it
// lets a previously-tuned layout be reopened with the exact same builder
// configuration, which spec.md's determinism property (P7) depends on.
package recipe

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/iamNilotpal/latticemap/pkg/options"
)

// Recipe is the TOML-serializable subset of pkg/options.Options: every field
// that has a concrete scalar value and isn't supplied by a collaborator
// (marshallers and samples are wired in code, not a config file).
type Recipe struct {
	Entries int64 `toml:"entries"`

	AverageKeySize   float64 `toml:"average_key_size"`
	ConstantKeySize  int64   `toml:"constant_key_size"`
	AverageValueSize float64 `toml:"average_value_size"`
	ConstantValueSize int64  `toml:"constant_value_size"`

	ActualChunkSize        int64 `toml:"actual_chunk_size"`
	ActualChunksPerSegment int64 `toml:"actual_chunks_per_segment"`
	EntriesPerSegment      int64 `toml:"entries_per_segment"`
	ActualSegments         int64 `toml:"actual_segments"`
	MinSegments            int64 `toml:"min_segments"`
	MaxChunksPerEntry      int64 `toml:"max_chunks_per_entry"`

	ValueAlignment int64  `toml:"value_alignment"`
	Replicated     bool   `toml:"replicated"`
	Checksums      string `toml:"checksums"`
	MaxBloatFactor float64 `toml:"max_bloat_factor"`

	AllowSegmentTiering         bool    `toml:"allow_segment_tiering"`
	NonTieredSegmentsPercentile float64 `toml:"non_tiered_segments_percentile"`

	Persisted bool `toml:"persisted"`
}

// Load reads and parses a recipe file.
func Load(path string) (*Recipe, error) {
	var r Recipe
	if _, err := toml.DecodeFile(path, &r); err != nil {
		return nil, fmt.Errorf("recipe: decoding %s: %w", path, err)
	}
	return &r, nil
}

// Save writes r to path as TOML, creating or truncating the file.
func Save(path string, r *Recipe) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("recipe: creating %s: %w", path, err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("recipe: encoding %s: %w", path, err)
	}
	return nil
}

// OptionFuncs converts a parsed Recipe into the functional options that
// reproduce it on a Builder. Numeric and string fields left at their zero
// value are omitted, so a recipe that doesn't mention e.g. actualSegments
// does not force it to 0. The boolean fields (replicated,
// allow_segment_tiering, persisted) are always applied, so a recipe that
// omits allow_segment_tiering disables tiering.
func (r *Recipe) OptionFuncs() []options.OptionFunc {
	var fns []options.OptionFunc

	if r.Entries > 0 {
		fns = append(fns, options.WithEntries(r.Entries))
	}

	switch {
	case r.ConstantKeySize > 0:
		fns = append(fns, options.WithConstantKeySize(r.ConstantKeySize))
	case r.AverageKeySize > 0:
		fns = append(fns, options.WithAverageKeySize(r.AverageKeySize))
	}

	switch {
	case r.ConstantValueSize > 0:
		fns = append(fns, options.WithConstantValueSize(r.ConstantValueSize))
	case r.AverageValueSize > 0:
		fns = append(fns, options.WithAverageValueSize(r.AverageValueSize))
	}

	if r.ActualChunkSize > 0 {
		fns = append(fns, options.WithActualChunkSize(r.ActualChunkSize))
	}
	if r.ActualChunksPerSegment > 0 {
		fns = append(fns, options.WithActualChunksPerSegment(r.ActualChunksPerSegment))
	}
	if r.EntriesPerSegment > 0 {
		fns = append(fns, options.WithEntriesPerSegment(r.EntriesPerSegment))
	}
	if r.ActualSegments > 0 {
		fns = append(fns, options.WithActualSegments(r.ActualSegments))
	}
	if r.MinSegments > 0 {
		fns = append(fns, options.WithMinSegments(r.MinSegments))
	}
	if r.MaxChunksPerEntry > 0 {
		fns = append(fns, options.WithMaxChunksPerEntry(r.MaxChunksPerEntry))
	}
	if r.ValueAlignment > 0 {
		fns = append(fns, options.WithValueAlignment(r.ValueAlignment))
	}
	if r.MaxBloatFactor > 0 {
		fns = append(fns, options.WithMaxBloatFactor(r.MaxBloatFactor))
	}
	if r.NonTieredSegmentsPercentile > 0 {
		fns = append(fns, options.WithNonTieredSegmentsPercentile(r.NonTieredSegmentsPercentile))
	}

	fns = append(fns,
		options.WithReplicated(r.Replicated),
		options.WithAllowSegmentTiering(r.AllowSegmentTiering),
		options.WithPersisted(r.Persisted),
	)

	if mode := options.ChecksumMode(r.Checksums); mode != "" {
		fns = append(fns, options.WithChecksums(mode))
	}

	return fns
}

// FromOptions snapshots cfg into a TOML-serializable Recipe. Every
// constant-sized key or value is written as a constant size, including one
// whose size is fixed by a statically-sized marshaller.
func FromOptions(cfg *options.ResolvedConfig) *Recipe {
	r := &Recipe{
		Entries:                     cfg.Entries,
		AverageKeySize:              cfg.AverageKeySize,
		AverageValueSize:            cfg.AverageValueSize,
		ActualChunkSize:             cfg.ActualChunkSize,
		ActualChunksPerSegment:      cfg.ActualChunksPerSegment,
		EntriesPerSegment:           cfg.EntriesPerSegment,
		ActualSegments:              cfg.ActualSegments,
		MinSegments:                 cfg.MinSegments,
		MaxChunksPerEntry:           cfg.MaxChunksPerEntry,
		ValueAlignment:              cfg.ValueAlignment,
		Replicated:                  cfg.Replicated,
		Checksums:                   string(cfg.Checksums),
		MaxBloatFactor:              cfg.MaxBloatFactor,
		AllowSegmentTiering:         cfg.AllowSegmentTiering,
		NonTieredSegmentsPercentile: cfg.NonTieredSegmentsPercentile,
		Persisted:                   cfg.WillBePersisted,
	}
	if cfg.ConstantKeySize {
		r.ConstantKeySize = int64(cfg.AverageKeySize)
		r.AverageKeySize = 0
	}
	if cfg.ConstantValueSize {
		r.ConstantValueSize = cfg.ConstantValueSz
		r.AverageValueSize = 0
	}
	return r
}
