// Package layout implements LayoutAssembler (C8): it combines the other
// components' outputs into the immutable Layout record, resolves the
// remaining derived fields (max chunks per entry, tier budget, header size,
// checksum tri-state), and runs every structural invariant before a Layout
// is allowed to exist.
package layout

import (
	"math"

	"github.com/iamNilotpal/latticemap/internal/planconsts"
	"github.com/iamNilotpal/latticemap/pkg/errors"
)

// Checksums is the resolved tri-state for per-entry checksumming.
type Checksums bool

const (
	ChecksumsOff Checksums = false
	ChecksumsOn  Checksums = true
)

// Layout is the immutable, frozen output of the planning pipeline. Every
// field is resolved; nothing here requires further lookups to interpret.
type Layout struct {
	Segments          int64
	EntriesPerSegment int64
	ChunkSize         int64
	ChunksPerSegment  int64

	HashLookupValueBits int
	HashLookupKeyBits   int
	HashLookupSlotBytes int64

	SegmentHeaderBytes int64

	ValueAlignment        int64
	WorstAlignmentPadding int64
	SegmentInnerOffset    int64

	MaxChunksPerEntry int64
	MaxExtraTiers     int64

	Checksums  bool
	Replicated bool
}

// Assembly carries every resolved fact LayoutAssembler needs that isn't
// already captured by an earlier component's Result.
type Assembly struct {
	Segments          int64
	EntriesPerSegment int64
	ChunkSize         int64
	ChunksPerSegment  int64

	HashLookupValueBits int
	HashLookupKeyBits   int
	HashLookupSlotBytes int64

	ValueAlignment        int64
	WorstAlignmentPadding int64
	SegmentInnerOffset    int64

	ConstantEntrySize bool
	EntrySize         int64 // valid only when ConstantEntrySize

	ActualChunkSize int64 // 0 if unset; used to check invariant 6

	MaxChunksPerEntryOption int64 // 0/unset means "no user cap"
	AllowSegmentTiering     bool
	MaxBloatFactor          float64

	ChecksumMode    string // "yes", "no", "if-persisted"
	WillBePersisted bool

	Replicated bool

	OSPageSize int64
}

// Assemble implements spec.md §4.8: it resolves the derived fields and then
// runs every invariant in §3, returning a structured error on the first
// violation found.
func Assemble(a Assembly) (*Layout, error) {
	maxChunksPerEntry := resolveMaxChunksPerEntry(a)
	maxExtraTiers := resolveMaxExtraTiers(a)
	segmentHeaderBytes := resolveSegmentHeaderBytes(a.Segments, a.OSPageSize)
	checksums := resolveChecksums(a.ChecksumMode, a.WillBePersisted)

	l := &Layout{
		Segments:              a.Segments,
		EntriesPerSegment:     a.EntriesPerSegment,
		ChunkSize:             a.ChunkSize,
		ChunksPerSegment:      a.ChunksPerSegment,
		HashLookupValueBits:   a.HashLookupValueBits,
		HashLookupKeyBits:     a.HashLookupKeyBits,
		HashLookupSlotBytes:   a.HashLookupSlotBytes,
		SegmentHeaderBytes:    segmentHeaderBytes,
		ValueAlignment:        a.ValueAlignment,
		WorstAlignmentPadding: a.WorstAlignmentPadding,
		SegmentInnerOffset:    a.SegmentInnerOffset,
		MaxChunksPerEntry:     maxChunksPerEntry,
		MaxExtraTiers:         maxExtraTiers,
		Checksums:             checksums,
		Replicated:            a.Replicated,
	}

	if err := validate(l, a); err != nil {
		return nil, err
	}
	return l, nil
}

func resolveMaxChunksPerEntry(a Assembly) int64 {
	if a.ConstantEntrySize {
		return 1
	}

	cap := int64(math.MaxInt32) // 2^31 - 1
	if cap > a.ChunksPerSegment {
		cap = a.ChunksPerSegment
	}
	if a.MaxChunksPerEntryOption > 0 && a.MaxChunksPerEntryOption < cap {
		cap = a.MaxChunksPerEntryOption
	}
	return cap
}

func resolveMaxExtraTiers(a Assembly) int64 {
	if !a.AllowSegmentTiering {
		return 0
	}
	return int64(math.Floor((a.MaxBloatFactor-1)*float64(a.Segments))) + a.Segments
}

// resolveSegmentHeaderBytes implements the header-size ladder in §4.8. Wider
// headers reduce false sharing between segments when there are few of them;
// as segment count grows the per-segment header must shrink to keep total
// header overhead bounded.
func resolveSegmentHeaderBytes(segments, pageSize int64) int64 {
	switch {
	case segments*192 < 2*pageSize:
		return 192
	case segments*128 < 3*pageSize:
		return 128
	case segments <= 16384:
		return 64
	default:
		return 32
	}
}

func resolveChecksums(mode string, willBePersisted bool) bool {
	switch mode {
	case "yes":
		return true
	case "no":
		return false
	default: // "if-persisted"
		return willBePersisted
	}
}

// validate runs every invariant in spec.md §3 against the assembled Layout.
func validate(l *Layout, a Assembly) error {
	if !isPowerOfTwo(l.Segments) || l.Segments < 1 || l.Segments > planconsts.MaxSegments {
		return errors.NewTooManyEntriesError("layout", l.Segments, planconsts.MaxSegments).
			WithMessage("segments must be a power of two in [1, 2^30]")
	}

	if l.ChunksPerSegment != 0 && l.Segments != 0 {
		hi, lo := bits64Mul(l.ChunksPerSegment, l.Segments)
		if hi != 0 || lo < 0 {
			return errors.NewTooManyChunksError("layout", l.ChunksPerSegment, planconsts.MaxSegmentChunks).
				WithMessage("chunksPerSegment * segments overflows a signed 64-bit integer")
		}
	}

	if l.EntriesPerSegment > l.ChunksPerSegment {
		return errors.NewConflictError("entriesPerSegment", "entriesPerSegment must not exceed chunksPerSegment").
			WithProvided(l.EntriesPerSegment).
			WithExpected(l.ChunksPerSegment)
	}

	if int64(l.HashLookupValueBits+l.HashLookupKeyBits) > 8*l.HashLookupSlotBytes {
		return errors.NewTooManyChunksError("hashlookup", int64(l.HashLookupValueBits+l.HashLookupKeyBits), 8*l.HashLookupSlotBytes)
	}

	if l.HashLookupSlotBytes != 4 && l.HashLookupSlotBytes != 8 {
		return errors.NewLayoutError(nil, errors.ErrorCodeInternal, "hashLookupSlotBytes must be 4 or 8").
			WithComponent("hashlookup").WithComputed(l.HashLookupSlotBytes)
	}

	if a.ConstantEntrySize {
		if a.ActualChunkSize > 0 {
			return errors.NewConflictError("actualChunkSize", "actualChunkSize must not be set when both key and value are constant-sized").
				WithProvided(a.ActualChunkSize).
				WithExpected(a.EntrySize)
		}
		if l.ChunkSize != a.EntrySize {
			return errors.NewLayoutError(nil, errors.ErrorCodeInternal, "chunkSize must equal entrySize exactly for constant-sized entries").
				WithComponent("chunkplanner").WithComputed(l.ChunkSize).WithLimit(a.EntrySize)
		}
	}

	if l.MaxChunksPerEntry > l.ChunksPerSegment {
		return errors.NewConflictError("maxChunksPerEntry", "maxChunksPerEntry must not exceed chunksPerSegment").
			WithProvided(l.MaxChunksPerEntry).
			WithExpected(l.ChunksPerSegment)
	}

	if l.ValueAlignment > 1 && l.WorstAlignmentPadding >= l.ValueAlignment {
		return errors.NewLayoutError(nil, errors.ErrorCodeInternal, "worstAlignmentPadding must be less than valueAlignment").
			WithComponent("entrysizer").WithComputed(l.WorstAlignmentPadding).WithLimit(l.ValueAlignment)
	}

	return nil
}

func isPowerOfTwo(n int64) bool {
	return n > 0 && n&(n-1) == 0
}

// bits64Mul multiplies a and b in 32-bit halves to detect signed 64-bit
// overflow: hi is 1 when the product does not fit a signed 64-bit integer,
// otherwise hi is 0 and lo holds the product.
func bits64Mul(a, b int64) (hi, lo int64) {
	const mask32 = 0xFFFFFFFF
	au, bu := uint64(a), uint64(b)

	aLo, aHi := au&mask32, au>>32
	bLo, bHi := bu&mask32, bu>>32

	if aHi != 0 && bHi != 0 {
		return 1, 0
	}

	full := aHi*bLo + aLo*bHi
	if full > mask32 {
		return 1, 0
	}

	low := aLo * bLo
	combined := (full << 32) + low
	if combined>>63 != 0 {
		return 1, 0
	}
	return 0, int64(combined)
}
