// Package hashtable supplies the slot-math collaborator spec.md §6/§4.7
// names but treats as a pure external dependency: given how many chunks and
// entries a segment holds, how many bits does an open-addressed hash-lookup
// slot need to address a chunk index (ValueBits) and to carry enough hash
// bits to distinguish entries (KeyBits), and how many bytes does a slot with
// that many bits actually occupy (EntrySize)?
//
// HashLookupSizer treats these as pure functions supplied by the hash-table
// implementation; this package is the default, concrete implementation used
// when no other is configured, analogous to Chronicle-Map's built-in
// hash-splitting / short-short entry packing.
package hashtable

import (
	"math/bits"

	"github.com/iamNilotpal/latticemap/internal/planconsts"
)

// SlotMath is the collaborator contract HashLookupSizer (C7) consumes.
type SlotMath interface {
	// ValueBits returns the number of bits needed to address any chunk index
	// in a segment holding chunksPerSegment chunks.
	ValueBits(chunksPerSegment int64) int

	// KeyBits returns the number of hash bits a slot should carry given the
	// segment's entry count and the value-field width already chosen.
	KeyBits(entriesPerSegment int64, valueBits int) int

	// EntrySize returns the slot width in bytes (4 or 8) needed to hold
	// keyBits+valueBits, or 0 if no supported width fits.
	EntrySize(keyBits, valueBits int) int
}

// Default is the package's reference SlotMath implementation.
type Default struct{}

var _ SlotMath = Default{}

// ValueBits is ceil(log2(chunksPerSegment + 1)): chunk indices run
// 0..chunksPerSegment inclusive (0 conventionally means "empty slot"), so the
// field must distinguish chunksPerSegment+1 values.
func (Default) ValueBits(chunksPerSegment int64) int {
	if chunksPerSegment < 0 {
		chunksPerSegment = 0
	}
	return bitsToRepresent(chunksPerSegment + 1)
}

// KeyBits is ceil(log2(entriesPerSegment)) plus a small cushion of extra
// hash bits (planconsts.ExtraHashLookupBits) to cut down on false-positive
// probe matches, minus whatever width ValueBits already claimed.
func (Default) KeyBits(entriesPerSegment int64, valueBits int) int {
	if entriesPerSegment < 1 {
		entriesPerSegment = 1
	}
	total := bitsToRepresent(entriesPerSegment) + planconsts.ExtraHashLookupBits
	keyBits := total - valueBits
	if keyBits < 0 {
		return 0
	}
	return keyBits
}

// EntrySize returns 4 if keyBits+valueBits fits a 32-bit slot, 8 if it needs
// (and fits) a 64-bit slot, or 0 if it fits in neither.
func (Default) EntrySize(keyBits, valueBits int) int {
	total := keyBits + valueBits
	switch {
	case total <= 32:
		return 4
	case total <= 64:
		return 8
	default:
		return 0
	}
}

// bitsToRepresent returns ceil(log2(n)) for n >= 1, i.e. the number of bits
// needed so that a field can take on n distinct values (0..n-1).
func bitsToRepresent(n int64) int {
	if n <= 1 {
		return 0
	}
	return bits.Len64(uint64(n - 1))
}
