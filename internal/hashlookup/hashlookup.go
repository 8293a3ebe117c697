// Package hashlookup implements HashLookupSizer (C7): given a candidate
// chunks-per-segment and entries-per-segment, compute the hash-lookup slot's
// bit widths and byte width, deferring the actual bit-packing formulas to
// the pkg/hashtable collaborator.
package hashlookup

import "github.com/iamNilotpal/latticemap/pkg/hashtable"

// Result is HashLookupSizer's output for one (chunksPerSegment,
// entriesPerSegment) candidate.
type Result struct {
	ValueBits int
	KeyBits   int
	SlotBytes int64

	// Feasible is false when no supported slot width can hold
	// ValueBits+KeyBits, or the only width that fits is 8 bytes but the
	// platform doesn't guarantee aligned 64-bit atomicity.
	Feasible bool
}

// Compute implements spec.md §4.7.
func Compute(math hashtable.SlotMath, chunksPerSegment, entriesPerSegment int64, aligned64BitAtomic bool) Result {
	valueBits := math.ValueBits(chunksPerSegment)
	keyBits := math.KeyBits(entriesPerSegment, valueBits)
	slotBytes := math.EntrySize(keyBits, valueBits)

	if slotBytes == 0 {
		return Result{ValueBits: valueBits, KeyBits: keyBits, Feasible: false}
	}
	if slotBytes == 8 && !aligned64BitAtomic {
		return Result{ValueBits: valueBits, KeyBits: keyBits, SlotBytes: 8, Feasible: false}
	}

	return Result{
		ValueBits: valueBits,
		KeyBits:   keyBits,
		SlotBytes: int64(slotBytes),
		Feasible:  true,
	}
}

// MaxSlotBytes returns the widest slot width the planner is allowed to
// consider given the platform's atomicity guarantee.
func MaxSlotBytes(aligned64BitAtomic bool) int64 {
	if aligned64BitAtomic {
		return 8
	}
	return 4
}
