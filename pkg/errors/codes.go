package errors

// ErrorCode represents a standardized way to categorize different types of
// planning failures, matching the taxonomy in spec.md §7.
type ErrorCode string

const (
	// ErrorCodeInvalidConfig covers out-of-range option values: non-positive
	// entries, an alignment that isn't a power of two, a percentile outside
	// (0.5, 1), a bloat factor outside [1, 1000].
	ErrorCodeInvalidConfig ErrorCode = "INVALID_CONFIG"

	// ErrorCodeConflictingConfig covers mutually-exclusive or incomplete
	// option combinations: setting an average/sample size on a statically
	// sized type, actualChunksPerSegment set without the other low-level
	// overrides, entriesPerSegment exceeding actualChunksPerSegment.
	ErrorCodeConflictingConfig ErrorCode = "CONFLICTING_CONFIG"

	// ErrorCodeMissingSize indicates the serialized size of a key or value
	// cannot be determined and no low-level override fully replaces it.
	ErrorCodeMissingSize ErrorCode = "MISSING_SIZE"

	// ErrorCodeTooManyEntries indicates the configuration demands more than
	// 2^30 segments, or more than 2^32 entries in a single segment.
	ErrorCodeTooManyEntries ErrorCode = "TOO_MANY_ENTRIES"

	// ErrorCodeTooManyChunks indicates entriesPerSegment * averageChunksPerEntry
	// exceeds 2^32.
	ErrorCodeTooManyChunks ErrorCode = "TOO_MANY_CHUNKS"

	// ErrorCodeBadSample indicates a marshaller could not measure a supplied
	// sample value.
	ErrorCodeBadSample ErrorCode = "BAD_SAMPLE"

	// ErrorCodeAlreadyFrozen indicates a mutator was called on a Builder
	// after Emit() had already been called.
	ErrorCodeAlreadyFrozen ErrorCode = "ALREADY_FROZEN"

	// ErrorCodeInternal represents unexpected failures that don't fit any
	// other category: bugs or invariant violations that should never occur
	// during normal operation.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)
