package errors

// LayoutError is a specialized error type for failures discovered while a
// resolved configuration is turned into a concrete Layout: the arithmetic
// works out, but the result would violate a hard structural limit (segment
// count, per-segment entry count, per-segment chunk count).
type LayoutError struct {
	*baseError

	// component names the planning stage that detected the limit (e.g.
	// "segmentplanner", "hashlookup").
	component string

	// computed is the value the pipeline arrived at.
	computed int64

	// limit is the hard ceiling that value exceeded.
	limit int64
}

// NewLayoutError creates a new layout error with the given cause, code, and message.
func NewLayoutError(err error, code ErrorCode, msg string) *LayoutError {
	return &LayoutError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while preserving the LayoutError type.
func (le *LayoutError) WithMessage(msg string) *LayoutError {
	le.baseError.WithMessage(msg)
	return le
}

// WithCode sets the error code while preserving the LayoutError type.
func (le *LayoutError) WithCode(code ErrorCode) *LayoutError {
	le.baseError.WithCode(code)
	return le
}

// WithDetail adds contextual information while preserving the LayoutError type.
func (le *LayoutError) WithDetail(key string, value any) *LayoutError {
	le.baseError.WithDetail(key, value)
	return le
}

// WithComponent records which planning stage raised the error.
func (le *LayoutError) WithComponent(component string) *LayoutError {
	le.component = component
	return le
}

// WithComputed records the value the pipeline computed.
func (le *LayoutError) WithComputed(v int64) *LayoutError {
	le.computed = v
	return le
}

// WithLimit records the hard ceiling that was exceeded.
func (le *LayoutError) WithLimit(v int64) *LayoutError {
	le.limit = v
	return le
}

// Component returns the planning stage that raised the error.
func (le *LayoutError) Component() string { return le.component }

// Computed returns the value the pipeline computed.
func (le *LayoutError) Computed() int64 { return le.computed }

// Limit returns the hard ceiling that was exceeded.
func (le *LayoutError) Limit() int64 { return le.limit }

// NewTooManyEntriesError creates the error returned when a configuration
// would require more segments or per-segment entries than the hard ceiling
// allows.
func NewTooManyEntriesError(component string, computed, limit int64) *LayoutError {
	return NewLayoutError(nil, ErrorCodeTooManyEntries, "configuration requires more entries than a single segment or the whole map can address").
		WithComponent(component).
		WithComputed(computed).
		WithLimit(limit)
}

// NewTooManyChunksError creates the error returned when entriesPerSegment *
// averageChunksPerEntry would exceed the per-segment chunk ceiling.
func NewTooManyChunksError(component string, computed, limit int64) *LayoutError {
	return NewLayoutError(nil, ErrorCodeTooManyChunks, "configuration requires more chunks per segment than the hash-lookup slot can address").
		WithComponent(component).
		WithComputed(computed).
		WithLimit(limit)
}
