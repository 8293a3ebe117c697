package errors

// ConfigError is a specialized error type for failures discovered while
// resolving the builder's configuration: out-of-range values, mutually
// exclusive options, sizes that cannot be determined, samples a marshaller
// cannot measure, or mutators called after the builder has been frozen.
type ConfigError struct {
	*baseError

	// field identifies which configuration option is at fault (e.g.
	// "averageKeySize", "valueAlignment").
	field string

	// rule names the constraint that was violated (e.g. "power_of_two",
	// "mutually_exclusive", "range").
	rule string

	// provided captures the value that was rejected.
	provided any

	// expected describes what would have been acceptable.
	expected any
}

// NewConfigError creates a new configuration error with the given cause,
// code, and message.
func NewConfigError(err error, code ErrorCode, msg string) *ConfigError {
	return &ConfigError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while preserving the ConfigError type.
func (ce *ConfigError) WithMessage(msg string) *ConfigError {
	ce.baseError.WithMessage(msg)
	return ce
}

// WithCode sets the error code while preserving the ConfigError type.
func (ce *ConfigError) WithCode(code ErrorCode) *ConfigError {
	ce.baseError.WithCode(code)
	return ce
}

// WithDetail adds contextual information while preserving the ConfigError type.
func (ce *ConfigError) WithDetail(key string, value any) *ConfigError {
	ce.baseError.WithDetail(key, value)
	return ce
}

// WithField records which configuration option failed.
func (ce *ConfigError) WithField(field string) *ConfigError {
	ce.field = field
	return ce
}

// WithRule records which constraint was violated.
func (ce *ConfigError) WithRule(rule string) *ConfigError {
	ce.rule = rule
	return ce
}

// WithProvided captures the rejected value.
func (ce *ConfigError) WithProvided(value any) *ConfigError {
	ce.provided = value
	return ce
}

// WithExpected describes what would have been acceptable.
func (ce *ConfigError) WithExpected(value any) *ConfigError {
	ce.expected = value
	return ce
}

// Field returns the configuration option that failed.
func (ce *ConfigError) Field() string { return ce.field }

// Rule returns the constraint that was violated.
func (ce *ConfigError) Rule() string { return ce.rule }

// Provided returns the value that was rejected.
func (ce *ConfigError) Provided() any { return ce.provided }

// Expected returns what would have been acceptable.
func (ce *ConfigError) Expected() any { return ce.expected }

// NewAlreadyFrozenError creates the error returned when a mutator is called
// on a Builder after Emit() has already run.
func NewAlreadyFrozenError(field string) *ConfigError {
	return NewConfigError(nil, ErrorCodeAlreadyFrozen, "builder is frozen; no further mutation allowed").
		WithField(field).
		WithRule("not_frozen")
}

// NewRangeError creates an InvalidConfig error for a value outside its
// acceptable range.
func NewRangeError(field string, provided, min, max any) *ConfigError {
	return NewConfigError(nil, ErrorCodeInvalidConfig, "configuration value is outside its acceptable range").
		WithField(field).
		WithRule("range").
		WithProvided(provided).
		WithDetail("min", min).
		WithDetail("max", max)
}

// NewConflictError creates a ConflictingConfig error between two or more
// mutually exclusive or incompletely specified options.
func NewConflictError(field, detail string) *ConfigError {
	return NewConfigError(nil, ErrorCodeConflictingConfig, "configuration options conflict").
		WithField(field).
		WithRule("mutually_exclusive").
		WithDetail("reason", detail)
}

// NewMissingSizeError creates a MissingSize error for a key or value whose
// serialized size cannot be determined.
func NewMissingSizeError(field string) *ConfigError {
	return NewConfigError(nil, ErrorCodeMissingSize, "serialized size could not be determined").
		WithField(field).
		WithRule("required")
}

// NewBadSampleError creates a BadSample error for a sample a marshaller
// could not measure.
func NewBadSampleError(field string, cause error, sample any) *ConfigError {
	return NewConfigError(cause, ErrorCodeBadSample, "marshaller could not measure the supplied sample").
		WithField(field).
		WithRule("measurable").
		WithProvided(sample)
}
