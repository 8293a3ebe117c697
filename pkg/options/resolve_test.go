package options_test

import (
	"testing"

	"github.com/iamNilotpal/latticemap/pkg/errors"
	"github.com/iamNilotpal/latticemap/pkg/marshal"
	"github.com/iamNilotpal/latticemap/pkg/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withBaseEntries(fns ...options.OptionFunc) []options.OptionFunc {
	base := []options.OptionFunc{
		options.WithEntries(1000),
		options.WithKeyMarshaller(marshal.Uint64Marshaller()),
		options.WithValueMarshaller(marshal.BytesMarshaller()),
		options.WithAverageValueSize(32),
	}
	return append(base, fns...)
}

func applyAll(fns []options.OptionFunc) *options.Options {
	o := options.NewDefaultOptions(true)
	for _, fn := range fns {
		fn(o)
	}
	return o
}

func Test_Resolve_HappyPath(t *testing.T) {
	t.Parallel()

	o := applyAll(withBaseEntries())
	cfg, err := options.Resolve(o)
	require.NoError(t, err)

	assert.Equal(t, int64(1000), cfg.Entries)
	assert.True(t, cfg.ConstantKeySize)
	assert.Equal(t, float64(8), cfg.AverageKeySize)
	assert.False(t, cfg.ConstantValueSize)
	assert.Equal(t, float64(32), cfg.AverageValueSize)
}

func Test_Resolve_RejectsNonPositiveEntries(t *testing.T) {
	t.Parallel()

	o := applyAll(withBaseEntries(options.WithEntries(0)))
	_, err := options.Resolve(o)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorCodeInvalidConfig, errors.GetErrorCode(err))
}

func Test_Resolve_RejectsNonPowerOfTwoAlignment(t *testing.T) {
	t.Parallel()

	o := applyAll(withBaseEntries(options.WithValueAlignment(3)))
	_, err := options.Resolve(o)
	require.Error(t, err)
}

func Test_Resolve_RejectsPercentileOutOfRange(t *testing.T) {
	t.Parallel()

	o := applyAll(withBaseEntries(options.WithNonTieredSegmentsPercentile(0.4)))
	_, err := options.Resolve(o)
	require.Error(t, err)

	o2 := applyAll(withBaseEntries(options.WithNonTieredSegmentsPercentile(1.0)))
	_, err = options.Resolve(o2)
	require.Error(t, err)
}

func Test_Resolve_RejectsBloatFactorOutOfRange(t *testing.T) {
	t.Parallel()

	o := applyAll(withBaseEntries(options.WithMaxBloatFactor(0.5)))
	_, err := options.Resolve(o)
	require.Error(t, err)
}

func Test_Resolve_RejectsStaticSizeConflict(t *testing.T) {
	t.Parallel()

	// KeyMarshaller is statically sized (uint64); declaring an average size
	// on top of it is a conflicting-config error.
	o := applyAll(withBaseEntries(options.WithAverageKeySize(16)))
	_, err := options.Resolve(o)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorCodeConflictingConfig, errors.GetErrorCode(err))
}

func Test_Resolve_RejectsActualChunksPerSegmentWithoutSiblings(t *testing.T) {
	t.Parallel()

	o := applyAll(withBaseEntries(options.WithActualChunksPerSegment(64)))
	_, err := options.Resolve(o)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorCodeConflictingConfig, errors.GetErrorCode(err))
}

func Test_Resolve_AcceptsActualChunksPerSegmentWithAllSiblings(t *testing.T) {
	t.Parallel()

	o := applyAll(withBaseEntries(
		options.WithActualChunksPerSegment(64),
		options.WithActualChunkSize(32),
		options.WithEntriesPerSegment(16),
		options.WithActualSegments(8),
	))
	_, err := options.Resolve(o)
	require.NoError(t, err)
}

func Test_Resolve_RejectsEntriesPerSegmentExceedingActualChunksPerSegment(t *testing.T) {
	t.Parallel()

	o := applyAll(withBaseEntries(
		options.WithActualChunksPerSegment(64),
		options.WithActualChunkSize(32),
		options.WithEntriesPerSegment(100),
		options.WithActualSegments(8),
	))
	_, err := options.Resolve(o)
	require.Error(t, err)
}

func Test_Resolve_VariableValueMissingSize(t *testing.T) {
	t.Parallel()

	o := options.NewDefaultOptions(true)
	options.WithEntries(1000)(o)
	options.WithKeyMarshaller(marshal.Uint64Marshaller())(o)
	options.WithValueMarshaller(marshal.BytesMarshaller())(o)
	// No average value size/sample/constant supplied: BytesMarshaller is
	// variable and not constant-sized, so resolution must fail.
	_, err := options.Resolve(o)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorCodeMissingSize, errors.GetErrorCode(err))
}

func Test_Resolve_ConstantValueSizeAssertion(t *testing.T) {
	t.Parallel()

	o := applyAll(withBaseEntries(
		options.WithValueMarshaller(marshal.BytesMarshaller()),
		options.WithConstantValueSize(20),
	))
	cfg, err := options.Resolve(o)
	require.NoError(t, err)
	assert.True(t, cfg.ConstantValueSize)
	assert.Equal(t, int64(20), cfg.ConstantValueSz)
}

func Test_Resolve_AverageValueSample_Measures(t *testing.T) {
	t.Parallel()

	o := options.NewDefaultOptions(true)
	options.WithEntries(1000)(o)
	options.WithKeyMarshaller(marshal.Uint64Marshaller())(o)
	options.WithValueMarshaller(marshal.BytesMarshaller())(o)
	options.WithAverageValue([]byte("hello world"))(o)

	cfg, err := options.Resolve(o)
	require.NoError(t, err)
	assert.Equal(t, float64(11), cfg.AverageValueSize)
	assert.False(t, cfg.ConstantValueSize)
}

func Test_Resolve_ChecksumModeDefaultsToIfPersisted(t *testing.T) {
	t.Parallel()

	o := applyAll(withBaseEntries())
	cfg, err := options.Resolve(o)
	require.NoError(t, err)
	assert.Equal(t, options.ChecksumIfPersisted, cfg.Checksums)
}

func Test_Clone_IsIndependentOfOriginal(t *testing.T) {
	t.Parallel()

	o := options.NewDefaultOptions(true)
	options.WithEntries(500)(o)

	clone := o.Clone()
	options.WithEntries(999)(clone)

	assert.Equal(t, int64(500), o.Entries)
	assert.Equal(t, int64(999), clone.Entries)
}
