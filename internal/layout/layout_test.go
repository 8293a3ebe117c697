package layout_test

import (
	"testing"

	"github.com/iamNilotpal/latticemap/internal/layout"
	"github.com/iamNilotpal/latticemap/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAssembly() layout.Assembly {
	return layout.Assembly{
		Segments:                16,
		EntriesPerSegment:       64,
		ChunkSize:               32,
		ChunksPerSegment:        128,
		HashLookupValueBits:     8,
		HashLookupKeyBits:       8,
		HashLookupSlotBytes:     4,
		ValueAlignment:          8,
		WorstAlignmentPadding:   3,
		SegmentInnerOffset:      0,
		ConstantEntrySize:       false,
		MaxChunksPerEntryOption: 0,
		AllowSegmentTiering:     true,
		MaxBloatFactor:          1.5,
		ChecksumMode:            "if-persisted",
		WillBePersisted:         true,
		Replicated:              false,
		OSPageSize:              4096,
	}
}

func Test_Assemble_HappyPath(t *testing.T) {
	t.Parallel()

	l, err := layout.Assemble(validAssembly())
	require.NoError(t, err)

	assert.Equal(t, int64(16), l.Segments)
	assert.Equal(t, int64(192), l.SegmentHeaderBytes)
	assert.True(t, l.Checksums) // "if-persisted" + WillBePersisted=true
	assert.Equal(t, int64(128), l.MaxChunksPerEntry)
	assert.Greater(t, l.MaxExtraTiers, int64(0))
}

func Test_Assemble_ChecksumModes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		mode       string
		persisted  bool
		wantResult bool
	}{
		{"yes", false, true},
		{"no", true, false},
		{"if-persisted", true, true},
		{"if-persisted", false, false},
	}

	for _, tc := range cases {
		a := validAssembly()
		a.ChecksumMode = tc.mode
		a.WillBePersisted = tc.persisted
		l, err := layout.Assemble(a)
		require.NoError(t, err)
		assert.Equal(t, tc.wantResult, l.Checksums, "mode=%s persisted=%v", tc.mode, tc.persisted)
	}
}

func Test_Assemble_ConstantEntrySize_SetsMaxChunksPerEntryToOne(t *testing.T) {
	t.Parallel()

	a := validAssembly()
	a.ConstantEntrySize = true
	a.EntrySize = 32
	a.ChunkSize = 32

	l, err := layout.Assemble(a)
	require.NoError(t, err)
	assert.Equal(t, int64(1), l.MaxChunksPerEntry)
}

func Test_Assemble_ConstantEntrySize_RejectsActualChunkSizeOverride(t *testing.T) {
	t.Parallel()

	a := validAssembly()
	a.ConstantEntrySize = true
	a.EntrySize = 32
	a.ChunkSize = 32
	a.ActualChunkSize = 64

	_, err := layout.Assemble(a)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorCodeConflictingConfig, errors.GetErrorCode(err))
}

func Test_Assemble_ConstantEntrySize_RejectsChunkSizeMismatch(t *testing.T) {
	t.Parallel()

	a := validAssembly()
	a.ConstantEntrySize = true
	a.EntrySize = 32
	a.ChunkSize = 40

	_, err := layout.Assemble(a)
	require.Error(t, err)
}

func Test_Assemble_RejectsNonPowerOfTwoSegments(t *testing.T) {
	t.Parallel()

	a := validAssembly()
	a.Segments = 15

	_, err := layout.Assemble(a)
	require.Error(t, err)
}

func Test_Assemble_RejectsEntriesPerSegmentExceedingChunksPerSegment(t *testing.T) {
	t.Parallel()

	a := validAssembly()
	a.EntriesPerSegment = 200
	a.ChunksPerSegment = 128

	_, err := layout.Assemble(a)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorCodeConflictingConfig, errors.GetErrorCode(err))
}

func Test_Assemble_RejectsInvalidSlotWidth(t *testing.T) {
	t.Parallel()

	a := validAssembly()
	a.HashLookupSlotBytes = 6

	_, err := layout.Assemble(a)
	require.Error(t, err)
}

func Test_Assemble_RejectsOversizedHashLookupBitBudget(t *testing.T) {
	t.Parallel()

	a := validAssembly()
	a.HashLookupValueBits = 20
	a.HashLookupKeyBits = 20
	a.HashLookupSlotBytes = 4

	_, err := layout.Assemble(a)
	require.Error(t, err)
}

func Test_Assemble_RejectsWorstAlignmentPaddingAtOrAboveAlignment(t *testing.T) {
	t.Parallel()

	a := validAssembly()
	a.ValueAlignment = 8
	a.WorstAlignmentPadding = 8

	_, err := layout.Assemble(a)
	require.Error(t, err)
}

func Test_Assemble_MaxChunksPerEntryOption_ClampsToChunksPerSegment(t *testing.T) {
	t.Parallel()

	a := validAssembly()
	a.MaxChunksPerEntryOption = 5000
	a.ChunksPerSegment = 128

	l, err := layout.Assemble(a)
	require.NoError(t, err)
	assert.Equal(t, int64(128), l.MaxChunksPerEntry)
}

func Test_Assemble_MaxChunksPerEntryOption_HonoredWhenBelowChunksPerSegment(t *testing.T) {
	t.Parallel()

	a := validAssembly()
	a.MaxChunksPerEntryOption = 10
	a.ChunksPerSegment = 128

	l, err := layout.Assemble(a)
	require.NoError(t, err)
	assert.Equal(t, int64(10), l.MaxChunksPerEntry)
}

func Test_Assemble_SegmentHeaderLadder(t *testing.T) {
	t.Parallel()

	cases := []struct {
		segments int64
		want     int64
	}{
		{16, 192},
		{1 << 20, 32},
	}

	for _, tc := range cases {
		a := validAssembly()
		a.Segments = tc.segments
		a.MaxChunksPerEntryOption = 0
		l, err := layout.Assemble(a)
		require.NoError(t, err)
		assert.Equal(t, tc.want, l.SegmentHeaderBytes, "segments=%d", tc.segments)
	}
}

func Test_Assemble_NoTiering_ZeroExtraTiers(t *testing.T) {
	t.Parallel()

	a := validAssembly()
	a.AllowSegmentTiering = false

	l, err := layout.Assemble(a)
	require.NoError(t, err)
	assert.Equal(t, int64(0), l.MaxExtraTiers)
}
