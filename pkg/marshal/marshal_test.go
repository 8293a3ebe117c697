package marshal_test

import (
	"testing"

	"github.com/iamNilotpal/latticemap/pkg/marshal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_StaticSize(t *testing.T) {
	t.Parallel()

	m := marshal.Uint64Marshaller()
	assert.True(t, m.StaticallyKnown())
	assert.True(t, m.ConstantSizeMarshaller())

	size, ok := m.ConstantSize()
	require.True(t, ok)
	assert.Equal(t, 8, size)

	measured, err := m.SerializationSize(uint64(123))
	require.NoError(t, err)
	assert.Equal(t, 8, measured)
}

func Test_RuntimeConstantSize(t *testing.T) {
	t.Parallel()

	m := marshal.NewRuntimeConstantSize(20)
	assert.False(t, m.StaticallyKnown())
	assert.True(t, m.ConstantSizeMarshaller())

	size, ok := m.ConstantSize()
	require.True(t, ok)
	assert.Equal(t, 20, size)
}

func Test_BytesMarshaller(t *testing.T) {
	t.Parallel()

	m := marshal.BytesMarshaller()
	assert.False(t, m.StaticallyKnown())
	assert.False(t, m.ConstantSizeMarshaller())

	size, err := m.SerializationSize([]byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 3, size)

	_, err = m.SerializationSize("not bytes")
	assert.ErrorIs(t, err, marshal.ErrBadSample)
}

func Test_StringMarshaller(t *testing.T) {
	t.Parallel()

	m := marshal.StringMarshaller()
	size, err := m.SerializationSize("hello")
	require.NoError(t, err)
	assert.Equal(t, 5, size)

	_, err = m.SerializationSize(42)
	assert.ErrorIs(t, err, marshal.ErrBadSample)
}

func Test_VarintLengthCodec_StoringLength(t *testing.T) {
	t.Parallel()

	codec := marshal.VarintLengthCodec()

	cases := []struct {
		n    int64
		want int
	}{
		{0, 1},
		{127, 1},
		{128, 2},
		{16383, 2},
		{16384, 3},
		{-5, 1},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, codec.StoringLength(tc.n), "n=%d", tc.n)
	}
}
