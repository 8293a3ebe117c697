package numberkit_test

import (
	"testing"

	"github.com/iamNilotpal/latticemap/internal/numberkit"
	"github.com/stretchr/testify/assert"
)

func Test_IsPowerOfTwo(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		n    int64
		want bool
	}{
		{"Zero", 0, false},
		{"Negative", -8, false},
		{"One", 1, true},
		{"Two", 2, true},
		{"ThirtyTwo", 32, true},
		{"NotPowerOfTwo", 33, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, numberkit.IsPowerOfTwo(tc.n))
		})
	}
}

func Test_NextPowerOfTwo(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		n, min   int64
		expected int64
	}{
		{"ExactPower", 16, 1, 16},
		{"RoundsUp", 17, 1, 32},
		{"MinDominates", 3, 128, 128},
		{"NonPositiveInputs", -5, 0, 1},
		{"One", 1, 1, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := numberkit.NextPowerOfTwo(tc.n, tc.min)
			assert.Equal(t, tc.expected, got)
			assert.True(t, numberkit.IsPowerOfTwo(got))
		})
	}
}

func Test_GCD(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		a, b int64
		want int64
	}{
		{"Coprime", 7, 13, 1},
		{"CommonFactor", 12, 18, 6},
		{"WithZero", 0, 5, 5},
		{"BothZero", 0, 0, 0},
		{"NegativeInputs", -12, 18, 6},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, numberkit.GCD(tc.a, tc.b))
		})
	}
}

func Test_AlignUp(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(8), numberkit.AlignUp(5, 8))
	assert.Equal(t, int64(8), numberkit.AlignUp(8, 8))
	assert.Equal(t, int64(16), numberkit.AlignUp(9, 8))
	assert.Equal(t, int64(0), numberkit.AlignUp(0, 8))
}

func Test_AlignUp_PanicsOnNonPowerOfTwoAlignment(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { numberkit.AlignUp(10, 3) })
}
