package segment

import (
	"math"
	"testing"

	"github.com/expendo-io/expendo/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBottomUpValidation tests input validation.
func TestBottomUpValidation(t *testing.T) {
	tests := []struct {
		name      string
		y         []float64
		minLength int
		lambda    float64
	}{
		{name: "empty series", y: nil, minLength: 3, lambda: 1},
		{name: "zero min length", y: []float64{1, 2, 3}, minLength: 0, lambda: 1},
		{name: "negative lambda", y: []float64{1, 2, 3}, minLength: 1, lambda: -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BottomUp(tt.y, tt.minLength, tt.lambda)
			require.Error(t, err)
		})
	}
}

// TestBottomUpFlatSeries verifies that a constant series collapses into a
// single flat segment with the zero-crossing sentinel.
func TestBottomUpFlatSeries(t *testing.T) {
	y := []float64{5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5}
	lambda, err := Lambda(y, 5, NoiseDifferences)
	require.NoError(t, err)

	segments, err := BottomUp(y, 3, lambda)
	require.NoError(t, err)
	require.Len(t, segments, 1)

	seg := segments[0]
	assert.Equal(t, 0, seg.X1)
	assert.Equal(t, 11, seg.X2)
	assert.InDelta(t, 0, seg.A, 1e-9)
	assert.InDelta(t, 5, seg.B, 1e-9)
	assert.True(t, seg.Flat())
	assert.Equal(t, -1.0, seg.D0)
	assert.Equal(t, lambda, seg.Lambda)
}

// TestBottomUpTwoSlopes verifies that a clean rise-then-fall series splits at
// the trend break and recovers both slopes.
func TestBottomUpTwoSlopes(t *testing.T) {
	y := []float64{0, 1, 2, 3, 4, 5, 9, 8, 7, 6, 5, 4}
	lambda, err := Lambda(y, 5, NoiseDifferences)
	require.NoError(t, err)

	segments, err := BottomUp(y, 2, lambda)
	require.NoError(t, err)
	require.Len(t, segments, 2)

	rise := segments[0]
	assert.Equal(t, 0, rise.X1)
	assert.Equal(t, 5, rise.X2)
	assert.InDelta(t, 1, rise.A, 1e-9)
	assert.InDelta(t, 0, rise.B, 1e-9)
	assert.InDelta(t, 0, rise.Y1, 1e-9)
	assert.InDelta(t, 5, rise.Y2, 1e-9)

	fall := segments[1]
	assert.Equal(t, 6, fall.X1)
	assert.Equal(t, 11, fall.X2)
	assert.InDelta(t, -1, fall.A, 1e-9)
	assert.InDelta(t, 15, fall.B, 1e-9)
	// The falling line y = 15 - x crosses zero at index 15.
	assert.InDelta(t, 15, fall.D0, 1e-9)
	assert.False(t, fall.Flat())
}

// TestBottomUpChunking verifies initial chunk boundaries: the final chunk
// absorbs the remainder instead of staying short.
func TestBottomUpChunking(t *testing.T) {
	// Two incompatible slopes and no merge reward keep the initial pieces.
	y := []float64{0, 2, 4, 6, 8, 50, 44, 38, 32, 26, 20, 14}

	segments, err := BottomUp(y, 5, 0)
	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, 0, segments[0].X1)
	assert.Equal(t, 4, segments[0].X2)
	assert.Equal(t, 5, segments[1].X1)
	assert.Equal(t, 11, segments[1].X2)
}

// TestBottomUpMinLengthLongerThanSeries verifies the single-chunk fallback.
func TestBottomUpMinLengthLongerThanSeries(t *testing.T) {
	y := []float64{3, 1, 2}
	segments, err := BottomUp(y, 10, 0)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, 0, segments[0].X1)
	assert.Equal(t, 2, segments[0].X2)
}

// TestBottomUpCoverage verifies that segments tile the series without gaps
// for a range of penalties.
func TestBottomUpCoverage(t *testing.T) {
	y := noisyTrend(60)

	for _, c := range []float64{0, 2, 5, 8} {
		lambda, err := Lambda(y, c, NoiseDifferences)
		require.NoError(t, err)
		segments, err := BottomUp(y, 3, lambda)
		require.NoError(t, err)
		require.NotEmpty(t, segments)

		assert.Equal(t, 0, segments[0].X1)
		assert.Equal(t, len(y)-1, segments[len(segments)-1].X2)
		for i := 1; i < len(segments); i++ {
			assert.Equal(t, segments[i-1].X2+1, segments[i].X1, "gap before segment %d", i)
		}
	}
}

// TestBottomUpPenaltyMonotonicity verifies that raising the confidence
// multiplier never increases the number of segments.
func TestBottomUpPenaltyMonotonicity(t *testing.T) {
	y := noisyTrend(80)

	var counts []int
	for _, c := range []float64{2, 5, 8} {
		lambda, err := Lambda(y, c, NoiseDifferences)
		require.NoError(t, err)
		segments, err := BottomUp(y, 3, lambda)
		require.NoError(t, err)
		counts = append(counts, len(segments))
	}

	assert.GreaterOrEqual(t, counts[0], counts[1])
	assert.GreaterOrEqual(t, counts[1], counts[2])
	assert.GreaterOrEqual(t, counts[2], 1)
}

// TestBottomUpDeterminism verifies that repeated runs produce identical
// segmentations.
func TestBottomUpDeterminism(t *testing.T) {
	y := noisyTrend(50)
	lambda, err := Lambda(y, 5, NoiseResiduals)
	require.NoError(t, err)

	first, err := BottomUp(y, 3, lambda)
	require.NoError(t, err)
	second, err := BottomUp(y, 3, lambda)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// noisyTrend builds a deterministic two-slope series with sinusoidal noise,
// standing in for a real burn-down with day-to-day jitter.
func noisyTrend(n int) []float64 {
	y := make([]float64, n)
	for i := range y {
		base := 100.0 - 0.5*float64(i)
		if i > n/2 {
			base = 100.0 - 0.5*float64(n/2) - 2.0*float64(i-n/2)
		}
		y[i] = base + 1.5*math.Sin(float64(i)*1.3)
	}
	return y
}

// TestSegmentHelpers tests the segment accessors.
func TestSegmentHelpers(t *testing.T) {
	seg := schema.Segment{X1: 3, X2: 8, A: -2, B: 10, D0: 5}
	assert.Equal(t, 6, seg.Length())
	assert.False(t, seg.Flat())

	flat := schema.Segment{X1: 0, X2: 4, A: 0, D0: -1}
	assert.True(t, flat.Flat())
}
