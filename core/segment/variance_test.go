package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNoiseMethodFromString tests string to enum conversion.
func TestNoiseMethodFromString(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    NoiseMethod
		expectError bool
	}{
		{name: "residuals", input: "residuals", expected: NoiseResiduals},
		{name: "differences", input: "differences", expected: NoiseDifferences},
		{name: "residuals_smooth", input: "residuals_smooth", expected: NoiseResidualsSmooth},
		{name: "smooth shorthand", input: "smooth", expected: NoiseResidualsSmooth},
		{name: "unknown method", input: "wavelet", expectError: true},
		{name: "empty string", input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method, err := NoiseMethodFromString(tt.input)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, method)
		})
	}
}

// TestNoiseMethodString tests the string representations.
func TestNoiseMethodString(t *testing.T) {
	assert.Equal(t, "residuals", NoiseResiduals.String())
	assert.Equal(t, "differences", NoiseDifferences.String())
	assert.Equal(t, "residuals_smooth", NoiseResidualsSmooth.String())
	assert.Equal(t, "unknown", NoiseMethod(99).String())
}

// TestMovingAverage tests the centered moving average with edge truncation.
func TestMovingAverage(t *testing.T) {
	tests := []struct {
		name     string
		y        []float64
		window   int
		expected []float64
	}{
		{
			name:     "window three truncates at edges",
			y:        []float64{0, 1, 2, 3, 4},
			window:   3,
			expected: []float64{0.5, 1, 2, 3, 3.5},
		},
		{
			name:     "window one is identity",
			y:        []float64{5, 1, 4},
			window:   1,
			expected: []float64{5, 1, 4},
		},
		{
			name:     "series shorter than window is unchanged",
			y:        []float64{1, 2},
			window:   5,
			expected: []float64{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := movingAverage(tt.y, tt.window)
			require.Len(t, got, len(tt.expected))
			for i := range got {
				assert.InDelta(t, tt.expected[i], got[i], 1e-9, "index %d", i)
			}
		})
	}
}

// TestEstimateNoiseVariance tests the three estimators and the floor.
func TestEstimateNoiseVariance(t *testing.T) {
	cleanLine := make([]float64, 30)
	for i := range cleanLine {
		cleanLine[i] = 100 - 2*float64(i)
	}

	t.Run("short series has no noise", func(t *testing.T) {
		for _, y := range [][]float64{nil, {}, {5}} {
			v, err := EstimateNoiseVariance(y, NoiseResiduals)
			require.NoError(t, err)
			assert.Equal(t, 0.0, v)
		}
	})

	t.Run("clean line is floored, not zero", func(t *testing.T) {
		for _, method := range []NoiseMethod{NoiseResiduals, NoiseDifferences} {
			v, err := EstimateNoiseVariance(cleanLine, method)
			require.NoError(t, err)
			assert.Greater(t, v, 0.0, method.String())
			assert.LessOrEqual(t, v, 1e-9, method.String())
		}
		// The smoothing estimator sees small residuals at the series edges
		// where its window truncates, so a clean line is near zero, not at
		// the floor.
		v, err := EstimateNoiseVariance(cleanLine, NoiseResidualsSmooth)
		require.NoError(t, err)
		assert.Greater(t, v, 0.0)
		assert.Less(t, v, 0.5)
	})

	t.Run("alternating noise registers in all methods", func(t *testing.T) {
		noisy := make([]float64, 30)
		for i := range noisy {
			noisy[i] = 100 - 2*float64(i)
			if i%2 == 0 {
				noisy[i] += 3
			} else {
				noisy[i] -= 3
			}
		}
		for _, method := range []NoiseMethod{NoiseResiduals, NoiseDifferences, NoiseResidualsSmooth} {
			v, err := EstimateNoiseVariance(noisy, method)
			require.NoError(t, err)
			assert.Greater(t, v, 1.0, method.String())
		}
	})

	t.Run("differences ignores trend breaks better than residuals", func(t *testing.T) {
		// A clean V-shape: the global-line residuals see the break as huge
		// noise, first differences see two steady slopes.
		v := make([]float64, 40)
		for i := range v {
			if i < 20 {
				v[i] = float64(i)
			} else {
				v[i] = float64(40 - i)
			}
		}
		resid, err := EstimateNoiseVariance(v, NoiseResiduals)
		require.NoError(t, err)
		diffs, err := EstimateNoiseVariance(v, NoiseDifferences)
		require.NoError(t, err)
		assert.Greater(t, resid, 10*diffs)
	})

	t.Run("unknown method errors", func(t *testing.T) {
		_, err := EstimateNoiseVariance([]float64{1, 2, 3}, NoiseMethod(99))
		require.Error(t, err)
	})
}

// TestLambda tests the penalty derivation from the noise variance.
func TestLambda(t *testing.T) {
	y := []float64{10, 12, 9, 13, 8, 14, 7, 15}

	t.Run("scales linearly with confidence", func(t *testing.T) {
		base, err := Lambda(y, 1, NoiseDifferences)
		require.NoError(t, err)
		for _, c := range []float64{2, 5, 8} {
			got, err := Lambda(y, c, NoiseDifferences)
			require.NoError(t, err)
			assert.InDelta(t, c*base, got, 1e-9)
		}
	})

	t.Run("propagates estimator errors", func(t *testing.T) {
		_, err := Lambda(y, 5, NoiseMethod(99))
		require.Error(t, err)
	})
}
