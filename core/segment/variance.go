package segment

import "fmt"

// varianceFloor guarantees a strictly positive noise estimate so the
// segmentation penalty never collapses to zero on clean data.
const varianceFloor = 1e-10

// NoiseMethod selects how the residual noise variance of a series is
// estimated before computing the segmentation penalty.
type NoiseMethod int

const (
	// NoiseResiduals fits a single global trend line and takes the sample
	// variance of its residuals. Overestimates noise when the series has
	// genuine trend breaks.
	NoiseResiduals NoiseMethod = iota
	// NoiseDifferences takes the sample variance of first differences,
	// halved because differencing doubles the noise variance of an
	// i.i.d. process.
	NoiseDifferences
	// NoiseResidualsSmooth subtracts a centered moving average and takes
	// the sample variance of what remains.
	NoiseResidualsSmooth
)

// noiseMethodNames maps NoiseMethod to their string representations.
var noiseMethodNames = map[NoiseMethod]string{
	NoiseResiduals:       "residuals",
	NoiseDifferences:     "differences",
	NoiseResidualsSmooth: "residuals_smooth",
}

// String returns the string representation of the noise method.
func (m NoiseMethod) String() string {
	if name, exists := noiseMethodNames[m]; exists {
		return name
	}
	return "unknown"
}

// NoiseMethodFromString returns the NoiseMethod for a given string tag.
// "smooth" is accepted as shorthand for "residuals_smooth". Unknown tags
// produce an error naming the accepted set.
func NoiseMethodFromString(name string) (NoiseMethod, error) {
	switch name {
	case "residuals":
		return NoiseResiduals, nil
	case "differences":
		return NoiseDifferences, nil
	case "residuals_smooth", "smooth":
		return NoiseResidualsSmooth, nil
	default:
		return 0, fmt.Errorf("unknown noise method %q: must be residuals, differences, or residuals_smooth", name)
	}
}

// sampleVariance returns the unbiased (n-1) sample variance of data, or zero
// for fewer than two values.
func sampleVariance(data []float64) float64 {
	n := len(data)
	if n <= 1 {
		return 0
	}
	var sum float64
	for _, v := range data {
		sum += v
	}
	mean := sum / float64(n)
	var ss float64
	for _, v := range data {
		d := v - mean
		ss += d * d
	}
	return ss / float64(n-1)
}

// movingAverage returns the centered moving average of y with the given
// window size. Windows shrink asymmetrically at the series edges instead of
// padding. A window of one, or a series no longer than the window, is
// returned unchanged.
func movingAverage(y []float64, window int) []float64 {
	n := len(y)
	if window <= 1 || n <= window {
		out := make([]float64, n)
		copy(out, y)
		return out
	}
	half := window / 2
	out := make([]float64, n)
	for i := range y {
		lo := max(0, i-half)
		hi := min(n, i+half+1)
		var sum float64
		for j := lo; j < hi; j++ {
			sum += y[j]
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}

// EstimateNoiseVariance estimates the variance of the residual noise in a
// series. Series of length <= 1 have no measurable noise and yield zero;
// anything longer is floored at 1e-10 so the derived penalty stays positive.
func EstimateNoiseVariance(y []float64, method NoiseMethod) (float64, error) {
	n := len(y)
	if n <= 1 {
		return 0, nil
	}

	var variance float64
	switch method {
	case NoiseResiduals:
		a, b := NewStats(y, 0, n-1).Fit()
		residuals := make([]float64, n)
		for i, v := range y {
			residuals[i] = v - (a*float64(i) + b)
		}
		variance = sampleVariance(residuals)

	case NoiseDifferences:
		diffs := make([]float64, n-1)
		for i := 1; i < n; i++ {
			diffs[i-1] = y[i] - y[i-1]
		}
		variance = sampleVariance(diffs) / 2

	case NoiseResidualsSmooth:
		window := max(3, min(10, n/10))
		if window%2 == 0 {
			window++
		}
		smoothed := movingAverage(y, window)
		residuals := make([]float64, n)
		for i, v := range y {
			residuals[i] = v - smoothed[i]
		}
		variance = sampleVariance(residuals)

	default:
		return 0, fmt.Errorf("unknown noise method %d: must be residuals, differences, or residuals_smooth", method)
	}

	return max(variance, varianceFloor), nil
}

// Lambda computes the segmentation penalty as c times the estimated noise
// variance of the series. The multiplier c is typically 3-10; higher values
// favor fewer, longer segments.
func Lambda(y []float64, c float64, method NoiseMethod) (float64, error) {
	variance, err := EstimateNoiseVariance(y, method)
	if err != nil {
		return 0, err
	}
	return c * variance, nil
}
