package deck

import (
	"math"

	"github.com/medusa-dj/djrogue/internal/rng"
)

// MaxRejections bounds the truncated-normal rejection loop.
const MaxRejections = 30

// TruncatedNormal samples an int from N(mean, std) truncated to [lo, hi] by rejection.
// For the small stds used here this is fast in practice; if every attempt misses,
// or std <= 0, the clamped rounded mean is returned. The result always lies in [lo, hi].
func TruncatedNormal(src rng.Source, mean, std float64, lo, hi int) int {
	if std <= 0 {
		return clampedMean(mean, lo, hi)
	}
	for range MaxRejections {
		x := rng.Gauss(src, mean, std)
		if float64(lo) <= x && x <= float64(hi) {
			return int(math.RoundToEven(x))
		}
	}
	return clampedMean(mean, lo, hi)
}

func clampedMean(mean float64, lo, hi int) int {
	m := math.RoundToEven(mean)
	// guard the int conversion against NaN/inf means
	if math.IsNaN(m) {
		return lo
	}
	if m < float64(lo) {
		return lo
	}
	if m > float64(hi) {
		return hi
	}
	return int(m)
}
