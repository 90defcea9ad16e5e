package scoring

import "math"

func isPositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// positive dereferences v when it holds a usable measurement.
func positive(v *float64) (float64, bool) {
	if v == nil || !isPositive(*v) {
		return 0, false
	}
	return *v, true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// roundScore rounds half away from zero and clamps into [0, 100].
func roundScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(clamp(v, 0, 100)))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
