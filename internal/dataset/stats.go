package dataset

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// meanOf is sum/count; absent on an empty input.
func meanOf(sum float64, count int) (float64, bool) {
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// sampleStd is the n-1 standard deviation; absent below two values.
func sampleStd(xs []float64) (float64, bool) {
	if len(xs) < 2 {
		return 0, false
	}
	return stat.StdDev(xs, nil), true
}

// medianOf sorts xs in place and returns the middle value, averaging the two
// middle values for an even count.
func medianOf(xs []float64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	sort.Float64s(xs)
	mid := len(xs) / 2
	if len(xs)%2 == 0 {
		return (xs[mid-1] + xs[mid]) / 2, true
	}
	return xs[mid], true
}

// nanMin and nanMax skip NaN operands, returning NaN only when every value is NaN.
func nanMin(xs []float64) (float64, bool) {
	return reduceIgnoringNaN(xs, math.Min)
}

func nanMax(xs []float64) (float64, bool) {
	return reduceIgnoringNaN(xs, math.Max)
}

func reduceIgnoringNaN(xs []float64, pick func(a, b float64) float64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	acc := xs[0]
	for _, x := range xs[1:] {
		switch {
		case math.IsNaN(x):
		case math.IsNaN(acc):
			acc = x
		default:
			acc = pick(acc, x)
		}
	}
	return acc, true
}

func toFloats(xs []int64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}
