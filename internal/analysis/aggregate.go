// Package analysis computes the dashboard's aggregates over dataset columns.
// Every function here drops missing values itself; callers pass raw column
// values straight from the dataset.
package analysis

import (
	"math"

	"countrydash/internal/dataset"

	"github.com/montanaflynn/stats"
)

// MinObservations is the smallest sample a histogram or correlation is
// computed over
const MinObservations = 2

// Valid returns the non-missing values in order
func Valid(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !dataset.IsMissing(v) {
			out = append(out, v)
		}
	}
	return out
}

// Paired returns the rows where both x and y are present
func Paired(x, y []float64) (xs, ys []float64) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	xs = make([]float64, 0, n)
	ys = make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if dataset.IsMissing(x[i]) || dataset.IsMissing(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	return xs, ys
}

// Sum adds the present values. ok is false when there are none, so an all
// missing column reads as "not available" rather than 0.
func Sum(values []float64) (float64, bool) {
	valid := Valid(values)
	if len(valid) == 0 {
		return 0, false
	}
	sum, err := stats.Sum(valid)
	if err != nil {
		return 0, false
	}
	return sum, true
}

// Mean averages the present values. ok is false when there are none.
func Mean(values []float64) (float64, bool) {
	valid := Valid(values)
	if len(valid) == 0 {
		return 0, false
	}
	mean, err := stats.Mean(valid)
	if err != nil {
		return 0, false
	}
	return mean, true
}

// Round rounds half away from zero to the given number of decimal places
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
