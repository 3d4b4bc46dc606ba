package analysis

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"countrydash/internal/errors"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultBins is the bucket count used by the pages and the API
const DefaultBins = 10

// Histogram is an equal-width histogram over the present values of a column
type Histogram struct {
	Counts []int
	// Edges has len(Counts)+1 entries, rounded to 2 decimals
	Edges        []float64
	Labels       []string
	TallestIdx   int
	TallestCount int
	TallestLower float64
	TallestUpper float64
}

// Total returns the number of observations binned
func (h Histogram) Total() int {
	total := 0
	for _, c := range h.Counts {
		total += c
	}
	return total
}

// ComputeHistogram bins the present values into equal-width buckets spanning
// [min, max]. Buckets are half-open except the last, which includes max. A
// constant sample is spread over [v-0.5, v+0.5]. Fewer than MinObservations
// present values yield an InsufficientData error.
func ComputeHistogram(values []float64, bins int) (Histogram, error) {
	if bins < 1 {
		return Histogram{}, errors.InvalidInput("histogram needs at least one bucket")
	}

	valid := Valid(values)
	if len(valid) < MinObservations {
		return Histogram{}, errors.InsufficientData("Not enough data to generate histogram")
	}
	sort.Float64s(valid)

	lo, err := stats.Min(valid)
	if err != nil {
		return Histogram{}, errors.Wrap(err, "histogram range")
	}
	hi, err := stats.Max(valid)
	if err != nil {
		return Histogram{}, errors.Wrap(err, "histogram range")
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	edges := floats.Span(make([]float64, bins+1), lo, hi)
	edges[0], edges[bins] = lo, hi

	// gonum's dividers are lower bounds with an exclusive final bound, so the
	// last divider is nudged past max to keep max in the final bucket.
	dividers := append([]float64(nil), edges...)
	dividers[bins] = nextUp(hi)
	raw := stat.Histogram(nil, dividers, valid, nil)

	h := Histogram{
		Counts: make([]int, bins),
		Edges:  make([]float64, bins+1),
		Labels: make([]string, bins),
	}
	for i, c := range raw {
		h.Counts[i] = int(c)
	}
	for i, e := range edges {
		h.Edges[i] = Round(e, 2)
	}
	for i := 0; i < bins; i++ {
		h.Labels[i] = FormatEdge(h.Edges[i]) + "-" + FormatEdge(h.Edges[i+1])
	}

	// first occurrence wins on ties
	for i, c := range h.Counts {
		if c > h.TallestCount {
			h.TallestIdx = i
			h.TallestCount = c
		}
	}
	h.TallestLower = h.Edges[h.TallestIdx]
	h.TallestUpper = h.Edges[h.TallestIdx+1]

	return h, nil
}

// FormatEdge prints a bucket edge the way the dashboard labels show it:
// shortest representation, always with a decimal point ("10.0", "7.25").
func FormatEdge(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func nextUp(v float64) float64 {
	return math.Nextafter(v, math.Inf(1))
}
