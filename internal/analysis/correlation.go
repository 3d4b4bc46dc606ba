package analysis

import (
	"math"

	"countrydash/internal/dataset"

	"gonum.org/v1/gonum/stat"
)

// DemographicVariables are the columns of the fixed correlation matrix
var DemographicVariables = []string{"Birthrate", "Deathrate", "Infant mortality", "GDP"}

// Correlation returns the Pearson coefficient over rows where both values are
// present. ok is false when fewer than MinObservations pairs exist or either
// side has zero variance.
func Correlation(x, y []float64) (float64, bool) {
	xs, ys := Paired(x, y)
	if len(xs) < MinObservations {
		return 0, false
	}
	if constant(xs) || constant(ys) {
		return 0, false
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	// floating point noise can push |r| a hair past 1
	return math.Max(-1, math.Min(1, r)), true
}

func constant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

// Matrix is a square correlation matrix. Values[i][j] is nil when the
// coefficient between Variables[i] and Variables[j] is undefined.
type Matrix struct {
	Variables []string
	Values    [][]*float64
}

// Get returns the cell for a pair of variables
func (m Matrix) Get(row, col string) *float64 {
	i, j := indexOf(m.Variables, row), indexOf(m.Variables, col)
	if i < 0 || j < 0 {
		return nil
	}
	return m.Values[i][j]
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

// CorrelationMatrix computes pairwise correlations between the named columns,
// rounded to the given decimal places. Columns absent from the dataset or not
// numeric produce nil cells, so the matrix is always len(variables) square.
func CorrelationMatrix(ds *dataset.Dataset, variables []string, places int) Matrix {
	columns := make([][]float64, len(variables))
	present := make([]bool, len(variables))
	for i, name := range variables {
		if col, ok := ds.Column(name); ok {
			columns[i] = col.Values
			present[i] = true
		}
	}

	m := Matrix{
		Variables: append([]string(nil), variables...),
		Values:    make([][]*float64, len(variables)),
	}
	for i := range variables {
		m.Values[i] = make([]*float64, len(variables))
	}

	for i := range variables {
		for j := i; j < len(variables); j++ {
			if !present[i] || !present[j] {
				continue
			}
			r, ok := Correlation(columns[i], columns[j])
			if !ok {
				continue
			}
			r = Round(r, places)
			upper, lower := r, r
			m.Values[i][j] = &upper
			m.Values[j][i] = &lower
		}
	}
	return m
}
