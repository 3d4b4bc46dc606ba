// Package dataset holds the country table the dashboard is built on.
//
// A Dataset is created once at startup and is read-only afterwards, so it is
// safe to share between request goroutines without locking. Numeric cells that
// could not be parsed, or that were infinite, are stored as missing (NaN) and
// are never coerced to zero.
package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// NumericColumns is the fixed set of columns coerced to numbers on load
var NumericColumns = []string{
	"Population", "Area", "Pop. Density", "Coastline", "Net migration",
	"Infant mortality", "GDP", "Literacy", "Phones", "Arable", "Crops",
	"Other", "Climate", "Birthrate", "Deathrate", "Agriculture",
	"Industry", "Service",
}

// TextColumns always keep their raw text
var TextColumns = []string{"Country", "Region"}

// missingTokens are cell values read as missing in any column
var missingTokens = map[string]bool{
	"": true, "NA": true, "N/A": true, "n/a": true, "NaN": true, "nan": true,
	"-NaN": true, "-nan": true, "NULL": true, "null": true, "#N/A": true, "<NA>": true, "<nil>": true,
}

// Column is a read-only view of one numeric column. Missing cells are NaN.
type Column struct {
	Name   string
	Values []float64
}

// IsMissing reports whether v is the missing marker
func IsMissing(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// Len returns the number of rows, missing cells included
func (c Column) Len() int {
	return len(c.Values)
}

// ValidCount returns the number of non-missing cells
func (c Column) ValidCount() int {
	n := 0
	for _, v := range c.Values {
		if !IsMissing(v) {
			n++
		}
	}
	return n
}

// At returns the value of row i and whether it is present
func (c Column) At(i int) (float64, bool) {
	v := c.Values[i]
	if IsMissing(v) {
		return 0, false
	}
	return v, true
}

// Dataset is the in-memory country table
type Dataset struct {
	frame   dataframe.DataFrame
	names   []string
	index   map[string]int
	numeric map[string][]float64
	text    map[string][]*string
	rows    int
}

// Empty returns a dataset with no columns and no rows
func Empty() *Dataset {
	return &Dataset{
		index:   map[string]int{},
		numeric: map[string][]float64{},
		text:    map[string][]*string{},
	}
}

// FromRecords builds a dataset from raw records, header row first. Columns in
// numericColumns are coerced to float with unparsable cells becoming missing.
// Other columns are typed by detection: a column whose present values all
// parse as numbers is numeric as well, except the fixed text columns.
func FromRecords(records [][]string, numericColumns []string) (*Dataset, error) {
	if len(records) == 0 {
		return Empty(), nil
	}

	header := records[0]

	forced := make(map[string]series.Type, len(numericColumns)+len(TextColumns))
	for _, name := range numericColumns {
		forced[name] = series.Float
	}
	numeric := make(map[int]bool, len(numericColumns))
	for i, name := range header {
		if forced[name] == series.Float {
			numeric[i] = true
		}
	}
	body := normalizeMissing(records[1:], len(header), numeric)

	for _, name := range TextColumns {
		forced[name] = series.String
	}

	var frame dataframe.DataFrame
	if len(body) == 0 {
		frame = emptyFrame(header, forced)
	} else {
		all := make([][]string, 0, len(body)+1)
		all = append(all, header)
		all = append(all, body...)
		frame = dataframe.LoadRecords(all,
			dataframe.HasHeader(true),
			dataframe.DetectTypes(true),
			dataframe.DefaultType(series.String),
			dataframe.WithTypes(forced),
		)
	}
	if frame.Err != nil {
		return nil, frame.Err
	}

	return fromFrame(frame), nil
}

// emptyFrame builds a zero-row frame that keeps the header's columns
func emptyFrame(header []string, forced map[string]series.Type) dataframe.DataFrame {
	columns := make([]series.Series, 0, len(header))
	for _, name := range header {
		if forced[name] == series.Float {
			columns = append(columns, series.New([]float64{}, series.Float, name))
			continue
		}
		columns = append(columns, series.New([]string{}, series.String, name))
	}
	return dataframe.New(columns...)
}

// fromFrame caches typed column views. Infinite values become missing here.
func fromFrame(frame dataframe.DataFrame) *Dataset {
	ds := Empty()
	ds.frame = frame
	ds.names = frame.Names()
	ds.rows = frame.Nrow()

	for i, name := range ds.names {
		ds.index[name] = i
		col := frame.Col(name)
		switch col.Type() {
		case series.Float, series.Int:
			values := col.Float()
			for j, v := range values {
				if math.IsInf(v, 0) {
					values[j] = math.NaN()
				}
			}
			ds.numeric[name] = values
		default:
			cells := make([]*string, col.Len())
			for j := 0; j < col.Len(); j++ {
				elem := col.Elem(j)
				if elem.IsNA() {
					continue
				}
				value := elem.String()
				cells[j] = &value
			}
			ds.text[name] = cells
		}
	}
	return ds
}

// normalizeMissing squares rows to width and rewrites missing tokens to the
// frame's NA marker. Cells of the numeric columns are trimmed so padded
// numbers still parse.
func normalizeMissing(rows [][]string, width int, numeric map[int]bool) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		cleaned := make([]string, width)
		for j := range cleaned {
			var cell string
			if j < len(row) {
				cell = row[j]
			}
			if missingTokens[strings.TrimSpace(cell)] {
				cleaned[j] = "NaN"
				continue
			}
			if numeric[j] {
				cell = strings.TrimSpace(cell)
			}
			cleaned[j] = cell
		}
		out[i] = cleaned
	}
	return out
}

// IsEmpty reports whether the dataset has no columns
func (d *Dataset) IsEmpty() bool {
	return len(d.names) == 0
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	return d.rows
}

// Columns returns column names in file order
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.names...)
}

// HasColumn reports whether name is a column of the dataset
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// IsNumeric reports whether name is a numeric column
func (d *Dataset) IsNumeric(name string) bool {
	_, ok := d.numeric[name]
	return ok
}

// NumericColumns returns the numeric column names in file order
func (d *Dataset) NumericColumns() []string {
	var names []string
	for _, name := range d.names {
		if d.IsNumeric(name) {
			names = append(names, name)
		}
	}
	return names
}

// Column returns a copy of a numeric column. ok is false when the column is
// absent or not numeric.
func (d *Dataset) Column(name string) (Column, bool) {
	values, ok := d.numeric[name]
	if !ok {
		return Column{Name: name}, false
	}
	return Column{Name: name, Values: append([]float64(nil), values...)}, true
}

// Text returns the text of a cell, or nil when it is missing or the column is
// absent. Numeric cells are formatted.
func (d *Dataset) Text(name string, row int) *string {
	if cells, ok := d.text[name]; ok {
		return cells[row]
	}
	if values, ok := d.numeric[name]; ok && !IsMissing(values[row]) {
		s := strconv.FormatFloat(values[row], 'f', -1, 64)
		return &s
	}
	return nil
}

// Value returns the JSON-ready value of a cell: float64 for numeric cells,
// string for text cells and nil for missing ones.
func (d *Dataset) Value(name string, row int) interface{} {
	if values, ok := d.numeric[name]; ok {
		if IsMissing(values[row]) {
			return nil
		}
		return values[row]
	}
	if cells, ok := d.text[name]; ok && cells[row] != nil {
		return *cells[row]
	}
	return nil
}

// Record returns one row in column order
func (d *Dataset) Record(row int) Row {
	return d.Project(row, d.names)
}

// Project returns the named cells of one row, in the order given. Repeated
// names appear once.
func (d *Dataset) Project(row int, names []string) Row {
	r := Row{Columns: make([]string, 0, len(names)), Values: make([]interface{}, 0, len(names))}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		r.Columns = append(r.Columns, name)
		r.Values = append(r.Values, d.Value(name, row))
	}
	return r
}

// Records returns every row in file order
func (d *Dataset) Records() []Row {
	records := make([]Row, 0, d.rows)
	for i := 0; i < d.rows; i++ {
		records = append(records, d.Record(i))
	}
	return records
}

// Frame exposes the underlying dataframe for read-only inspection
func (d *Dataset) Frame() dataframe.DataFrame {
	return d.frame
}
