package dataset

import (
	"bytes"
	"encoding/json"
)

// Row is one record with its cells in column order. It marshals as a JSON
// object whose keys keep that order.
type Row struct {
	Columns []string
	Values  []interface{}
}

// Get returns the value of a column, or nil when the row lacks it
func (r Row) Get(name string) interface{} {
	for i, c := range r.Columns {
		if c == name {
			return r.Values[i]
		}
	}
	return nil
}

// Len returns the number of cells
func (r Row) Len() int {
	return len(r.Columns)
}

// MarshalJSON writes the row as an object keyed by column name
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.Values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
