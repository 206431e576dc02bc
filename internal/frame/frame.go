// Package frame implements the tabular structure exchanged with the
// FinLab engine: rows indexed by date, columns by stock ID, serialized in
// the split orientation ({"columns":…,"index":…,"data":…}) so position
// matrices round-trip losslessly between caller and server.
package frame

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Value is a single cell. Split-orient JSON represents missing values as
// null, which Go's float64 cannot round-trip, so Value maps null to NaN
// on decode and NaN back to null on encode.
type Value float64

// UnmarshalJSON decodes a JSON number or null.
func (v *Value) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = Value(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*v = Value(f)
	return nil
}

// MarshalJSON encodes NaN as null and everything else as a number.
func (v Value) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(v)) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(v))
}

// Frame is a two-dimensional table of values with a string date index and
// string column labels. Data is row-major: Data[i][j] is the value at
// Index[i], Columns[j].
type Frame struct {
	Columns []string  `json:"columns"`
	Index   []string  `json:"index"`
	Data    [][]Value `json:"data"`
}

// Parse decodes a split-orient JSON document into a Frame, validating
// that every row has one value per column.
func Parse(raw string) (*Frame, error) {
	var f Frame
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return nil, fmt.Errorf("frame: parsing split JSON: %w", err)
	}
	if len(f.Data) != len(f.Index) {
		return nil, fmt.Errorf("frame: %d rows for %d index entries", len(f.Data), len(f.Index))
	}
	for i, row := range f.Data {
		if len(row) != len(f.Columns) {
			return nil, fmt.Errorf("frame: row %d has %d values for %d columns", i, len(row), len(f.Columns))
		}
	}
	return &f, nil
}

// MarshalSplit encodes the frame back into split-orient JSON.
func (f *Frame) MarshalSplit() (string, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("frame: encoding split JSON: %w", err)
	}
	return string(b), nil
}

// Rows returns the number of index entries.
func (f *Frame) Rows() int { return len(f.Index) }

// Cols returns the number of columns.
func (f *Frame) Cols() int { return len(f.Columns) }

// Shape renders the frame dimensions as "(rows, cols)".
func (f *Frame) Shape() string {
	return fmt.Sprintf("(%d, %d)", f.Rows(), f.Cols())
}

// DateRange renders the first and last index entries as "first to last",
// or "empty" for a frame with no rows.
func (f *Frame) DateRange() string {
	if len(f.Index) == 0 {
		return "empty"
	}
	return f.Index[0] + " to " + f.Index[len(f.Index)-1]
}

// FilterDates keeps rows whose index entry falls inside the inclusive
// [start, end] range. Empty bounds are open; ISO dates compare correctly
// as strings.
func (f *Frame) FilterDates(start, end string) *Frame {
	out := &Frame{Columns: f.Columns}
	for i, date := range f.Index {
		if start != "" && date < start {
			continue
		}
		if end != "" && date > end {
			continue
		}
		out.Index = append(out.Index, date)
		out.Data = append(out.Data, f.Data[i])
	}
	return out
}

// Select returns a frame containing only the named columns, in the given
// order. Unknown column names fail so a typo in a stock ID is visible
// instead of silently dropped.
func (f *Frame) Select(columns []string) (*Frame, error) {
	pos := make(map[string]int, len(f.Columns))
	for j, c := range f.Columns {
		pos[c] = j
	}

	indices := make([]int, 0, len(columns))
	for _, c := range columns {
		j, ok := pos[c]
		if !ok {
			return nil, fmt.Errorf("frame: unknown column %q", c)
		}
		indices = append(indices, j)
	}

	out := &Frame{Columns: append([]string(nil), columns...), Index: f.Index}
	for _, row := range f.Data {
		sub := make([]Value, len(indices))
		for k, j := range indices {
			sub[k] = row[j]
		}
		out.Data = append(out.Data, sub)
	}
	return out, nil
}

// Head returns the first n rows (or fewer).
func (f *Frame) Head(n int) *Frame {
	if n > len(f.Index) {
		n = len(f.Index)
	}
	return &Frame{Columns: f.Columns, Index: f.Index[:n], Data: f.Data[:n]}
}

// Tail returns the last n rows (or fewer).
func (f *Frame) Tail(n int) *Frame {
	if n > len(f.Index) {
		n = len(f.Index)
	}
	start := len(f.Index) - n
	return &Frame{Columns: f.Columns, Index: f.Index[start:], Data: f.Data[start:]}
}

// Render formats the frame as an aligned text table, one row per index
// entry. NaN cells render as "NaN"; values go through decimal so output
// is free of float artifacts.
func (f *Frame) Render() string {
	var b strings.Builder
	b.WriteString(strings.Join(append([]string{""}, f.Columns...), "\t"))
	b.WriteString("\n")
	for i, date := range f.Index {
		cells := make([]string, 0, len(f.Data[i])+1)
		cells = append(cells, date)
		for _, v := range f.Data[i] {
			cells = append(cells, FormatValue(v))
		}
		b.WriteString(strings.Join(cells, "\t"))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatValue renders one cell value with at most four decimal places.
func FormatValue(v Value) string {
	if math.IsNaN(float64(v)) {
		return "NaN"
	}
	return decimal.NewFromFloat(float64(v)).Round(4).String()
}
