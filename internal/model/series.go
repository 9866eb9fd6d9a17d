package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrColumnNotFound is returned when a table has no column with the requested name.
var ErrColumnNotFound = errors.New("column not found")

// Point is a single dated observation. Missing values are NaN.
type Point struct {
	Date  time.Time
	Value float64
}

// Series is an ordered sequence of observations keyed by date.
// Dates are strictly increasing.
type Series struct {
	Name   string
	Points []Point
}

// Len returns the number of observations.
func (s Series) Len() int { return len(s.Points) }

// First returns the earliest observation date.
func (s Series) First() time.Time { return s.Points[0].Date }

// Last returns the latest observation date.
func (s Series) Last() time.Time { return s.Points[len(s.Points)-1].Date }

// Dates returns the observation dates in order.
func (s Series) Dates() []time.Time {
	dates := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		dates[i] = p.Date
	}
	return dates
}

// Values returns the observation values in order.
func (s Series) Values() []float64 {
	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		values[i] = p.Value
	}
	return values
}

// Where returns the observations whose value satisfies keep.
func (s Series) Where(keep func(float64) bool) Series {
	out := Series{Name: s.Name}
	for _, p := range s.Points {
		if keep(p.Value) {
			out.Points = append(out.Points, p)
		}
	}
	return out
}

// Table is a date-indexed set of equally long columns, as returned by a
// provider that serves several fields per date.
type Table struct {
	Dates   []time.Time
	Columns []string
	Values  map[string][]float64
}

// NewTable creates an empty table with the given column names.
func NewTable(columns ...string) *Table {
	t := &Table{
		Columns: columns,
		Values:  make(map[string][]float64, len(columns)),
	}
	for _, c := range columns {
		t.Values[c] = nil
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Dates) }

// Append adds a row. Columns missing from row are stored as NaN.
func (t *Table) Append(date time.Time, row map[string]float64) {
	t.Dates = append(t.Dates, date)
	for _, c := range t.Columns {
		v, ok := row[c]
		if !ok {
			v = math.NaN()
		}
		t.Values[c] = append(t.Values[c], v)
	}
}

// Column extracts one column as a series.
func (t *Table) Column(name string) (Series, error) {
	values, ok := t.Values[name]
	if !ok {
		return Series{}, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	s := Series{Name: name, Points: make([]Point, len(t.Dates))}
	for i, d := range t.Dates {
		s.Points[i] = Point{Date: d, Value: values[i]}
	}
	return s, nil
}

// DropNA returns a copy of the table without rows that hold a NaN in any column.
func (t *Table) DropNA() *Table {
	out := NewTable(t.Columns...)
	for i, d := range t.Dates {
		complete := true
		row := make(map[string]float64, len(t.Columns))
		for _, c := range t.Columns {
			v := t.Values[c][i]
			if math.IsNaN(v) {
				complete = false
				break
			}
			row[c] = v
		}
		if complete {
			out.Append(d, row)
		}
	}
	return out
}
