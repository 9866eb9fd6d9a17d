package collector

import (
	"context"
	"fmt"
	"time"

	"MacroPrelude/internal/model"
)

// MockSource returns fixed tables for development and testing.
type MockSource struct {
	Tables map[string]*model.Table
	Err    error
	Calls  []string
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Fetch(_ context.Context, symbol string, start, end time.Time) (*model.Table, error) {
	m.Calls = append(m.Calls, symbol)
	if m.Err != nil {
		return nil, m.Err
	}
	t, ok := m.Tables[symbol]
	if !ok {
		return nil, fmt.Errorf("mock %s: %w", symbol, ErrNotFound)
	}
	out := model.NewTable(t.Columns...)
	for i, d := range t.Dates {
		if d.Before(start) || d.After(end) {
			continue
		}
		row := make(map[string]float64, len(t.Columns))
		for _, c := range t.Columns {
			row[c] = t.Values[c][i]
		}
		out.Append(d, row)
	}
	return out, nil
}

// SeriesTable builds a one-column table named after the symbol.
func SeriesTable(symbol string, points ...model.Point) *model.Table {
	t := model.NewTable(symbol)
	for _, p := range points {
		t.Append(p.Date, map[string]float64{symbol: p.Value})
	}
	return t
}
