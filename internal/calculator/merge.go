package calculator

import (
	"math"
	"sort"
	"time"

	"MacroPrelude/internal/model"
)

// Merge aligns the named series column-wise by date and drops every row in
// which any column has no value. Columns are ordered by name.
func Merge(named map[string]model.Series) *model.Table {
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)

	index := make(map[int64]map[string]float64)
	var dates []time.Time
	for _, name := range names {
		for _, p := range named[name].Points {
			key := p.Date.UnixNano()
			row, ok := index[key]
			if !ok {
				row = make(map[string]float64, len(names))
				index[key] = row
				dates = append(dates, p.Date)
			}
			row[name] = p.Value
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	table := model.NewTable(names...)
	for _, d := range dates {
		table.Append(d, index[d.UnixNano()])
	}
	return table.DropNA()
}

// IsOne reports whether v equals 1, the in-recession flag of an indicator series.
func IsOne(v float64) bool { return !math.IsNaN(v) && v == 1 }
