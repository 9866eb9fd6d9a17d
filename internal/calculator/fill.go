package calculator

import (
	"errors"

	"MacroPrelude/internal/model"
)

// ErrEmptySeries is returned by operations that need at least one observation.
var ErrEmptySeries = errors.New("empty series")

// ForwardFill reindexes s over every calendar day between its first and last
// observation, inclusive. Each day takes the value of the most recent
// observation at or before it.
func ForwardFill(s model.Series) (model.Series, error) {
	if s.Len() == 0 {
		return model.Series{}, ErrEmptySeries
	}
	first, last := s.First(), s.Last()

	out := model.Series{Name: s.Name}
	src := 0
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		for src+1 < s.Len() && !s.Points[src+1].Date.After(d) {
			src++
		}
		out.Points = append(out.Points, model.Point{Date: d, Value: s.Points[src].Value})
	}
	return out, nil
}
