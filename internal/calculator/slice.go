package calculator

import (
	"fmt"
	"time"

	"MacroPrelude/internal/model"
)

var labelLayouts = []struct {
	layout string
	step   func(time.Time) time.Time
}{
	{"2006-01-02", func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }},
	{"2006-01", func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }},
	{"2006", func(t time.Time) time.Time { return t.AddDate(1, 0, 0) }},
}

// periodBounds resolves a partial date label into the half-open interval it
// covers, so "2001" spans the whole calendar year.
func periodBounds(label string) (start, end time.Time, err error) {
	for _, l := range labelLayouts {
		if len(label) != len(l.layout) {
			continue
		}
		t, err := time.Parse(l.layout, label)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse date label %q: %w", label, err)
		}
		return t, l.step(t), nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("unsupported date label %q", label)
}

// SliceLabels selects the observations between two partial date labels,
// both inclusive at their own resolution. An empty from or to leaves that
// side unbounded.
func SliceLabels(s model.Series, from, to string) (model.Series, error) {
	var lo, hi time.Time
	var err error
	if from != "" {
		if lo, _, err = periodBounds(from); err != nil {
			return model.Series{}, err
		}
	}
	if to != "" {
		if _, hi, err = periodBounds(to); err != nil {
			return model.Series{}, err
		}
	}

	out := model.Series{Name: s.Name}
	for _, p := range s.Points {
		if !lo.IsZero() && p.Date.Before(lo) {
			continue
		}
		if !hi.IsZero() && !p.Date.Before(hi) {
			continue
		}
		out.Points = append(out.Points, p)
	}
	return out, nil
}
