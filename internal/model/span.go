package model

import "time"

// Span is a historical interval to be shaded on a time axis.
// A zero End means the interval is still open.
type Span struct {
	Label string
	Begin time.Time
	End   time.Time
}

// Open reports whether the span has no fixed end.
func (s Span) Open() bool { return s.End.IsZero() }

// EndAt resolves the span end, using now for open spans.
func (s Span) EndAt(now time.Time) time.Time {
	if s.Open() {
		return now
	}
	return s.End
}
