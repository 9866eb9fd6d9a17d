package annotate

import (
	"errors"
	"fmt"
	"time"

	"MacroPrelude/internal/model"
)

// Outcome is what happened to one span.
type Outcome int

const (
	Drawn Outcome = iota
	Skipped
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Drawn:
		return "drawn"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// SpanResult records one span. From and To hold the drawn extent.
type SpanResult struct {
	Span    model.Span
	Outcome Outcome
	From    time.Time
	To      time.Time
	Err     error
}

// Report collects the per-span results of one shading call. Shading never
// aborts a chart: failures end up here for the caller to log or ignore.
type Report struct {
	Spans     []SpanResult
	Captioned bool
	Errs      []error
}

// Drawn returns the spans that were shaded.
func (r *Report) Drawn() []SpanResult {
	var out []SpanResult
	for _, s := range r.Spans {
		if s.Outcome == Drawn {
			out = append(out, s)
		}
	}
	return out
}

// Err joins every collected diagnostic, or returns nil.
func (r *Report) Err() error { return errors.Join(r.Errs...) }

func (r *Report) fail(span model.Span, err error) {
	r.Spans = append(r.Spans, SpanResult{Span: span, Outcome: Failed, Err: err})
	r.Errs = append(r.Errs, err)
}

// drawSpan shades span when it starts strictly after leftmost. An open span
// that started earlier but is still running is clipped to start at leftmost.
func drawSpan(ax Axis, span model.Span, leftmost, now time.Time, fill Fill) SpanResult {
	end := span.EndAt(now)
	begin := span.Begin
	switch {
	case begin.After(leftmost):
	case span.Open() && end.After(leftmost):
		begin = leftmost
	default:
		return SpanResult{Span: span, Outcome: Skipped}
	}
	ax.ShadeSpan(begin, end, fill)
	return SpanResult{Span: span, Outcome: Drawn, From: begin, To: end}
}
