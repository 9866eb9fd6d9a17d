package annotate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"MacroPrelude/internal/calculator"
	"MacroPrelude/internal/model"
)

// ErrNoRecession is reported when a recession period has no flagged months.
var ErrNoRecession = errors.New("no recession data")

const (
	RecessionSymbol  = "USREC"
	RecessionCaption = "Shaded areas indicate US recessions"
)

// RecessionHistoryStart is where the indicator fetch begins.
var RecessionHistoryStart = time.Date(1920, 1, 1, 0, 0, 0, 0, time.UTC)

// RecessionPeriod selects a block of flagged months by partial date labels.
// An empty To runs to the end of the data.
type RecessionPeriod struct {
	Label    string
	From, To string
}

var RecessionPeriods = []RecessionPeriod{
	{Label: "1990-1991", From: "1990", To: "1991"},
	{Label: "2001", From: "2001", To: "2001"},
	{Label: "2008-", From: "2008", To: ""},
}

// SeriesFetcher fetches a single named series starting at start.
type SeriesFetcher interface {
	FetchSeriesColumn(ctx context.Context, symbol string, start time.Time) (model.Series, error)
}

// ShadeRecessions shades the US recessions that start after leftmost and
// adds the caption below the axis.
func ShadeRecessions(ctx context.Context, src SeriesFetcher, ax Axis, leftmost time.Time) *Report {
	report := &Report{}

	indicator, err := src.FetchSeriesColumn(ctx, RecessionSymbol, RecessionHistoryStart)
	if err != nil {
		report.Errs = append(report.Errs, fmt.Errorf("fetch %s: %w", RecessionSymbol, err))
		return report
	}
	flagged := indicator.Where(calculator.IsOne)

	for _, p := range RecessionPeriods {
		span := model.Span{Label: p.Label}
		months, err := calculator.SliceLabels(flagged, p.From, p.To)
		if err != nil {
			report.fail(span, fmt.Errorf("recession %s: %w", p.Label, err))
			continue
		}
		if months.Len() == 0 {
			report.fail(span, fmt.Errorf("recession %s: %w", p.Label, ErrNoRecession))
			continue
		}
		span.Begin, span.End = months.First(), months.Last()
		report.Spans = append(report.Spans, drawSpan(ax, span, leftmost, span.End, RecessionFill))
	}

	ax.AddText(caption(RecessionCaption))
	report.Captioned = true
	return report
}
