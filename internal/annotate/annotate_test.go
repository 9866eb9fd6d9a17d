package annotate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroPrelude/internal/model"
)

type shaded struct {
	Begin, End time.Time
	Fill       Fill
}

type recordingAxis struct {
	spans []shaded
	texts []Text
}

func (a *recordingAxis) ShadeSpan(begin, end time.Time, fill Fill) {
	a.spans = append(a.spans, shaded{begin, end, fill})
}

func (a *recordingAxis) AddText(t Text) { a.texts = append(a.texts, t) }

type fetcherFunc func(ctx context.Context, symbol string, start time.Time) (model.Series, error)

func (f fetcherFunc) FetchSeriesColumn(ctx context.Context, symbol string, start time.Time) (model.Series, error) {
	return f(ctx, symbol, start)
}

// usrec builds a monthly indicator from 1985 to 2021 flagging the NBER
// recessions of 1990-91, 2001, 2008-09 and 2020.
func usrec() model.Series {
	flagged := []struct{ from, to time.Time }{
		{ymd(1990, 8, 1), ymd(1991, 3, 1)},
		{ymd(2001, 4, 1), ymd(2001, 11, 1)},
		{ymd(2008, 1, 1), ymd(2009, 6, 1)},
		{ymd(2020, 3, 1), ymd(2020, 4, 1)},
	}
	s := model.Series{Name: RecessionSymbol}
	for d := ymd(1985, 1, 1); !d.After(ymd(2021, 12, 1)); d = d.AddDate(0, 1, 0) {
		v := 0.0
		for _, f := range flagged {
			if !d.Before(f.from) && !d.After(f.to) {
				v = 1
			}
		}
		s.Points = append(s.Points, model.Point{Date: d, Value: v})
	}
	return s
}

func staticFetcher(s model.Series, gotStart *time.Time) SeriesFetcher {
	return fetcherFunc(func(_ context.Context, symbol string, start time.Time) (model.Series, error) {
		if gotStart != nil {
			*gotStart = start
		}
		if symbol != RecessionSymbol {
			return model.Series{}, errors.New("unexpected symbol " + symbol)
		}
		return s, nil
	})
}

func TestShadeRecessions_AllVisible(t *testing.T) {
	ax := &recordingAxis{}
	var start time.Time
	report := ShadeRecessions(context.Background(), staticFetcher(usrec(), &start), ax, ymd(1980, 1, 1))

	require.NoError(t, report.Err())
	assert.Equal(t, RecessionHistoryStart, start)
	assert.Equal(t, []shaded{
		{ymd(1990, 8, 1), ymd(1991, 3, 1), RecessionFill},
		{ymd(2001, 4, 1), ymd(2001, 11, 1), RecessionFill},
		{ymd(2008, 1, 1), ymd(2020, 4, 1), RecessionFill},
	}, ax.spans)
	assert.Len(t, report.Drawn(), 3)
	assert.True(t, report.Captioned)
	require.Len(t, ax.texts, 1)
	assert.Equal(t, caption(RecessionCaption), ax.texts[0])
}

func TestShadeRecessions_SkipsBeforeLeftmost(t *testing.T) {
	ax := &recordingAxis{}
	report := ShadeRecessions(context.Background(), staticFetcher(usrec(), nil), ax, ymd(2001, 4, 1))

	require.NoError(t, report.Err())
	require.Len(t, ax.spans, 1, "a span starting exactly at leftmost is skipped")
	assert.Equal(t, ymd(2008, 1, 1), ax.spans[0].Begin)
	assert.Equal(t, Skipped, report.Spans[0].Outcome)
	assert.Equal(t, Skipped, report.Spans[1].Outcome)
	assert.Equal(t, Drawn, report.Spans[2].Outcome)
}

func TestShadeRecessions_LeftmostAfterAll(t *testing.T) {
	ax := &recordingAxis{}
	report := ShadeRecessions(context.Background(), staticFetcher(usrec(), nil), ax, ymd(2030, 1, 1))
	assert.Empty(t, ax.spans)
	assert.Empty(t, report.Drawn())
}

func TestShadeRecessions_FetchError(t *testing.T) {
	ax := &recordingAxis{}
	boom := errors.New("network unreachable")
	src := fetcherFunc(func(context.Context, string, time.Time) (model.Series, error) {
		return model.Series{}, boom
	})

	report := ShadeRecessions(context.Background(), src, ax, ymd(1980, 1, 1))
	assert.ErrorIs(t, report.Err(), boom)
	assert.Empty(t, ax.spans)
	assert.Empty(t, ax.texts)
	assert.False(t, report.Captioned)
}

func TestShadeRecessions_MissingPeriod(t *testing.T) {
	// Clear the 2001 recession flags.
	s := usrec()
	for i, p := range s.Points {
		if p.Date.Year() == 2001 {
			s.Points[i].Value = 0
		}
	}

	ax := &recordingAxis{}
	report := ShadeRecessions(context.Background(), staticFetcher(s, nil), ax, ymd(1980, 1, 1))

	assert.ErrorIs(t, report.Err(), ErrNoRecession)
	assert.Len(t, ax.spans, 2, "the other periods are still shaded")
	assert.Equal(t, Failed, report.Spans[1].Outcome)
	assert.Equal(t, "2001", report.Spans[1].Span.Label)
	assert.True(t, report.Captioned)
}

func TestShadeQE_AllVisible(t *testing.T) {
	now := ymd(2024, 6, 1)
	ax := &recordingAxis{}
	report := ShadeQE(ax, ymd(2000, 1, 1), now, QEOptions{})

	require.NoError(t, report.Err())
	assert.Equal(t, []shaded{
		{ymd(2008, 11, 25), ymd(2010, 5, 31), QEFill},
		{ymd(2010, 11, 3), ymd(2011, 9, 21), QEFill},
		{ymd(2012, 9, 13), ymd(2013, 12, 18), QEFill},
		{ymd(2020, 3, 11), now, QEFill},
	}, ax.spans)
	assert.Equal(t, []Text{caption(QECaption)}, ax.texts)
}

func TestShadeQE_OnlyOpenProgramAfter2021(t *testing.T) {
	now := ymd(2024, 6, 1)
	ax := &recordingAxis{}
	report := ShadeQE(ax, ymd(2021, 1, 1), now, QEOptions{})

	drawn := report.Drawn()
	require.Len(t, drawn, 1)
	assert.Equal(t, "QE4", drawn[0].Span.Label)
	assert.Equal(t, ymd(2021, 1, 1), drawn[0].From)
	assert.Equal(t, now, drawn[0].To)
	assert.Len(t, ax.spans, 1)
}

func TestShadeQE_LeftmostAfterAll(t *testing.T) {
	now := ymd(2024, 6, 1)
	ax := &recordingAxis{}
	report := ShadeQE(ax, now.AddDate(0, 0, 1), now, QEOptions{})
	assert.Empty(t, report.Drawn())
	assert.Empty(t, ax.spans)
}

func TestShadeQE_TwistAndTaper(t *testing.T) {
	ax := &recordingAxis{}
	ShadeQE(ax, ymd(2000, 1, 1), ymd(2024, 6, 1), QEOptions{IncludeTwistAndTaper: true})

	require.Len(t, ax.spans, 6)
	assert.Equal(t, TwistFill, ax.spans[2].Fill)
	assert.Equal(t, Twist.Begin, ax.spans[2].Begin)
	assert.Equal(t, TaperFill, ax.spans[4].Fill)
	assert.Equal(t, []Text{caption(QETwistTaperCaption)}, ax.texts)
}

func TestAnnotateSource(t *testing.T) {
	now := time.Date(2023, 7, 4, 9, 30, 15, 0, time.Local)
	ax := &recordingAxis{}
	AnnotateSource(ax, "FRED", Attribution{}, now)

	require.Len(t, ax.texts, 3)
	assert.Equal(t, Text{X: 0, Y: -0.1, Body: "Source: FRED", Align: AlignLeft, FontSize: DefaultFontSize}, ax.texts[0])
	assert.Equal(t, "Date: "+now.Format("01-02-2006 15:04:05 MST"), ax.texts[1].Body)
	assert.Equal(t, AlignRight, ax.texts[1].Align)
	assert.Equal(t, 1.0, ax.texts[1].X)
	assert.Equal(t, "Copyright © 2019 - 2023 Bateman Capital", ax.texts[2].Body)
	assert.Equal(t, -0.15, ax.texts[2].Y)
	assert.Empty(t, ax.spans)
}

func TestAnnotateSource_CustomAttribution(t *testing.T) {
	ax := &recordingAxis{}
	AnnotateSource(ax, "Yahoo", Attribution{Entity: "Acme Research", Since: 2021}, time.Date(2025, 1, 1, 12, 0, 0, 0, time.Local))
	assert.Equal(t, "Copyright © 2021 - 2025 Acme Research", ax.texts[2].Body)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "drawn", Drawn.String())
	assert.Equal(t, "skipped", Skipped.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "Outcome(9)", Outcome(9).String())
}
