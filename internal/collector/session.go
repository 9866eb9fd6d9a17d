package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"

	"MacroPrelude/internal/calculator"
	"MacroPrelude/internal/model"
)

// DefaultStart is the beginning of history used when a caller passes a zero start.
var DefaultStart = time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC)

// Session bundles the providers, history start and clock shared by the
// retrieval helpers. Construct one per process and pass it around.
type Session struct {
	Economic Source
	Market   Source
	Start    time.Time
	Now      func() time.Time
}

// NewSession creates a session. A zero start falls back to DefaultStart.
func NewSession(economic, market Source, start time.Time) *Session {
	if start.IsZero() {
		start = DefaultStart
	}
	return &Session{Economic: economic, Market: market, Start: start, Now: time.Now}
}

// Today is the inclusive end of every fetch, as a UTC calendar date.
func (s *Session) Today() time.Time {
	y, m, d := s.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *Session) start(start time.Time) time.Time {
	if start.IsZero() {
		return s.Start
	}
	return start
}

// FetchSeries returns the provider table for symbol from start until today.
func (s *Session) FetchSeries(ctx context.Context, symbol string, start time.Time) (*model.Table, error) {
	return s.Economic.Fetch(ctx, symbol, s.start(start), s.Today())
}

// FetchSeriesColumn fetches symbol and extracts the column named after it.
func (s *Session) FetchSeriesColumn(ctx context.Context, symbol string, start time.Time) (model.Series, error) {
	table, err := s.FetchSeries(ctx, symbol, start)
	if err != nil {
		return model.Series{}, err
	}
	return table.Column(symbol)
}

// FetchMarketSeries returns the market provider table for symbol from start until today.
func (s *Session) FetchMarketSeries(ctx context.Context, symbol string, start time.Time) (*model.Table, error) {
	return s.Market.Fetch(ctx, symbol, s.start(start), s.Today())
}

// FetchNamedSeries resolves each logical name to its provider symbol's
// series and merges them into one table of rows present in every series.
// The input map is not modified.
func (s *Session) FetchNamedSeries(ctx context.Context, symbols map[string]string, start time.Time) (map[string]model.Series, *model.Table, error) {
	resolved := make(map[string]model.Series, len(symbols))
	for name, symbol := range symbols {
		series, err := s.FetchSeriesColumn(ctx, symbol, start)
		if err != nil {
			return nil, nil, fmt.Errorf("fetch %s (%s): %w", name, symbol, err)
		}
		series.Name = name
		resolved[name] = series
	}
	table := calculator.Merge(resolved)
	log.WithFields(log.Fields{"series": len(resolved), "rows": table.Len()}).Debug("merged named series")
	return resolved, table, nil
}
