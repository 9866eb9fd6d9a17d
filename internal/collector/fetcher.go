package collector

import (
	"context"
	"errors"
	"time"

	"MacroPrelude/internal/model"
)

var (
	// ErrNotFound is returned when a provider does not know the requested symbol.
	ErrNotFound = errors.New("symbol not found")
	// ErrNoData is returned when a provider answers with no observations.
	ErrNoData = errors.New("no data returned")
)

// Source fetches dated observations for a symbol from a data provider.
type Source interface {
	Fetch(ctx context.Context, symbol string, start, end time.Time) (*model.Table, error)
	Name() string
}
