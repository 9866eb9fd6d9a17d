package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroPrelude/internal/annotate"
	"MacroPrelude/internal/collector"
	"MacroPrelude/internal/config"
	"MacroPrelude/internal/httpcache"
	"MacroPrelude/internal/render"
)

type countingPurger struct {
	calls int
	err   error
}

func (p *countingPurger) PurgeExpired(context.Context) (int64, error) {
	p.calls++
	return 3, p.err
}

func newTestScheduler(ctx context.Context, p Purger) (*Scheduler, *collector.MockSource) {
	econ := &collector.MockSource{}
	r := render.NewRenderer(collector.NewSession(econ, nil, time.Time{}), annotate.Attribution{}, annotate.QEOptions{})
	charts := []config.ChartConfig{{Name: "x", Output: "unused.png", Provider: config.ProviderFRED, Series: map[string]string{"x": "X"}}}
	return NewScheduler(ctx, r, charts, p, httpcache.NewMemoryStore()), econ
}

func TestRegisterAll(t *testing.T) {
	s, _ := newTestScheduler(context.Background(), &countingPurger{})
	require.NoError(t, s.RegisterAll("0 0 7 * * *", "0 15 * * * *"))
	assert.Len(t, s.Cron.Entries(), 2)
}

func TestRegisterAll_BadSpec(t *testing.T) {
	s, _ := newTestScheduler(context.Background(), &countingPurger{})
	assert.Error(t, s.RegisterAll("every morning", "0 15 * * * *"))
	assert.Error(t, s.RegisterAll("0 0 7 * * *", "* *"))
}

func TestRenderNow_FetchesConfiguredCharts(t *testing.T) {
	s, econ := newTestScheduler(context.Background(), &countingPurger{})
	s.RenderNow()
	assert.Equal(t, []string{"X"}, econ.Calls)
}

func TestTasksSkipAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &countingPurger{}
	s, econ := newTestScheduler(ctx, p)
	cancel()

	s.RenderNow()
	s.purgeTask()
	assert.Empty(t, econ.Calls)
	assert.Zero(t, p.calls)
}

func TestPurgeTask(t *testing.T) {
	p := &countingPurger{}
	s, _ := newTestScheduler(context.Background(), p)
	s.purgeTask()
	assert.Equal(t, 1, p.calls)

	p.err = errors.New("database is locked")
	s.purgeTask()
	assert.Equal(t, 2, p.calls)
}

func TestStartStop(t *testing.T) {
	s, _ := newTestScheduler(context.Background(), &countingPurger{})
	require.NoError(t, s.RegisterAll("0 0 7 * * *", "0 15 * * * *"))
	s.Start()
	s.Stop()
}

func TestStopWaitsForRenderAsync(t *testing.T) {
	s, econ := newTestScheduler(context.Background(), &countingPurger{})
	require.NoError(t, s.RegisterAll("0 0 7 * * *", "0 15 * * * *"))
	s.Start()
	s.RenderAsync()
	s.Stop()
	assert.Equal(t, []string{"X"}, econ.Calls)
}
