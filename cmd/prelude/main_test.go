package main

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroPrelude/internal/config"
	"MacroPrelude/internal/httpcache"
	"MacroPrelude/internal/model"
)

func TestParseNamed(t *testing.T) {
	names, err := parseNamed([]string{"Fed Funds=DFF", "10Y=DGS10"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Fed Funds": "DFF", "10Y": "DGS10"}, names)

	for _, bad := range []string{"DFF", "=DFF", "name="} {
		_, err := parseNamed([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestWriteCSV(t *testing.T) {
	table := model.NewTable("S&P, 500", "VIX")
	table.Append(time.Date(2020, 3, 16, 0, 0, 0, 0, time.UTC), map[string]float64{"S&P, 500": 2386.13, "VIX": 82.69})
	table.Append(time.Date(2020, 3, 17, 0, 0, 0, 0, time.UTC), map[string]float64{"S&P, 500": math.NaN(), "VIX": 75.91})

	var buf bytes.Buffer
	require.NoError(t, writeCSV(&buf, table))
	assert.Equal(t, "date,\"S&P, 500\",VIX\n2020-03-16,2386.13,82.69\n2020-03-17,,75.91\n", buf.String())
}

func TestSelectCharts(t *testing.T) {
	cfg := &config.Config{Charts: []config.ChartConfig{{Name: "a"}, {Name: "b"}}}

	all, err := selectCharts(cfg, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	some, err := selectCharts(cfg, []string{"b"})
	require.NoError(t, err)
	assert.Equal(t, "b", some[0].Name)

	_, err = selectCharts(cfg, []string{"c"})
	assert.Error(t, err)

	_, err = selectCharts(&config.Config{}, nil)
	assert.Error(t, err)
}

func TestOpenStore(t *testing.T) {
	cfg := &config.Config{}
	cfg.Cache.Backend = config.BackendMemory
	store, err := openStore(cfg)
	require.NoError(t, err)
	assert.IsType(t, &httpcache.MemoryStore{}, store)

	cfg.Cache.Backend = config.BackendSQLite
	cfg.Cache.Path = filepath.Join(t.TempDir(), "cache.db")
	store, err = openStore(cfg)
	require.NoError(t, err)
	defer store.Close()
	assert.IsType(t, &httpcache.SQLiteStore{}, store)
}

func TestFormatStats(t *testing.T) {
	out := formatStats("memory", 12*time.Hour, httpcache.Stats{})
	assert.Contains(t, out, "entries: 0")
	assert.Contains(t, out, "size:    0 B")
	assert.NotContains(t, out, "oldest")

	out = formatStats("sqlite", time.Hour, httpcache.Stats{Entries: 2, Bytes: 2048, Oldest: time.Now().Add(-3 * time.Hour), Newest: time.Now()})
	assert.Contains(t, out, "size:    2.0 kB")
	assert.Contains(t, out, "oldest:  3 hours ago")
}

func TestNewApp(t *testing.T) {
	dir := t.TempDir()
	cfgPath = filepath.Join(dir, "missing.yaml")
	t.Setenv("PRELUDE_CACHE_PATH", filepath.Join(dir, "cache.db"))

	a, err := newApp()
	require.NoError(t, err)
	defer a.Close()
	assert.Equal(t, time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC), a.session.Start)
	assert.Equal(t, 12*time.Hour, a.transport.Expiry)
	assert.Equal(t, "fred", a.session.Economic.Name())
	assert.Equal(t, "yahoo", a.session.Market.Name())
}
