package collector

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"MacroPrelude/internal/model"
)

const YahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

// Yahoo table columns.
const (
	ColOpen     = "Open"
	ColHigh     = "High"
	ColLow      = "Low"
	ColClose    = "Close"
	ColAdjClose = "Adj Close"
	ColVolume   = "Volume"
)

// YahooSource implements Source using the Yahoo Finance chart API.
type YahooSource struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooSource creates a Yahoo Finance source that issues requests through client.
func NewYahooSource(client *http.Client) *YahooSource {
	return &YahooSource{
		BaseURL: YahooChartURL,
		Client:  client,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (f *YahooSource) Name() string { return "yahoo" }

func (f *YahooSource) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// Fetch returns daily bars between start and end as Open, High, Low, Close,
// Adj Close and Volume columns.
func (f *YahooSource) Fetch(ctx context.Context, symbol string, start, end time.Time) (*model.Table, error) {
	q := url.Values{}
	q.Set("period1", strconv.FormatInt(start.Unix(), 10))
	q.Set("period2", strconv.FormatInt(end.AddDate(0, 0, 1).Unix(), 10))
	q.Set("interval", "1d")
	q.Set("events", "history")
	u := f.BaseURL + url.PathEscape(f.yahooSymbol(symbol)) + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	log.WithField("symbol", symbol).Debug("yahoo fetch")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	return parseYahooChart(body, symbol)
}

func parseYahooChart(body []byte, symbol string) (*model.Table, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("yahoo decode: invalid json")
	}
	chart := gjson.GetBytes(body, "chart")
	if desc := chart.Get("error.description"); desc.Exists() {
		return nil, fmt.Errorf("yahoo api error: %s", desc.String())
	}
	result := chart.Get("result.0")
	timestamps := result.Get("timestamp").Array()
	if len(timestamps) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}

	offset := result.Get("meta.gmtoffset").Int()
	quote := result.Get("indicators.quote.0")
	fields := map[string][]gjson.Result{
		ColOpen:     quote.Get("open").Array(),
		ColHigh:     quote.Get("high").Array(),
		ColLow:      quote.Get("low").Array(),
		ColClose:    quote.Get("close").Array(),
		ColVolume:   quote.Get("volume").Array(),
		ColAdjClose: result.Get("indicators.adjclose.0.adjclose").Array(),
	}
	if len(fields[ColAdjClose]) == 0 {
		fields[ColAdjClose] = fields[ColClose]
	}

	table := model.NewTable(ColOpen, ColHigh, ColLow, ColClose, ColAdjClose, ColVolume)
	for i, ts := range timestamps {
		row := make(map[string]float64, len(fields))
		for name, values := range fields {
			row[name] = valueAt(values, i)
		}
		if math.IsNaN(row[ColClose]) {
			continue // skip null bars (holidays etc.)
		}
		// Bars are keyed by exchange-local trading day.
		day := time.Unix(ts.Int()+offset, 0).UTC().Truncate(24 * time.Hour)
		table.Append(day, row)
	}
	if table.Len() == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}
	return table, nil
}

func valueAt(values []gjson.Result, i int) float64 {
	if i >= len(values) || values[i].Type != gjson.Number {
		return math.NaN()
	}
	return values[i].Float()
}

func sortDates(dates []time.Time) {
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
}
