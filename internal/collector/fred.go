package collector

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"MacroPrelude/internal/httpcache"
	"MacroPrelude/internal/model"
)

const (
	FREDGraphURL = "https://fred.stlouisfed.org/graph/fredgraph.csv"
	FREDAPIURL   = "https://api.stlouisfed.org/fred/series/observations"
)

const dateLayout = "2006-01-02"

// FREDSource implements Source using the St. Louis Fed FRED service.
// Without an API key the public CSV download is used.
type FREDSource struct {
	GraphURL string
	APIURL   string
	APIKey   string
	Client   *http.Client
}

// NewFREDSource creates a FRED source that issues requests through client.
func NewFREDSource(client *http.Client, apiKey string) *FREDSource {
	return &FREDSource{
		GraphURL: FREDGraphURL,
		APIURL:   FREDAPIURL,
		APIKey:   apiKey,
		Client:   client,
	}
}

func (f *FREDSource) Name() string { return "fred" }

// Fetch returns one column per comma-separated symbol, named after the symbol.
func (f *FREDSource) Fetch(ctx context.Context, symbol string, start, end time.Time) (*model.Table, error) {
	symbols := strings.Split(symbol, ",")
	for i := range symbols {
		symbols[i] = strings.TrimSpace(symbols[i])
	}
	log.WithFields(log.Fields{"symbol": symbol, "start": start.Format(dateLayout)}).Debug("fred fetch")

	var (
		table *model.Table
		err   error
	)
	if f.APIKey != "" {
		table, err = f.fetchAPI(ctx, symbols, start, end)
	} else {
		table, err = f.fetchGraph(ctx, symbols, start, end)
	}
	if err != nil {
		return nil, err
	}
	if table.Len() == 0 {
		return nil, fmt.Errorf("fred %s: %w", symbol, ErrNoData)
	}
	return table, nil
}

func (f *FREDSource) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fred fetch: %w", httpcache.RedactError(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fred read body: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("fred: %w", ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fred: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func (f *FREDSource) fetchGraph(ctx context.Context, symbols []string, start, end time.Time) (*model.Table, error) {
	q := url.Values{}
	q.Set("id", strings.Join(symbols, ","))
	q.Set("cosd", start.Format(dateLayout))
	q.Set("coed", end.Format(dateLayout))
	body, err := f.get(ctx, f.GraphURL+"?"+q.Encode())
	if err != nil {
		return nil, err
	}
	return parseFREDCSV(body, symbols, start, end)
}

// parseFREDCSV reads the graph download format: a date column followed by
// one column per symbol, with "." marking a missing value.
func parseFREDCSV(body []byte, symbols []string, start, end time.Time) (*model.Table, error) {
	// The download answers unknown ids with an HTML page.
	if bytes.HasPrefix(bytes.TrimSpace(body), []byte("<")) {
		return nil, fmt.Errorf("fred: %w", ErrNotFound)
	}
	records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("fred decode csv: %w", err)
	}
	if len(records) == 0 {
		return model.NewTable(symbols...), nil
	}
	header := records[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("fred: unexpected csv header %v", header)
	}

	columns := header[1:]
	table := model.NewTable(columns...)
	for _, rec := range records[1:] {
		date, err := time.Parse(dateLayout, rec[0])
		if err != nil {
			return nil, fmt.Errorf("fred parse date %q: %w", rec[0], err)
		}
		if date.Before(start) || date.After(end) {
			continue
		}
		row := make(map[string]float64, len(columns))
		for i, c := range columns {
			if i+1 < len(rec) {
				row[c] = parseObservation(rec[i+1])
			}
		}
		table.Append(date, row)
	}
	return table, nil
}

func (f *FREDSource) fetchAPI(ctx context.Context, symbols []string, start, end time.Time) (*model.Table, error) {
	rows := make(map[int64]map[string]float64)
	var dates []time.Time
	for _, sym := range symbols {
		q := url.Values{}
		q.Set("series_id", sym)
		q.Set("api_key", f.APIKey)
		q.Set("file_type", "json")
		q.Set("observation_start", start.Format(dateLayout))
		q.Set("observation_end", end.Format(dateLayout))
		body, err := f.get(ctx, f.APIURL+"?"+q.Encode())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sym, err)
		}
		if msg := gjson.GetBytes(body, "error_message"); msg.Exists() {
			return nil, fmt.Errorf("fred api error %s: %s", sym, msg.String())
		}

		var parseErr error
		gjson.GetBytes(body, "observations").ForEach(func(_, obs gjson.Result) bool {
			date, err := time.Parse(dateLayout, obs.Get("date").String())
			if err != nil {
				parseErr = fmt.Errorf("fred parse date: %w", err)
				return false
			}
			key := date.Unix()
			row, ok := rows[key]
			if !ok {
				row = make(map[string]float64, len(symbols))
				rows[key] = row
				dates = append(dates, date)
			}
			row[sym] = parseObservation(obs.Get("value").String())
			return true
		})
		if parseErr != nil {
			return nil, parseErr
		}
	}

	sortDates(dates)
	table := model.NewTable(symbols...)
	for _, d := range dates {
		table.Append(d, rows[d.Unix()])
	}
	return table, nil
}

func parseObservation(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
