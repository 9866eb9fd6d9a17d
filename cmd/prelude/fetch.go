package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"MacroPrelude/internal/calculator"
	"MacroPrelude/internal/collector"
	"MacroPrelude/internal/config"
	"MacroPrelude/internal/model"
)

var (
	fetchStart  string
	fetchMarket bool
	fetchColumn string
	fetchFill   bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <symbol> [name=symbol ...]",
	Short: "Fetch series and print them as CSV",
	Long: `Fetch one series from FRED (or Yahoo with --market) and print it as CSV.

Several name=symbol pairs fetch FRED series and merge them on the dates
they have in common.

Examples:
  prelude fetch UNRATE
  prelude fetch "Fed Funds=DFF" "10Y=DGS10" --start 2010-01-01
  prelude fetch ^GSPC --market --column "Adj Close"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringVar(&fetchStart, "start", "", "first date, YYYY-MM-DD (default history.start)")
	fetchCmd.Flags().BoolVar(&fetchMarket, "market", false, "fetch from the market data provider")
	fetchCmd.Flags().StringVar(&fetchColumn, "column", "", "print only this column")
	fetchCmd.Flags().BoolVar(&fetchFill, "fill", false, "forward-fill to daily values (needs a single column)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	start, err := config.ParseDate(fetchStart)
	if err != nil {
		return fmt.Errorf("--start: %w", err)
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()

	var table *model.Table
	switch {
	case len(args) > 1 || strings.Contains(args[0], "="):
		names, err := parseNamed(args)
		if err != nil {
			return err
		}
		_, table, err = a.session.FetchNamedSeries(ctx, names, start)
		if err != nil {
			return err
		}
	case fetchMarket:
		table, err = a.session.FetchMarketSeries(ctx, args[0], start)
		if err != nil {
			return err
		}
	default:
		table, err = a.session.FetchSeries(ctx, args[0], start)
		if err != nil {
			return err
		}
	}

	if fetchColumn != "" || fetchFill {
		column := fetchColumn
		if column == "" {
			if len(table.Columns) != 1 {
				return fmt.Errorf("--fill needs --column when the table has %d columns", len(table.Columns))
			}
			column = table.Columns[0]
		}
		s, err := table.Column(column)
		if err != nil {
			return err
		}
		if fetchFill {
			if s, err = calculator.ForwardFill(s); err != nil {
				return err
			}
		}
		table = collector.SeriesTable(s.Name, s.Points...)
	}
	return writeCSV(cmd.OutOrStdout(), table)
}

// parseNamed reads name=symbol pairs.
func parseNamed(args []string) (map[string]string, error) {
	names := make(map[string]string, len(args))
	for _, arg := range args {
		name, symbol, ok := strings.Cut(arg, "=")
		if !ok || name == "" || symbol == "" {
			return nil, fmt.Errorf("expected name=symbol, got %q", arg)
		}
		names[name] = symbol
	}
	return names, nil
}

func writeCSV(w io.Writer, t *model.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"date"}, t.Columns...)); err != nil {
		return err
	}
	for i, d := range t.Dates {
		rec := []string{d.Format(time.DateOnly)}
		for _, c := range t.Columns {
			v := t.Values[c][i]
			if math.IsNaN(v) {
				rec = append(rec, "")
				continue
			}
			rec = append(rec, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
