package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"MacroPrelude/internal/config"
)

var renderCmd = &cobra.Command{
	Use:   "render [chart ...]",
	Short: "Render configured charts",
	Long: `Render the named charts from the config, or all of them when no name is given.

Examples:
  prelude render
  prelude render unemployment spx`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	charts, err := selectCharts(a.cfg, args)
	if err != nil {
		return err
	}
	results, err := a.renderer().RenderAll(cmd.Context(), charts)
	for _, res := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%d series, %d points)\n", res.Name, res.Output, res.Series, res.Points)
	}
	return err
}

func selectCharts(cfg *config.Config, names []string) ([]config.ChartConfig, error) {
	if len(names) == 0 {
		if len(cfg.Charts) == 0 {
			return nil, fmt.Errorf("no charts configured in %s", cfgPath)
		}
		return cfg.Charts, nil
	}
	charts := make([]config.ChartConfig, 0, len(names))
	for _, name := range names {
		ch, ok := cfg.Chart(name)
		if !ok {
			return nil, fmt.Errorf("unknown chart %q", name)
		}
		charts = append(charts, ch)
	}
	return charts, nil
}
