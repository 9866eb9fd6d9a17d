// Package render turns a configured chart into an image file.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/apex/log"

	"MacroPrelude/internal/annotate"
	"MacroPrelude/internal/calculator"
	"MacroPrelude/internal/collector"
	"MacroPrelude/internal/config"
	"MacroPrelude/internal/model"
	"MacroPrelude/internal/plot"
)

// Renderer draws configured charts using a shared session.
type Renderer struct {
	Session     *collector.Session
	Attribution annotate.Attribution
	QE          annotate.QEOptions
}

// Result summarizes one rendered chart.
type Result struct {
	Name       string
	Output     string
	Series     int
	Points     int
	Recessions *annotate.Report
	QE         *annotate.Report
}

// NewRenderer creates a renderer.
func NewRenderer(session *collector.Session, attr annotate.Attribution, qe annotate.QEOptions) *Renderer {
	return &Renderer{Session: session, Attribution: attr, QE: qe}
}

// Series fetches the lines of a chart, named by their logical names.
// FRED lines are aligned to the dates common to all of them.
func (r *Renderer) Series(ctx context.Context, ch config.ChartConfig) ([]model.Series, error) {
	start, err := config.ParseDate(ch.Start)
	if err != nil {
		return nil, err
	}

	var lines []model.Series
	switch ch.Provider {
	case config.ProviderYahoo:
		for name, symbol := range ch.Series {
			table, err := r.Session.FetchMarketSeries(ctx, symbol, start)
			if err != nil {
				return nil, fmt.Errorf("fetch %s: %w", symbol, err)
			}
			s, err := table.Column(ch.Column)
			if err != nil {
				return nil, fmt.Errorf("fetch %s: %w", symbol, err)
			}
			s.Name = name
			lines = append(lines, s)
		}
	default:
		_, table, err := r.Session.FetchNamedSeries(ctx, ch.Series, start)
		if err != nil {
			return nil, err
		}
		if table.Len() == 0 {
			return nil, fmt.Errorf("no dates common to all series: %w", collector.ErrNoData)
		}
		for _, name := range table.Columns {
			s, err := table.Column(name)
			if err != nil {
				return nil, err
			}
			lines = append(lines, s)
		}
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Name < lines[j].Name })

	if ch.Fill {
		for i, s := range lines {
			filled, err := calculator.ForwardFill(s)
			if err != nil {
				return nil, fmt.Errorf("fill %s: %w", s.Name, err)
			}
			lines[i] = filled
		}
	}
	return lines, nil
}

// Draw builds the annotated canvas for a chart without writing it.
func (r *Renderer) Draw(ctx context.Context, ch config.ChartConfig) (*plot.Canvas, *Result, error) {
	lines, err := r.Series(ctx, ch)
	if err != nil {
		return nil, nil, fmt.Errorf("chart %s: %w", ch.Name, err)
	}

	canvas := plot.NewCanvas(ch.Title, ch.Width, ch.Height)
	canvas.YLabel = ch.YLabel
	res := &Result{Name: ch.Name, Output: ch.Output, Series: len(lines)}
	for _, s := range lines {
		canvas.Plot(s)
		res.Points += s.Len()
	}

	leftmost, err := config.ParseDate(ch.Leftmost)
	if err != nil {
		return nil, nil, fmt.Errorf("chart %s: %w", ch.Name, err)
	}
	now := r.Session.Now()
	logger := log.WithField("chart", ch.Name)

	if ch.Recessions {
		res.Recessions = annotate.ShadeRecessions(ctx, r.Session, canvas, leftmost)
		logReport(logger, "recessions", res.Recessions)
	}
	if ch.QE {
		res.QE = annotate.ShadeQE(canvas, leftmost, now, r.QE)
		logReport(logger, "qe", res.QE)
	}
	annotate.AnnotateSource(canvas, ch.Source, r.Attribution, now)
	return canvas, res, nil
}

// Render draws a chart and writes it to its output path.
func (r *Renderer) Render(ctx context.Context, ch config.ChartConfig) (*Result, error) {
	began := time.Now()
	canvas, res, err := r.Draw(ctx, ch)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(ch.Output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("chart %s: create output dir: %w", ch.Name, err)
		}
	}
	f, err := os.Create(ch.Output)
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", ch.Name, err)
	}
	if err := canvas.Render(f, plot.FormatFromPath(ch.Output)); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("chart %s: %w", ch.Name, err)
	}

	log.WithFields(log.Fields{
		"chart":   ch.Name,
		"output":  ch.Output,
		"series":  res.Series,
		"points":  res.Points,
		"elapsed": time.Since(began).Round(time.Millisecond),
	}).Info("chart rendered")
	return res, nil
}

// RenderAll renders every chart, continuing past failures.
func (r *Renderer) RenderAll(ctx context.Context, charts []config.ChartConfig) ([]*Result, error) {
	var (
		results []*Result
		failed  int
	)
	for _, ch := range charts {
		res, err := r.Render(ctx, ch)
		if err != nil {
			log.WithError(err).WithField("chart", ch.Name).Error("render failed")
			failed++
			continue
		}
		results = append(results, res)
	}
	if failed > 0 {
		return results, fmt.Errorf("%d of %d charts failed", failed, len(charts))
	}
	return results, nil
}

func logReport(logger log.Interface, kind string, rep *annotate.Report) {
	for _, err := range rep.Errs {
		logger.WithError(err).Warnf("%s shading incomplete", kind)
	}
	logger.WithFields(log.Fields{"kind": kind, "drawn": len(rep.Drawn()), "total": len(rep.Spans)}).Debug("shaded spans")
}
