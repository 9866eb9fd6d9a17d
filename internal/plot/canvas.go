// Package plot renders time series with annotations using go-chart.
package plot

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"MacroPrelude/internal/annotate"
	"MacroPrelude/internal/model"
)

const (
	DefaultWidth  = 1600
	DefaultHeight = 640
)

// Format is an output image encoding.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// FormatFromPath picks the format from a file extension, defaulting to PNG.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return SVG
	}
	return PNG
}

type span struct {
	begin, end time.Time
	fill       annotate.Fill
}

// Canvas is an annotate.Axis that collects lines, spans and text and
// renders them as one chart.
type Canvas struct {
	Title  string
	Width  int
	Height int
	YLabel string

	lines []model.Series
	spans []span
	texts []annotate.Text
}

// NewCanvas creates an empty canvas. Zero sizes fall back to the defaults.
func NewCanvas(title string, width, height int) *Canvas {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Canvas{Title: title, Width: width, Height: height}
}

// Plot adds a line. Missing values are left out of the line.
func (c *Canvas) Plot(s model.Series) {
	c.lines = append(c.lines, s.Where(func(v float64) bool { return !math.IsNaN(v) }))
}

func (c *Canvas) ShadeSpan(begin, end time.Time, fill annotate.Fill) {
	c.spans = append(c.spans, span{begin: begin, end: end, fill: fill})
}

func (c *Canvas) AddText(t annotate.Text) {
	c.texts = append(c.texts, t)
}

// Chart builds the go-chart definition. Spans are drawn beneath the lines
// and text on top.
func (c *Canvas) Chart() chart.Chart {
	series := []chart.Series{spanSeries{spans: c.spans}}
	for _, l := range c.lines {
		series = append(series, chart.TimeSeries{
			Name:    l.Name,
			XValues: l.Dates(),
			YValues: l.Values(),
			Style:   chart.Style{StrokeWidth: 5},
		})
	}
	series = append(series, textSeries{texts: c.texts})

	return chart.Chart{
		Title:  c.Title,
		Width:  c.Width,
		Height: c.Height,
		Background: chart.Style{
			// Room below the axis for captions and the source footer.
			Padding: chart.Box{Top: 40, Left: 20, Right: 40, Bottom: c.Height / 4},
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006"),
			Style:          chart.Style{FontSize: 15},
		},
		YAxis: chart.YAxis{
			Name:  c.YLabel,
			Style: chart.Style{FontSize: 15},
		},
		Series: series,
	}
}

// Render draws the canvas to w.
func (c *Canvas) Render(w io.Writer, format Format) error {
	if len(c.lines) == 0 {
		return fmt.Errorf("render %q: no series plotted", c.Title)
	}
	provider := chart.PNG
	if format == SVG {
		provider = chart.SVG
	}
	ch := c.Chart()
	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("render %q: %w", c.Title, err)
	}
	return nil
}

func fillColor(f annotate.Fill) drawing.Color {
	alpha := math.Round(math.Max(0, math.Min(1, f.Alpha)) * 255)
	return drawing.ColorFromHex(strings.TrimPrefix(f.Color, "#")).WithAlpha(uint8(alpha))
}

func timeToFloat(t time.Time) float64 { return float64(t.UnixNano()) }
