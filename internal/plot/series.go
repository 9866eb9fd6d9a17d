package plot

import (
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"MacroPrelude/internal/annotate"
)

// spanSeries draws full-height shaded rectangles in data coordinates. It
// provides no values so it never widens the axis ranges.
type spanSeries struct {
	spans []span
}

func (s spanSeries) GetName() string           { return "spans" }
func (s spanSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (s spanSeries) GetStyle() chart.Style     { return chart.Style{} }
func (s spanSeries) Validate() error           { return nil }

func (s spanSeries) Render(r chart.Renderer, box chart.Box, xrange, _ chart.Range, _ chart.Style) {
	for _, sp := range s.spans {
		x0 := clamp(box.Left+xrange.Translate(timeToFloat(sp.begin)), box.Left, box.Right)
		x1 := clamp(box.Left+xrange.Translate(timeToFloat(sp.end)), box.Left, box.Right)
		if x1 <= x0 {
			continue
		}
		r.SetFillColor(fillColor(sp.fill))
		r.MoveTo(x0, box.Top)
		r.LineTo(x1, box.Top)
		r.LineTo(x1, box.Bottom)
		r.LineTo(x0, box.Bottom)
		r.Close()
		r.Fill()
		r.ResetStyle()
	}
}

// textSeries places text in axis-relative coordinates.
type textSeries struct {
	texts []annotate.Text
}

func (s textSeries) GetName() string           { return "annotations" }
func (s textSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (s textSeries) GetStyle() chart.Style     { return chart.Style{} }
func (s textSeries) Validate() error           { return nil }

func (s textSeries) Render(r chart.Renderer, box chart.Box, _, _ chart.Range, defaults chart.Style) {
	for _, t := range s.texts {
		size := t.FontSize
		if size <= 0 {
			size = annotate.DefaultFontSize
		}
		r.SetFont(defaults.GetFont())
		r.SetFontSize(size)
		r.SetFontColor(drawing.ColorBlack)

		measured := r.MeasureText(t.Body)
		x := box.Left + int(t.X*float64(box.Width()))
		y := box.Bottom - int(t.Y*float64(box.Height())) + measured.Height()/2
		if t.Align == annotate.AlignRight {
			x -= measured.Width()
		}
		r.Text(t.Body, x, y)
		r.ResetStyle()
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
