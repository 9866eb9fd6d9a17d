// Package annotate overlays historical periods and attribution text onto a
// time-axis chart.
package annotate

import "time"

// Fill is the color of a shaded span, as a hex RGB string plus opacity in [0, 1].
type Fill struct {
	Color string
	Alpha float64
}

var (
	RecessionFill = Fill{Color: "#7f7f7f", Alpha: 0.3}
	QEFill        = Fill{Color: "#ff7f0e", Alpha: 0.3}
	TwistFill     = Fill{Color: "#bcbd22", Alpha: 0.3}
	TaperFill     = Fill{Color: "#e377c2", Alpha: 0.3}
)

// Align is the horizontal anchor of a text annotation.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// DefaultFontSize matches the size used for every caption.
const DefaultFontSize = 14

// Text is placed in axis-relative coordinates: (0, 0) is the bottom-left of
// the plotting area and (1, 1) the top-right. Negative Y lands below the axis.
type Text struct {
	X, Y     float64
	Body     string
	Align    Align
	FontSize float64
}

// Axis is a chart surface that can shade vertical spans and place text.
type Axis interface {
	ShadeSpan(begin, end time.Time, fill Fill)
	AddText(t Text)
}

func caption(body string) Text {
	return Text{X: 0, Y: -0.15, Body: body, Align: AlignLeft, FontSize: DefaultFontSize}
}
