package annotate

import (
	"fmt"
	"time"
)

const (
	DefaultEntity         = "Bateman Capital"
	DefaultCopyrightSince = 2019
)

const timestampLayout = "01-02-2006 15:04:05 MST"

// Attribution is the fixed part of the source footer.
type Attribution struct {
	Entity string
	Since  int
}

// AnnotateSource writes the source label, the current local timestamp and
// the copyright line below the axis.
func AnnotateSource(ax Axis, source string, attr Attribution, now time.Time) {
	if attr.Entity == "" {
		attr.Entity = DefaultEntity
	}
	if attr.Since == 0 {
		attr.Since = DefaultCopyrightSince
	}
	now = now.Local()

	ax.AddText(Text{X: 0, Y: -0.1, Body: "Source: " + source, Align: AlignLeft, FontSize: DefaultFontSize})
	ax.AddText(Text{X: 1, Y: -0.1, Body: "Date: " + now.Format(timestampLayout), Align: AlignRight, FontSize: DefaultFontSize})
	ax.AddText(Text{
		X:        1,
		Y:        -0.15,
		Body:     fmt.Sprintf("Copyright © %d - %d %s", attr.Since, now.Year(), attr.Entity),
		Align:    AlignRight,
		FontSize: DefaultFontSize,
	})
}
