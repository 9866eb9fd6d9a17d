package annotate

import (
	"time"

	"MacroPrelude/internal/model"
)

// Fed asset purchase programs, dated per the Yardeni chronology of QE.
var (
	QE1   = model.Span{Label: "QE1", Begin: ymd(2008, 11, 25), End: ymd(2010, 5, 31)}
	QE2   = model.Span{Label: "QE2", Begin: ymd(2010, 11, 3), End: ymd(2011, 9, 21)}
	Twist = model.Span{Label: "Operation Twist", Begin: ymd(2011, 9, 21), End: ymd(2012, 6, 29)}
	QE3   = model.Span{Label: "QE3", Begin: ymd(2012, 9, 13), End: ymd(2013, 12, 18)}
	Taper = model.Span{Label: "Taper", Begin: ymd(2013, 12, 18), End: ymd(2014, 10, 29)}
	QE4   = model.Span{Label: "QE4", Begin: ymd(2020, 3, 11)}
)

const (
	QECaption           = "Shaded color areas indicate major Fed QE programs - Twist and Tapering ignored"
	QETwistTaperCaption = "Shaded color areas indicate major Fed QE programs, Operation Twist and Tapering"
)

// Program is a span with its fill.
type Program struct {
	Span model.Span
	Fill Fill
}

// QEOptions tunes ShadeQE.
type QEOptions struct {
	// IncludeTwistAndTaper also shades Operation Twist and the taper.
	IncludeTwistAndTaper bool
}

// QEPrograms lists the programs to shade in chronological order.
func QEPrograms(opts QEOptions) []Program {
	programs := []Program{{QE1, QEFill}, {QE2, QEFill}}
	if opts.IncludeTwistAndTaper {
		programs = append(programs, Program{Twist, TwistFill})
	}
	programs = append(programs, Program{QE3, QEFill})
	if opts.IncludeTwistAndTaper {
		programs = append(programs, Program{Taper, TaperFill})
	}
	return append(programs, Program{QE4, QEFill})
}

// ShadeQE shades the QE programs that start after leftmost. QE4 is still
// running and ends at now.
func ShadeQE(ax Axis, leftmost, now time.Time, opts QEOptions) *Report {
	report := &Report{}
	for _, p := range QEPrograms(opts) {
		report.Spans = append(report.Spans, drawSpan(ax, p.Span, leftmost, now, p.Fill))
	}
	if opts.IncludeTwistAndTaper {
		ax.AddText(caption(QETwistTaperCaption))
	} else {
		ax.AddText(caption(QECaption))
	}
	report.Captioned = true
	return report
}

func ymd(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
