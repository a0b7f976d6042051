// Package chart lays out and draws the one-day tide chart. Build is pure;
// RenderSVG and RenderPNG turn a Plan into an image with go-chart.
package chart

import (
	"fmt"
	"strings"
	"time"

	"tidegauge-server/internal/modules/tide/types"
)

// Fixed vertical band of the chart, in sensor distance units.
const (
	YMin = -30.0
	YMax = 15.0
)

type TickMode string

const (
	// TicksWindow derives ticks from the page's own day window.
	TicksWindow TickMode = "window"
	// TicksFixed draws the legacy absolute tick table on every page.
	TicksFixed TickMode = "fixed"
)

func ParseTickMode(s string) (TickMode, error) {
	switch m := TickMode(strings.ToLower(strings.TrimSpace(s))); m {
	case TicksWindow, TicksFixed:
		return m, nil
	case "":
		return TicksWindow, nil
	default:
		return "", fmt.Errorf("invalid tick mode %q (allowed: window, fixed)", s)
	}
}

type Options struct {
	TickMode TickMode
	// Location is used for tick labels. Nil means the window's own location.
	Location *time.Location
}

type Tick struct {
	Unix  int64  `json:"x"`
	Label string `json:"label"`
}

// Plan is everything needed to draw one page. Points keep upstream order and
// may lie outside the axis bounds.
type Plan struct {
	XMin   int64              `json:"xMin"`
	XMax   int64              `json:"xMax"`
	YMin   float64            `json:"yMin"`
	YMax   float64            `json:"yMax"`
	Ticks  []Tick             `json:"ticks"`
	Points []types.ChartPoint `json:"points"`
	// Markers is always false: the line is drawn without point circles.
	Markers bool `json:"markers"`
	// Caption is drawn over the plot area when set, e.g. for empty pages.
	Caption string `json:"caption,omitempty"`
}

func Build(w types.DayWindow, points []types.ChartPoint, opts Options) Plan {
	loc := opts.Location
	if loc == nil {
		loc = w.Start.Location()
	}

	var raw []int64
	switch opts.TickMode {
	case TicksFixed:
		raw = FixedTicks()
	default:
		raw = WindowTicks(w, TickStep)
	}
	ticks := make([]Tick, len(raw))
	for i, v := range raw {
		ticks[i] = Tick{Unix: v, Label: TickLabel(v, loc)}
	}

	pts := make([]types.ChartPoint, len(points))
	copy(pts, points)

	return Plan{
		XMin:   w.StartUnix(),
		XMax:   w.EndUnix(),
		YMin:   YMin,
		YMax:   YMax,
		Ticks:  ticks,
		Points: pts,
	}
}

// VisibleTicks returns the ticks inside [XMin, XMax].
func (p Plan) VisibleTicks() []Tick {
	var out []Tick
	for _, t := range p.Ticks {
		if t.Unix >= p.XMin && t.Unix <= p.XMax {
			out = append(out, t)
		}
	}
	return out
}
