package chart

import (
	"fmt"
	"io"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

type Size struct {
	Width  int
	Height int
}

var DefaultSize = Size{Width: 960, Height: 420}

var (
	lineColor    = drawing.ColorFromHex("1e88e5")
	captionColor = drawing.ColorFromHex("757575")
)

const yTickStep = 5.0

func RenderSVG(w io.Writer, p Plan, size Size) error {
	return render(w, p, size, gochart.SVG)
}

func RenderPNG(w io.Writer, p Plan, size Size) error {
	return render(w, p, size, gochart.PNG)
}

func render(w io.Writer, p Plan, size Size, rp gochart.RendererProvider) error {
	if size.Width <= 0 || size.Height <= 0 {
		size = DefaultSize
	}
	if p.XMax <= p.XMin || p.YMax <= p.YMin {
		return fmt.Errorf("empty axis range x=[%d, %d] y=[%g, %g]", p.XMin, p.XMax, p.YMin, p.YMax)
	}

	ch := gochart.Chart{
		Width:  size.Width,
		Height: size.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: gochart.XAxis{
			Range: &gochart.ContinuousRange{Min: float64(p.XMin), Max: float64(p.XMax)},
			Ticks: xTicks(p),
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: p.YMin, Max: p.YMax},
			Ticks: yTicks(p.YMin, p.YMax),
		},
		Series: lineSeries(p),
	}
	if p.Caption != "" {
		ch.Title = p.Caption
		ch.TitleStyle = gochart.Style{FontColor: captionColor, FontSize: 11}
	}

	if err := ch.Render(rp, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// xTicks is the visible plan ticks plus unlabelled marks at XMin and XMax.
// go-chart derives the X range from the tick span whenever ticks are given,
// so the boundary marks pin the axis to the full window.
func xTicks(p Plan) []gochart.Tick {
	visible := p.VisibleTicks()
	out := make([]gochart.Tick, 0, len(visible)+2)
	if len(visible) == 0 || visible[0].Unix != p.XMin {
		out = append(out, gochart.Tick{Value: float64(p.XMin)})
	}
	for _, t := range visible {
		out = append(out, gochart.Tick{Value: float64(t.Unix), Label: t.Label})
	}
	if len(visible) == 0 || visible[len(visible)-1].Unix != p.XMax {
		out = append(out, gochart.Tick{Value: float64(p.XMax)})
	}
	return out
}

func yTicks(lo, hi float64) []gochart.Tick {
	var out []gochart.Tick
	for v := math.Ceil(lo/yTickStep) * yTickStep; v <= hi; v += yTickStep {
		out = append(out, gochart.Tick{Value: v, Label: fmt.Sprintf("%g", v)})
	}
	return out
}

// lineSeries draws the points as plain lines clipped to the plot box. Each
// run that stays inside the box becomes its own series. go-chart refuses a
// chart without data, so a plan with nothing to draw gets an invisible
// baseline across the day to keep the axes.
func lineSeries(p Plan) []gochart.Series {
	pts := make([]xy, len(p.Points))
	for i, pt := range p.Points {
		pts[i] = xy{x: float64(pt.UnixSeconds), y: pt.Value}
	}
	box := rect{xMin: float64(p.XMin), xMax: float64(p.XMax), yMin: p.YMin, yMax: p.YMax}

	runs := clipToBox(pts, box)
	if len(runs) == 0 {
		return []gochart.Series{gochart.ContinuousSeries{
			Style: gochart.Style{
				Hidden:      true,
				StrokeColor: drawing.ColorTransparent,
			},
			XValues: []float64{box.xMin, box.xMax},
			YValues: []float64{0, 0},
		}}
	}

	out := make([]gochart.Series, 0, len(runs))
	for _, run := range runs {
		xs := make([]float64, len(run))
		ys := make([]float64, len(run))
		for i, v := range run {
			xs[i], ys[i] = v.x, v.y
		}
		out = append(out, gochart.ContinuousSeries{
			Style: gochart.Style{
				StrokeColor: lineColor,
				StrokeWidth: 2,
			},
			XValues: xs,
			YValues: ys,
		})
	}
	return out
}
