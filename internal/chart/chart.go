// Package chart renders a fetched price series as a PNG line chart with
// fixed dimensions and a visible grid. Rendering is display-only and never
// mutates the series.
package chart

import (
	"fmt"
	"io"
	"math"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"krxcli/internal/analytics"
	"krxcli/pkg/contracts/domain"
)

// Fixed output dimensions.
const (
	Width  = 1120
	Height = 560
)

// Moving-average overlay windows, matching the dashboard options.
const (
	MA20Window = 20
	MA60Window = 60
)

// Options controls the optional overlays of a rendered chart.
type Options struct {
	Title    string
	ShowMA20 bool
	ShowMA60 bool
}

// Render draws the series as a line chart and writes PNG bytes to w.
// At least two candles are required to draw a line.
func Render(w io.Writer, series domain.PriceSeries, opts Options) error {
	if len(series) < 2 {
		return fmt.Errorf("chart: need at least 2 candles, got %d", len(series))
	}

	dates := series.Dates()
	closes := series.Closes()

	gridStyle := gochart.Style{
		StrokeColor: drawing.Color{R: 220, G: 220, B: 220, A: 255},
		StrokeWidth: 1.0,
	}

	graph := gochart.Chart{
		Title:  opts.Title,
		Width:  Width,
		Height: Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Name:           "Date",
			ValueFormatter: gochart.TimeDateValueFormatter,
			GridMajorStyle: gridStyle,
			GridMinorStyle: gridStyle,
		},
		YAxis: gochart.YAxis{
			Name:           "Price",
			GridMajorStyle: gridStyle,
			GridMinorStyle: gridStyle,
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    "Close",
				XValues: dates,
				YValues: closes,
				Style: gochart.Style{
					StrokeColor: gochart.ColorBlue,
					StrokeWidth: 2.0,
				},
			},
		},
	}

	if opts.ShowMA20 {
		if s, ok := maSeries("MA20", dates, closes, MA20Window, gochart.ColorGreen); ok {
			graph.Series = append(graph.Series, s)
		}
	}
	if opts.ShowMA60 {
		if s, ok := maSeries("MA60", dates, closes, MA60Window, gochart.ColorOrange); ok {
			graph.Series = append(graph.Series, s)
		}
	}

	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	return graph.Render(gochart.PNG, w)
}

// maSeries builds a moving-average overlay, dropping the positions before
// a full window. Windows longer than the series yield no overlay.
func maSeries(name string, dates []time.Time, closes []float64, window int, color drawing.Color) (gochart.Series, bool) {
	ma := analytics.MovingAverage(closes, window)

	var xs []time.Time
	var ys []float64
	for i, v := range ma {
		if !math.IsNaN(v) {
			xs = append(xs, dates[i])
			ys = append(ys, v)
		}
	}
	if len(ys) < 2 {
		return nil, false
	}

	return gochart.TimeSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style: gochart.Style{
			StrokeColor:     color,
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{4.0, 2.0},
		},
	}, true
}
