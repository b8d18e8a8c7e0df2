// Package render rasterises chart specifications to PNG.
package render

import (
	"fmt"
	"io"
	"strings"

	"dashkit/domain/chart"
	"dashkit/internal/errors"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 480
)

// Size is the output image size in pixels
type Size struct {
	Width  int
	Height int
}

// DefaultSize is used when a dimension is not positive
var DefaultSize = Size{Width: DefaultWidth, Height: DefaultHeight}

// PNG draws spec at the default size
func PNG(w io.Writer, spec chart.Spec) error {
	return PNGSize(w, spec, DefaultSize)
}

// PNGSize draws histograms and count plots as bar charts and line and
// scatter charts as continuous series. Boxplots and heatmaps have no raster
// form and fail with NO_APPLICABLE_CHART.
func PNGSize(w io.Writer, spec chart.Spec, size Size) error {
	if size.Width <= 0 {
		size.Width = DefaultWidth
	}
	if size.Height <= 0 {
		size.Height = DefaultHeight
	}

	var renderable interface {
		Render(rp gochart.RendererProvider, w io.Writer) error
	}

	switch s := spec.(type) {
	case chart.Histogram:
		bc, err := histogramChart(s, size)
		if err != nil {
			return err
		}
		renderable = bc
	case chart.CountPlot:
		bc, err := countChart(s, size)
		if err != nil {
			return err
		}
		renderable = bc
	case chart.LineSeries:
		c, err := lineChart(s, size)
		if err != nil {
			return err
		}
		renderable = c
	case chart.ScatterPlot:
		c, err := scatterChart(s, size)
		if err != nil {
			return err
		}
		renderable = c
	case nil:
		return errors.InvalidInput("no chart to render")
	default:
		return errors.NoApplicableChart(string(spec.ChartKind()), "no PNG rendering for this chart kind")
	}

	if err := renderable.Render(gochart.PNG, w); err != nil {
		return errors.Wrap(err, "failed to render "+string(spec.ChartKind()))
	}
	return nil
}

func histogramChart(h chart.Histogram, size Size) (*gochart.BarChart, error) {
	if len(h.Counts) == 0 {
		return nil, errors.NoApplicableChart(string(h.ChartKind()), "no values to plot")
	}
	bars := make([]gochart.Value, len(h.Counts))
	for i, c := range h.Counts {
		bars[i] = gochart.Value{
			Value: float64(c),
			Label: fmt.Sprintf("%.3g", h.Edges[i]),
			Style: fill(h.Color),
		}
	}
	return barChart(h.ChartTitle(), bars, size), nil
}

func countChart(c chart.CountPlot, size Size) (*gochart.BarChart, error) {
	if len(c.Counts) == 0 {
		return nil, errors.NoApplicableChart(string(c.ChartKind()), "no values to plot")
	}
	bars := make([]gochart.Value, len(c.Counts))
	for i, n := range c.Counts {
		bars[i] = gochart.Value{Value: float64(n), Label: c.Categories[i], Style: fill(c.Color)}
	}
	return barChart(c.ChartTitle(), bars, size), nil
}

func barChart(title string, bars []gochart.Value, size Size) *gochart.BarChart {
	top := 0.0
	for _, b := range bars {
		if b.Value > top {
			top = b.Value
		}
	}
	if top == 0 {
		top = 1
	}

	// bars plus a fifth of a bar spacing each must fit the canvas
	barWidth := (size.Width - 120) * 5 / (6 * len(bars))
	if barWidth < 2 {
		barWidth = 2
	}
	return &gochart.BarChart{
		Title:      title,
		Width:      size.Width,
		Height:     size.Height,
		BarWidth:   barWidth,
		BarSpacing: barWidth / 5,
		Background: gochart.Style{Padding: gochart.Box{Top: 40}},
		YAxis:      gochart.YAxis{Range: &gochart.ContinuousRange{Min: 0, Max: top}},
		Bars:       bars,
	}
}

func lineChart(l chart.LineSeries, size Size) (*gochart.Chart, error) {
	xs := make([]float64, 0, len(l.X))
	ys := make([]float64, 0, len(l.Y))
	for i, y := range l.Y {
		if !y.Defined {
			continue
		}
		xs = append(xs, float64(l.X[i]))
		ys = append(ys, y.Value)
	}
	if len(xs) == 0 {
		return nil, errors.NoApplicableChart(string(l.ChartKind()), "no values to plot")
	}

	style := gochart.Style{StrokeColor: color(l.Color), StrokeWidth: 2}
	if len(xs) == 1 {
		style.DotWidth = 4
		style.DotColor = color(l.Color)
	}
	series := gochart.ContinuousSeries{Name: l.Column, XValues: xs, YValues: ys, Style: style}
	return continuousChart(l.ChartTitle(), "row", l.Column, series, size), nil
}

func scatterChart(s chart.ScatterPlot, size Size) (*gochart.Chart, error) {
	if len(s.Points) == 0 {
		return nil, errors.NoApplicableChart(string(s.ChartKind()), "no complete pairs to plot")
	}
	xs := make([]float64, len(s.Points))
	ys := make([]float64, len(s.Points))
	for i, p := range s.Points {
		xs[i], ys[i] = p.X, p.Y
	}

	series := gochart.ContinuousSeries{
		Name:    s.ChartTitle(),
		XValues: xs,
		YValues: ys,
		Style: gochart.Style{
			StrokeWidth: gochart.Disabled,
			DotWidth:    4,
			DotColor:    color(s.Color),
		},
	}
	return continuousChart(s.ChartTitle(), s.XColumn, s.YColumn, series, size), nil
}

func continuousChart(title, xName, yName string, series gochart.ContinuousSeries, size Size) *gochart.Chart {
	return &gochart.Chart{
		Title:      title,
		Width:      size.Width,
		Height:     size.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 12}},
		XAxis:      gochart.XAxis{Name: xName, Range: paddedRange(series.XValues)},
		YAxis:      gochart.YAxis{Name: yName, Range: paddedRange(series.YValues)},
		Series:     []gochart.Series{series},
	}
}

// paddedRange spans values; go-chart cannot draw a zero-width axis so a
// single distinct value is widened by one unit each side.
func paddedRange(values []float64) *gochart.ContinuousRange {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	return &gochart.ContinuousRange{Min: lo, Max: hi}
}

func fill(hex string) gochart.Style {
	c := color(hex)
	return gochart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1}
}

func color(hex string) drawing.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 && len(hex) != 3 {
		return gochart.ColorBlue
	}
	return drawing.ColorFromHex(hex)
}
