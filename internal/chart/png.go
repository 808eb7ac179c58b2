package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"
)

// ErrNoSeries is returned when asked to render a nil series.
var ErrNoSeries = errors.New("no price history to chart")

// PNGOptions sizes a rendered image.
type PNGOptions struct {
	Title  string
	Width  int
	Height int
}

// DefaultPNGOptions returns a 1024x512 image titled after the product.
func DefaultPNGOptions(s *Series) PNGOptions {
	title := "Price over time"
	if s != nil && s.Product != "" {
		title = s.Product + ": " + title
	}
	return PNGOptions{Title: title, Width: 1024, Height: 512}
}

// RenderPNG draws s as a line chart and writes the PNG to w. Only the
// non-blank labels become x axis ticks.
func RenderPNG(w io.Writer, s *Series, opts PNGOptions) error {
	if s == nil || s.Len() == 0 {
		return ErrNoSeries
	}

	ticks := make([]gochart.Tick, 0, s.Len()/s.Step+1)
	for i, label := range s.Labels {
		if label != "" {
			ticks = append(ticks, gochart.Tick{Value: float64(i), Label: label})
		}
	}

	xs, values := linePoints(s.Values)

	series := []gochart.Series{
		gochart.ContinuousSeries{
			Name:    NormalSeriesName,
			XValues: xs,
			YValues: values,
			Style: gochart.Style{
				StrokeColor: gochart.ColorBlue,
				StrokeWidth: 2,
				DotColor:    gochart.ColorBlue,
				DotWidth:    3,
			},
		},
	}
	if s.HasBatch() {
		_, batch := linePoints(s.Batch)
		series = append(series, gochart.ContinuousSeries{
			Name:    BatchSeriesName,
			XValues: xs,
			YValues: batch,
			Style: gochart.Style{
				StrokeColor: gochart.ColorOrange,
				StrokeWidth: 2,
				DotColor:    gochart.ColorOrange,
				DotWidth:    3,
			},
		})
	}

	lo, hi := valueRange(s)
	c := gochart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Ticks: ticks,
			Range: &gochart.ContinuousRange{Min: -0.5, Max: float64(s.Len()) - 0.5},
		},
		YAxis: gochart.YAxis{
			Name:  "€",
			Range: &gochart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", f)
				}
				return ""
			},
		},
		Series: series,
	}
	if s.HasBatch() {
		c.Elements = []gochart.Renderable{gochart.Legend(&c)}
	}

	var buf bytes.Buffer
	if err := c.Render(gochart.PNG, &buf); err != nil {
		return fmt.Errorf("rendering price chart: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("writing price chart: %w", err)
	}
	return nil
}

// linePoints returns the x and y values of one plotted line. go-chart needs
// at least two points, so a single observation becomes a flat segment
// spanning its slot.
func linePoints(ys []float64) ([]float64, []float64) {
	if len(ys) == 1 {
		return []float64{-0.5, 0.5}, []float64{ys[0], ys[0]}
	}
	xs := make([]float64, len(ys))
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs, ys
}

// valueRange returns the y range covering every plotted value, padded so a
// flat or single point line is not drawn on the frame edge.
func valueRange(s *Series) (float64, float64) {
	lo, hi := s.Values[0], s.Values[0]
	for _, v := range s.Values {
		lo, hi = min(lo, v), max(hi, v)
	}
	for _, v := range s.Batch {
		lo, hi = min(lo, v), max(hi, v)
	}

	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = 1
	}
	return max(0, lo-pad), hi + pad
}
