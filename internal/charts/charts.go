// Package charts renders dashboard figures as PNG images.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"sales-dashboard/internal/geo"
	"sales-dashboard/internal/models"
)

var ErrNoData = errors.New("charts: nothing to plot")

var (
	barColor = color.RGBA{R: 255, G: 180, B: 130, A: 255}
	palette  = []color.RGBA{
		{R: 161, G: 201, B: 244, A: 255},
		{R: 255, G: 180, B: 130, A: 255},
		{R: 141, G: 229, B: 161, A: 255},
		{R: 255, G: 159, B: 155, A: 255},
		{R: 208, G: 187, B: 255, A: 255},
		{R: 222, G: 187, B: 155, A: 255},
	}
)

// Spec carries the labels and canvas size shared by every chart.
type Spec struct {
	Title  string
	XLabel string
	YLabel string
	Width  vg.Length
	Height vg.Length
}

func (s Spec) size() (vg.Length, vg.Length) {
	w, h := s.Width, s.Height
	if w <= 0 {
		w = 10 * vg.Inch
	}
	if h <= 0 {
		h = 5 * vg.Inch
	}
	return w, h
}

type Point struct {
	X, Y float64
}

type Series struct {
	Name   string
	Points []Point
}

func newPlot(spec Spec) *plot.Plot {
	p := plot.New()
	p.Title.Text = spec.Title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = spec.XLabel
	p.Y.Label.Text = spec.YLabel
	p.Add(plotter.NewGrid())
	return p
}

func render(p *plot.Plot, spec Spec) ([]byte, error) {
	w, h := spec.size()
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, fmt.Errorf("create png writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render png: %w", err)
	}
	return buf.Bytes(), nil
}

// Line draws one line per series. ticks, when given, replace the default X
// axis ticks.
func Line(spec Spec, series []Series, ticks []plot.Tick) ([]byte, error) {
	if len(series) == 0 {
		return nil, ErrNoData
	}

	p := newPlot(spec)
	for i, s := range series {
		if len(s.Points) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(s.Points))
		for j, pt := range s.Points {
			xys[j].X, xys[j].Y = pt.X, pt.Y
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", s.Name, err)
		}
		line.Color = palette[i%len(palette)]
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}
	if len(ticks) > 0 {
		p.X.Tick.Marker = plot.ConstantTicks(ticks)
	}
	p.Legend.Top = true

	return render(p, spec)
}

// Bar draws one bar per label, annotated with its value.
func Bar(spec Spec, labels []string, values []float64) ([]byte, error) {
	if len(values) == 0 || len(labels) != len(values) {
		return nil, ErrNoData
	}

	p := newPlot(spec)
	bars, err := plotter.NewBarChart(plotter.Values(values), barWidth(len(values), spec))
	if err != nil {
		return nil, fmt.Errorf("bar chart: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(labels...)

	if err := annotate(p, values); err != nil {
		return nil, err
	}
	return render(p, spec)
}

// Count draws category frequencies as bars.
func Count(spec Spec, categories []string, counts []int) ([]byte, error) {
	values := make([]float64, len(counts))
	for i, c := range counts {
		values[i] = float64(c)
	}
	return Bar(spec, categories, values)
}

// Bins draws precomputed histogram bins.
func Bins(spec Spec, bins []models.HistogramBin) ([]byte, error) {
	if len(bins) == 0 {
		return nil, ErrNoData
	}

	h := &plotter.Histogram{FillColor: barColor}
	h.LineStyle.Width = vg.Points(0.5)
	h.LineStyle.Color = color.Black
	for _, b := range bins {
		upper := b.Upper
		if upper <= b.Lower {
			upper = b.Lower + 1
		}
		h.Bins = append(h.Bins, plotter.HistogramBin{Min: b.Lower, Max: upper, Weight: float64(b.Count)})
	}
	h.Width = h.Bins[0].Max - h.Bins[0].Min

	p := newPlot(spec)
	p.Add(h)
	return render(p, spec)
}

// Choropleth draws one bar per region, filled with the region's shade, so the
// regional colour scale can be read alongside the totals.
func Choropleth(spec Spec, regions []models.RegionShade) ([]byte, error) {
	if len(regions) == 0 {
		return nil, ErrNoData
	}

	p := newPlot(spec)
	names := make([]string, len(regions))
	values := make([]float64, len(regions))
	width := barWidth(len(regions), spec)

	for i, r := range regions {
		names[i] = r.Region
		values[i] = r.Sales
		bar, err := plotter.NewBarChart(plotter.Values{r.Sales}, width)
		if err != nil {
			return nil, fmt.Errorf("region %q: %w", r.Region, err)
		}
		bar.XMin = float64(i)
		bar.Color = geo.Color(r.Intensity)
		bar.LineStyle.Width = vg.Points(0.5)
		p.Add(bar)
	}
	p.NominalX(names...)

	for _, stop := range []float64{0, 0.5, 1} {
		swatch, err := plotter.NewBarChart(plotter.Values{0}, vg.Points(1))
		if err != nil {
			return nil, err
		}
		swatch.Color = geo.Color(stop)
		p.Legend.Add(fmt.Sprintf("%.0f%% of max", stop*100), swatch)
	}
	p.Legend.Top = true

	if err := annotate(p, values); err != nil {
		return nil, err
	}
	return render(p, spec)
}

func annotate(p *plot.Plot, values []float64) error {
	xys := make(plotter.XYs, len(values))
	texts := make([]string, len(values))
	for i, v := range values {
		xys[i].X, xys[i].Y = float64(i), v
		texts[i] = humanize(v)
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return fmt.Errorf("labels: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = -0.5
		labels.TextStyle[i].YAlign = 0
	}
	p.Add(labels)
	return nil
}

func barWidth(n int, spec Spec) vg.Length {
	w, _ := spec.size()
	width := w / vg.Length(n+2) * 0.6
	return vg.Length(math.Max(float64(width), float64(vg.Points(4))))
}

func humanize(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case abs >= 1e4:
		return fmt.Sprintf("%.1fk", v/1e3)
	case v == math.Trunc(v):
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
