// Package viz renders the figures that accompany the reports. It is a
// thin layer over gonum/plot: each helper builds one figure and saves
// it as PNG at the requested size.
package viz

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// palette colors the grouped scatters; groups beyond its length wrap
// around.
var palette = []color.RGBA{
	{R: 57, G: 106, B: 177, A: 255},
	{R: 218, G: 124, B: 48, A: 255},
	{R: 62, G: 150, B: 81, A: 255},
	{R: 204, G: 37, B: 41, A: 255},
	{R: 107, G: 76, B: 154, A: 255},
	{R: 146, G: 36, B: 40, A: 255},
}

// Plot carries the labels and the figure size in inches. The zero
// value renders a 4x4 inch untitled figure.
type Plot struct {
	Title  string
	XLabel string
	YLabel string
	Width  float64
	Height float64
}

func (c Plot) newPlot() *plot.Plot {
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	return p
}

func (c Plot) save(p *plot.Plot, path string) error {
	w, h := c.Width, c.Height
	if w <= 0 {
		w = 4
	}
	if h <= 0 {
		h = 4
	}
	if err := p.Save(vg.Length(w)*vg.Inch, vg.Length(h)*vg.Inch, path); err != nil {
		return fmt.Errorf("viz: save %s: %w", path, err)
	}
	return nil
}

// ScatterClasses draws 2-D points colored by label, with optional
// centroid crosses and a legend naming each group.
func (c Plot) ScatterClasses(path string, X [][]float64, labels []int, names []string, centroids [][]float64) error {
	p := c.newPlot()
	nGroups := 0
	for _, l := range labels {
		if l+1 > nGroups {
			nGroups = l + 1
		}
	}
	for g := 0; g < nGroups; g++ {
		pts := make(plotter.XYs, 0)
		for i, l := range labels {
			if l == g {
				pts = append(pts, plotter.XY{X: X[i][0], Y: X[i][1]})
			}
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("viz: scatter: %w", err)
		}
		s.Color = palette[g%len(palette)]
		s.Radius = vg.Points(2.5)
		p.Add(s)
		if g < len(names) {
			p.Legend.Add(names[g], s)
		}
	}
	if len(centroids) > 0 {
		pts := make(plotter.XYs, len(centroids))
		for i, ctr := range centroids {
			pts[i] = plotter.XY{X: ctr[0], Y: ctr[1]}
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("viz: centroids: %w", err)
		}
		s.Color = color.RGBA{A: 255}
		s.Shape = draw.CrossGlyph{}
		s.Radius = vg.Points(5)
		p.Add(s)
	}
	return c.save(p, path)
}

// Scatter draws one x/y point cloud; withIdentity adds the 45-degree
// line, the reference for fitted-versus-observed figures.
func (c Plot) Scatter(path string, xs, ys []float64, withIdentity bool) error {
	p := c.newPlot()
	pts := make(plotter.XYs, len(xs))
	lo, hi := xs[0], xs[0]
	for i := range xs {
		pts[i] = plotter.XY{X: xs[i], Y: ys[i]}
		for _, v := range []float64{xs[i], ys[i]} {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("viz: scatter: %w", err)
	}
	s.Color = palette[0]
	s.Radius = vg.Points(2.5)
	p.Add(s)
	if withIdentity {
		l, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
		if err != nil {
			return fmt.Errorf("viz: identity line: %w", err)
		}
		l.Color = color.RGBA{R: 120, G: 120, B: 120, A: 255}
		l.Width = vg.Points(1)
		l.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(l)
	}
	return c.save(p, path)
}

// Histogram draws a binned distribution.
func (c Plot) Histogram(path string, values []float64, bins int) error {
	p := c.newPlot()
	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return fmt.Errorf("viz: histogram: %w", err)
	}
	h.FillColor = palette[0]
	p.Add(h)
	return c.save(p, path)
}

// Trace draws sampler draws against iteration index, with a horizontal
// reference line (usually the MLE the chain should settle around).
func (c Plot) Trace(path string, draws []float64, reference float64) error {
	p := c.newPlot()
	pts := make(plotter.XYs, len(draws))
	for i, v := range draws {
		pts[i] = plotter.XY{X: float64(i), Y: v}
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("viz: trace: %w", err)
	}
	l.Color = palette[0]
	p.Add(l)

	ref, err := plotter.NewLine(plotter.XYs{
		{X: 0, Y: reference},
		{X: float64(len(draws) - 1), Y: reference},
	})
	if err != nil {
		return fmt.Errorf("viz: reference line: %w", err)
	}
	ref.Color = color.RGBA{R: 204, G: 37, B: 41, A: 255}
	ref.Width = vg.Points(1.5)
	ref.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(ref)
	return c.save(p, path)
}

// Line draws one connected line through the x/y pairs, scatter glyphs
// on top, as in an elbow chart.
func (c Plot) Line(path string, xs, ys []float64) error {
	p := c.newPlot()
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i] = plotter.XY{X: xs[i], Y: ys[i]}
	}
	l, s, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("viz: line: %w", err)
	}
	l.Color = palette[0]
	l.Width = vg.Points(1.5)
	s.Color = palette[0]
	s.Radius = vg.Points(3)
	p.Add(l, s)
	return c.save(p, path)
}

// Bars draws one bar per named value and prints the value above it,
// so rates in the same few percent stay readable off the figure.
func (c Plot) Bars(path string, names []string, values []float64) error {
	p := c.newPlot()
	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(24))
	if err != nil {
		return fmt.Errorf("viz: bars: %w", err)
	}
	bars.Color = palette[0]
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)

	top := 0.0
	for _, v := range values {
		if v > top {
			top = v
		}
	}
	pad := 0.02
	if top > 0 {
		pad = 0.02 * top
	}
	xls := plotter.XYLabels{
		XYs:    make(plotter.XYs, len(values)),
		Labels: make([]string, len(values)),
	}
	for i, v := range values {
		xls.XYs[i] = plotter.XY{X: float64(i), Y: v + pad}
		xls.Labels[i] = fmt.Sprintf("%.3g", v)
	}
	labels, err := plotter.NewLabels(xls)
	if err != nil {
		return fmt.Errorf("viz: bar labels: %w", err)
	}
	p.Add(labels)
	return c.save(p, path)
}
