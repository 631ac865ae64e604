package output

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/dotcommander/qmreport/internal/report"
	"github.com/dotcommander/qmreport/internal/types"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNotPlottable is returned for charts that have no graphical form.
var ErrNotPlottable = errors.New("chart kind has no graphical rendering")

// Chart canvas size
const (
	ChartWidth  = 10 * vg.Inch
	ChartHeight = 6 * vg.Inch
)

var (
	tierColors = map[types.Tier]color.RGBA{
		types.TierGreen:  {R: 0x2e, G: 0xcc, B: 0x71, A: 0xff},
		types.TierOrange: {R: 0xf3, G: 0x9c, B: 0x12, A: 0xff},
		types.TierRed:    {R: 0xe7, G: 0x4c, B: 0x3c, A: 0xff},
	}
	neutralColor = color.RGBA{R: 0x34, G: 0x98, B: 0xdb, A: 0xff}
	inkColor     = color.RGBA{R: 0x2c, G: 0x3e, B: 0x50, A: 0xff}

	// series palette for grouped bars
	palette = []color.RGBA{
		{R: 0x34, G: 0x98, B: 0xdb, A: 0xff},
		{R: 0xe6, G: 0x7e, B: 0x22, A: 0xff},
		{R: 0x2e, G: 0xcc, B: 0x71, A: 0xff},
		{R: 0x9b, G: 0x59, B: 0xb6, A: 0xff},
		{R: 0xe7, G: 0x4c, B: 0x3c, A: 0xff},
		{R: 0x1a, G: 0xbc, B: 0x9c, A: 0xff},
	}
)

// Plottable reports whether c renders to an image.
func Plottable(c report.Chart) bool {
	switch c.Kind {
	case report.ChartGroupedBar, report.ChartHorizontalBar, report.ChartScatter, report.ChartRadar:
		return true
	}
	return false
}

// RenderChartPNG draws c as a PNG of the standard chart size.
func RenderChartPNG(w io.Writer, c report.Chart) error {
	return renderChartPNG(w, c, ChartWidth)
}

func renderChartPNG(w io.Writer, c report.Chart, width vg.Length) error {
	p, err := buildPlot(c)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(width, ChartHeight, "png")
	if err != nil {
		return fmt.Errorf("error creating png canvas: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("error encoding png: %w", err)
	}
	return nil
}

// ChartPNG returns the PNG bytes of c.
func ChartPNG(c report.Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := RenderChartPNG(&buf, c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// embedWidthStep widens each successive chart embedded in one PDF. fpdf
// sorts image objects by pixel width only, so every image needs its own width.
const embedWidthStep = vg.Inch / 24

// embeddedChartPNG renders c as the seq-th image of a PDF.
func embeddedChartPNG(c report.Chart, seq int) ([]byte, error) {
	var buf bytes.Buffer
	if err := renderChartPNG(&buf, c, ChartWidth+vg.Length(seq)*embedWidthStep); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildPlot(c report.Chart) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Title.TextStyle.Color = inkColor

	var err error
	switch c.Kind {
	case report.ChartGroupedBar, report.ChartRadar:
		err = groupedBars(p, c)
	case report.ChartHorizontalBar:
		err = tieredBars(p, c)
	case report.ChartScatter:
		err = scatter(p, c)
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotPlottable, c.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("error plotting %s chart: %w", c.Kind, err)
	}
	return p, nil
}

// groupedBars draws one bar per series side by side for every category.
// Radar charts use the same layout over normalised axes.
func groupedBars(p *plot.Plot, c report.Chart) error {
	if len(c.Categories) == 0 || len(c.Series) == 0 {
		p.NominalX("(no data)")
		return nil
	}

	n := len(c.Series)
	width := vg.Points(math.Max(4, math.Min(24, 360/float64(len(c.Categories)*n))))
	for i, s := range c.Series {
		bars, err := plotter.NewBarChart(plotter.Values(padValues(s.Values, len(c.Categories))), width)
		if err != nil {
			return err
		}
		bars.Color = palette[i%len(palette)]
		bars.LineStyle.Width = 0
		bars.Offset = vg.Length(float64(i)-float64(n-1)/2) * width
		p.Add(bars)
		p.Legend.Add(s.Name, bars)
	}
	p.Legend.Top = true
	p.NominalX(c.Categories...)
	p.Add(plotter.NewGrid())
	return nil
}

// tieredBars draws horizontal bars coloured by tier with threshold lines.
func tieredBars(p *plot.Plot, c report.Chart) error {
	if len(c.Categories) == 0 || len(c.Series) == 0 {
		p.NominalY("(no data)")
		return nil
	}

	s := c.Series[0]
	width := vg.Points(math.Max(4, math.Min(28, 300/float64(len(c.Categories)))))

	// one chart per tier so each bar keeps its tier colour
	for _, tier := range types.Tiers() {
		values := make(plotter.Values, len(c.Categories))
		present := false
		for i := range values {
			if i < len(s.Values) && tierAt(s, i) == tier {
				values[i] = s.Values[i]
				present = true
			}
		}
		if !present {
			continue
		}
		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return err
		}
		bars.Horizontal = true
		bars.Color = tierColors[tier]
		bars.LineStyle.Width = 0
		p.Add(bars)
		p.Legend.Add(tier.Meaning(), bars)
	}

	top := float64(len(c.Categories)) - 0.5
	for _, ref := range c.References {
		line, err := plotter.NewLine(plotter.XYs{{X: ref.Value, Y: -0.5}, {X: ref.Value, Y: top}})
		if err != nil {
			return err
		}
		line.LineStyle.Color = tierColors[ref.Tier]
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
		p.Add(line)
		p.Legend.Add(ref.Label, line)
	}

	p.NominalY(c.Categories...)
	p.X.Min = 0
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return nil
}

func tierAt(s report.Series, i int) types.Tier {
	if i < len(s.Tiers) {
		return s.Tiers[i]
	}
	return types.TierGreen
}

// scatter draws labelled points sized by Point.Size and diagonal
// reference lines through the origin.
func scatter(p *plot.Plot, c report.Chart) error {
	if len(c.Points) == 0 {
		p.X.Min, p.X.Max, p.Y.Min, p.Y.Max = 0, 1, 0, 1
		return nil
	}

	xys := make(plotter.XYs, len(c.Points))
	labels := make([]string, len(c.Points))
	maxX := 0.0
	for i, pt := range c.Points {
		xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
		labels[i] = pt.Label
		maxX = math.Max(maxX, pt.X)
	}

	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{
			Color:  neutralColor,
			Radius: vg.Points(3 + math.Min(12, c.Points[i].Size)),
			Shape:  draw.CircleGlyph{},
		}
	}
	p.Add(sc)

	lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return err
	}
	for i := range lbl.TextStyle {
		lbl.TextStyle[i].Color = inkColor
		lbl.TextStyle[i].XAlign = text.XLeft
	}
	lbl.Offset = vg.Point{X: vg.Points(6), Y: vg.Points(4)}
	p.Add(lbl)

	for _, ref := range c.References {
		if !ref.Diagonal {
			continue
		}
		end := math.Max(maxX, 1)
		line, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: end, Y: ref.Value * end}})
		if err != nil {
			return err
		}
		line.LineStyle.Color = color.RGBA{R: 0x95, G: 0xa5, B: 0xa6, A: 0xff}
		line.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
		p.Add(line)
		p.Legend.Add(ref.Label, line)
	}

	p.X.Min, p.Y.Min = 0, 0
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())
	return nil
}

func padValues(values []float64, n int) []float64 {
	if len(values) >= n {
		return values[:n]
	}
	out := make([]float64, n)
	copy(out, values)
	return out
}
