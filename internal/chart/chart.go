// Package chart draws latent-heat and comparison reports with gonum/plot.
package chart

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ppiankov/clausius/internal/model"
)

const inverseTScale = 1e6

var (
	dataColor      = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	referenceColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	fitColor       = color.RGBA{R: 255, G: 127, B: 14, A: 255}
)

// Size is the output canvas size
type Size struct {
	Width  vg.Length
	Height vg.Length
}

// DefaultSize is a 7x5 inch canvas
var DefaultSize = Size{Width: 7 * vg.Inch, Height: 5 * vg.Inch}

// errorPoints satisfies both error bar interfaces
type errorPoints struct {
	plotter.XYs
	plotter.XErrors
	plotter.YErrors
}

// Latent plots ln(P) against 1/T with error bars and the fitted line
func Latent(title string, lr *model.LatentReport) (*plot.Plot, error) {
	if lr == nil || len(lr.Samples) == 0 {
		return nil, model.NewInputError("chart", "no latent samples to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "1/T (×10⁻⁶ K⁻¹)"
	p.Y.Label.Text = "ln(P/mmHg)"
	p.Add(plotter.NewGrid())

	pts := errorPoints{
		XYs:     make(plotter.XYs, len(lr.Samples)),
		XErrors: make(plotter.XErrors, len(lr.Samples)),
		YErrors: make(plotter.YErrors, len(lr.Samples)),
	}
	for i, s := range lr.Samples {
		pts.XYs[i].X = s.X * inverseTScale
		pts.XYs[i].Y = s.Y
		pts.XErrors[i].Low = s.SigmaX * inverseTScale
		pts.XErrors[i].High = s.SigmaX * inverseTScale
		pts.YErrors[i].Low = s.SigmaY
		pts.YErrors[i].High = s.SigmaY
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("scatter: %w", err)
	}
	scatter.GlyphStyle.Color = dataColor

	xBars, err := plotter.NewXErrorBars(pts)
	if err != nil {
		return nil, fmt.Errorf("x error bars: %w", err)
	}
	xBars.LineStyle.Color = dataColor
	yBars, err := plotter.NewYErrorBars(pts)
	if err != nil {
		return nil, fmt.Errorf("y error bars: %w", err)
	}
	yBars.LineStyle.Color = dataColor

	p.Add(scatter, xBars, yBars)
	p.Legend.Add("measured", scatter)

	if len(lr.Curve) > 1 {
		curve := make([]model.Point, len(lr.Curve))
		for i, pt := range lr.Curve {
			curve[i] = model.Point{X: pt.X * inverseTScale, Y: pt.Y}
		}
		line, err := newLine(curve, fitColor)
		if err != nil {
			return nil, err
		}
		p.Add(line)
		p.Legend.Add("weighted fit", line)
	}

	p.Legend.Top = true
	return p, nil
}

// Comparison plots measured and interpolated pressures with both trend lines
func Comparison(title string, cr *model.ComparisonReport) (*plot.Plot, error) {
	if cr == nil || len(cr.Rows) == 0 {
		return nil, model.NewInputError("chart", "no comparison rows to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "T (°C)"
	p.Y.Label.Text = "P (mmHg)"
	p.Add(plotter.NewGrid())

	measured := make(plotter.XYs, 0, len(cr.Rows))
	reference := make(plotter.XYs, 0, len(cr.Rows))
	for _, row := range cr.Rows {
		measured = append(measured, plotter.XY{X: row.X, Y: row.Measured})
		if row.Reference != nil {
			reference = append(reference, plotter.XY{X: row.X, Y: row.Reference.Value})
		}
	}

	ms, err := plotter.NewScatter(measured)
	if err != nil {
		return nil, fmt.Errorf("measured scatter: %w", err)
	}
	ms.GlyphStyle.Color = dataColor
	p.Add(ms)
	p.Legend.Add("measured", ms)

	if len(reference) > 0 {
		rs, err := plotter.NewScatter(reference)
		if err != nil {
			return nil, fmt.Errorf("reference scatter: %w", err)
		}
		rs.GlyphStyle.Color = referenceColor
		p.Add(rs)
		p.Legend.Add("reference (interpolated)", rs)
	}

	if len(cr.MeasuredCurve) > 1 {
		line, err := newLine(cr.MeasuredCurve, dataColor)
		if err != nil {
			return nil, err
		}
		p.Add(line)
		p.Legend.Add("measured trend", line)
	}
	if len(cr.ReferenceCurve) > 1 {
		line, err := newLine(cr.ReferenceCurve, referenceColor)
		if err != nil {
			return nil, err
		}
		line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(line)
		p.Legend.Add("reference trend", line)
	}

	p.Legend.Top = true
	p.Legend.Left = true
	return p, nil
}

func newLine(points []model.Point, c color.Color) (*plotter.Line, error) {
	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X = pt.X
		xys[i].Y = pt.Y
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("line: %w", err)
	}
	line.LineStyle.Color = c
	line.LineStyle.Width = vg.Points(1.5)
	return line, nil
}

// Save writes the plot to path; the extension picks the format
func Save(p *plot.Plot, path string, size Size) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".svg", ".pdf", ".jpg", ".jpeg", ".eps", ".tif", ".tiff":
	default:
		return model.NewInputError("chart", "unsupported chart format %q", filepath.Ext(path))
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create chart dir: %w", err)
		}
	}
	if err := p.Save(size.Width, size.Height, path); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	return nil
}
