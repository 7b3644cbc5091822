package fit

import (
	"gonum.org/v1/gonum/floats"

	"github.com/ppiankov/clausius/internal/model"
)

// Linspace returns n evenly spaced values from lo to hi inclusive
func Linspace(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// Bounds returns [min(xs)-margin, max(xs)+margin]
func Bounds(xs []float64, margin float64) (lo, hi float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	return floats.Min(xs) - margin, floats.Max(xs) + margin
}

// Curve evaluates a fitted model on n evenly spaced points over [lo, hi]
func Curve(m Model, params []float64, lo, hi float64, n int) []model.Point {
	xs := Linspace(lo, hi, n)
	pts := make([]model.Point, len(xs))
	for i, x := range xs {
		pts[i] = model.Point{X: x, Y: m.Eval(x, params)}
	}
	return pts
}
