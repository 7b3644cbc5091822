// Package interp reads values from an ascending reference table by
// piecewise-linear interpolation.
package interp

import (
	"math"
	"sort"

	"github.com/ppiankov/clausius/internal/model"
)

// Table is an immutable reference table sorted by x
type Table struct {
	xs []float64
	ys []float64
}

// NewTable validates and copies the points. At least two points with
// strictly increasing x are required.
func NewTable(points []model.Point) (*Table, error) {
	if len(points) < 2 {
		return nil, model.NewInputError("table", "need at least 2 points, got %d", len(points))
	}

	t := &Table{
		xs: make([]float64, len(points)),
		ys: make([]float64, len(points)),
	}
	for i, p := range points {
		if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			return nil, model.NewInputError("table", "non-finite point at index %d", i)
		}
		if i > 0 && !(p.X > points[i-1].X) {
			return nil, model.NewInputError("table", "x must be strictly increasing: %g at index %d follows %g", p.X, i, points[i-1].X)
		}
		t.xs[i] = p.X
		t.ys[i] = p.Y
	}
	return t, nil
}

// Len returns the number of breakpoints
func (t *Table) Len() int { return len(t.xs) }

// Domain returns the smallest and largest x in the table
func (t *Table) Domain() (lo, hi float64) {
	return t.xs[0], t.xs[len(t.xs)-1]
}

// Points returns a copy of the table
func (t *Table) Points() []model.Point {
	pts := make([]model.Point, len(t.xs))
	for i := range t.xs {
		pts[i] = model.Point{X: t.xs[i], Y: t.ys[i]}
	}
	return pts
}

// Columns returns copies of the x and y columns
func (t *Table) Columns() (xs, ys []float64) {
	return append([]float64(nil), t.xs...), append([]float64(nil), t.ys...)
}

// Interpolate returns y at x with uncertainty |slope|·xErr. A query on a
// breakpoint uses the segment to its left and returns that breakpoint's y
// exactly. Queries outside the table return *model.OutOfRangeError.
func (t *Table) Interpolate(x, xErr float64) (model.InterpolationResult, error) {
	lo, hi := t.Domain()
	if math.IsNaN(x) || x < lo || x > hi {
		return model.InterpolationResult{}, &model.OutOfRangeError{Query: x, Min: lo, Max: hi}
	}

	i := sort.SearchFloat64s(t.xs, x)
	if i > 0 {
		i--
	}
	x0, x1 := t.xs[i], t.xs[i+1]
	y0, y1 := t.ys[i], t.ys[i+1]
	slope := (y1 - y0) / (x1 - x0)

	var y float64
	switch x {
	case x0:
		y = y0
	case x1:
		y = y1
	default:
		y = y0 + (y1-y0)*(x-x0)/(x1-x0)
	}

	return model.InterpolationResult{
		Query:       x,
		QueryError:  xErr,
		Value:       y,
		Uncertainty: math.Abs(slope) * math.Abs(xErr),
		Segment:     i,
	}, nil
}

// Compare interpolates the reference value for every measured sample. Out of
// range queries are flagged on their row and carry no reference value.
func (t *Table) Compare(measured []model.Point, xErr float64) []model.Comparison {
	rows := make([]model.Comparison, len(measured))
	for i, m := range measured {
		rows[i] = model.Comparison{X: m.X, Measured: m.Y}
		res, err := t.Interpolate(m.X, xErr)
		if err != nil {
			rows[i].OutOfRange = true
			continue
		}
		rows[i].Reference = &res
	}
	return rows
}
