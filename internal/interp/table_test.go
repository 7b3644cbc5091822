package interp

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/clausius/internal/model"
)

func waterHead(t *testing.T) *Table {
	t.Helper()
	tbl, err := NewTable([]model.Point{
		{X: 0, Y: 4.5851}, {X: 1, Y: 4.9291}, {X: 2, Y: 5.2958}, {X: 3, Y: 5.6864},
	})
	require.NoError(t, err)
	return tbl
}

func TestInterpolate_Midpoint(t *testing.T) {
	res, err := waterHead(t).Interpolate(0.5, 0.1)
	require.NoError(t, err)

	assert.InDelta(t, 4.7571, res.Value, 1e-12)
	assert.InDelta(t, 0.344*0.1, res.Uncertainty, 1e-12)
	assert.Equal(t, 0, res.Segment)
	assert.Equal(t, 0.5, res.Query)
	assert.Equal(t, 0.1, res.QueryError)
}

func TestInterpolate_Breakpoints(t *testing.T) {
	tbl := waterHead(t)
	pts := tbl.Points()

	for i, p := range pts {
		res, err := tbl.Interpolate(p.X, 0.2)
		require.NoError(t, err)
		assert.Equal(t, p.Y, res.Value, "breakpoint %d", i)

		seg := i - 1
		if seg < 0 {
			seg = 0
		}
		assert.Equal(t, seg, res.Segment, "breakpoint %d", i)
		slope := (pts[seg+1].Y - pts[seg].Y) / (pts[seg+1].X - pts[seg].X)
		assert.InDelta(t, math.Abs(slope)*0.2, res.Uncertainty, 1e-12)
	}
}

func TestInterpolate_UncertaintyScalesWithQueryError(t *testing.T) {
	tbl := waterHead(t)
	a, err := tbl.Interpolate(2.5, 0.1)
	require.NoError(t, err)
	b, err := tbl.Interpolate(2.5, 0.3)
	require.NoError(t, err)

	assert.InDelta(t, 3*a.Uncertainty, b.Uncertainty, 1e-12)
	assert.Equal(t, a.Value, b.Value)
}

func TestInterpolate_OutOfRange(t *testing.T) {
	tbl := waterHead(t)

	for _, x := range []float64{-0.001, 3.0001, 99, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := tbl.Interpolate(x, 0.1)
		require.Error(t, err, "x=%v", x)
		assert.True(t, errors.Is(err, model.ErrOutOfRange), "x=%v", x)

		var oor *model.OutOfRangeError
		require.True(t, errors.As(err, &oor))
		assert.Equal(t, 0.0, oor.Min)
		assert.Equal(t, 3.0, oor.Max)
	}
}

func TestInterpolate_DecreasingSegment(t *testing.T) {
	tbl, err := NewTable([]model.Point{{X: 0, Y: 10}, {X: 2, Y: 6}})
	require.NoError(t, err)

	res, err := tbl.Interpolate(1, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, res.Value, 1e-12)
	assert.InDelta(t, 1.0, res.Uncertainty, 1e-12)
}

func TestNewTable_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		points []model.Point
	}{
		{"empty", nil},
		{"single", []model.Point{{X: 1, Y: 1}}},
		{"unsorted", []model.Point{{X: 0, Y: 1}, {X: 2, Y: 2}, {X: 1, Y: 3}}},
		{"duplicate x", []model.Point{{X: 0, Y: 1}, {X: 0, Y: 2}}},
		{"nan", []model.Point{{X: 0, Y: 1}, {X: 1, Y: math.NaN()}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.points)
			assert.True(t, errors.Is(err, model.ErrInvalidInput), "got %v", err)
		})
	}
}

func TestNewTable_CopiesInput(t *testing.T) {
	pts := []model.Point{{X: 0, Y: 1}, {X: 1, Y: 2}}
	tbl, err := NewTable(pts)
	require.NoError(t, err)

	pts[1].Y = 100
	res, err := tbl.Interpolate(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 2.0, res.Value)
}

func TestCompare(t *testing.T) {
	rows := waterHead(t).Compare([]model.Point{{X: 0.5, Y: 4.8}, {X: 7, Y: 8}, {X: 3, Y: 5.7}}, 0.1)
	require.Len(t, rows, 3)

	require.NotNil(t, rows[0].Reference)
	assert.False(t, rows[0].OutOfRange)
	assert.InDelta(t, 4.7571, rows[0].Reference.Value, 1e-12)
	assert.Equal(t, 4.8, rows[0].Measured)

	assert.True(t, rows[1].OutOfRange)
	assert.Nil(t, rows[1].Reference)
	assert.Equal(t, 7.0, rows[1].X)

	require.NotNil(t, rows[2].Reference)
	assert.Equal(t, 5.6864, rows[2].Reference.Value)
}
