package latent

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/clausius/internal/model"
)

var water = model.Constants{GasConstant: 8.314, JoulesPerCalorie: 4.184, MolarMass: 18.015}

func TestWeightedCombine(t *testing.T) {
	got, err := WeightedCombine([]float64{10, 20}, []float64{1, 2})
	require.NoError(t, err)

	assert.InDelta(t, 12.0, got.Value, 1e-12)
	assert.InDelta(t, 1/math.Sqrt(1.25), got.Uncertainty, 1e-12)
	assert.InDelta(t, 0.894, got.Uncertainty, 1e-3)
}

func TestWeightedCombine_Single(t *testing.T) {
	got, err := WeightedCombine([]float64{42}, []float64{3})
	require.NoError(t, err)
	assert.Equal(t, model.Estimate{Value: 42, Uncertainty: 3}, got)
}

func TestWeightedCombine_Errors(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		uncs   []float64
	}{
		{"empty", nil, nil},
		{"mismatch", []float64{1, 2}, []float64{1}},
		{"zero uncertainty", []float64{1, 2}, []float64{1, 0}},
		{"negative uncertainty", []float64{1, 2}, []float64{-1, 1}},
		{"nan uncertainty", []float64{1}, []float64{math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := WeightedCombine(tt.values, tt.uncs)
			assert.True(t, errors.Is(err, model.ErrInvalidInput), "got %v", err)
		})
	}
}

func TestFromSlope(t *testing.T) {
	got := FromSlope(model.Estimate{Value: -5000, Uncertainty: 20}, water)
	assert.InDelta(t, 41570.0, got.Value, 1e-9)
	assert.InDelta(t, 166.28, got.Uncertainty, 1e-9)
}

func TestFromIntercept(t *testing.T) {
	a := Anchor{InverseT: 1.0 / 300, LnP: 3.0, LnPError: 0.04}
	got := FromIntercept(model.Estimate{Value: 20, Uncertainty: 0.03}, a, water)

	rt := 8.314 * 300
	assert.InDelta(t, 17*rt, got.Value, 1e-6)
	assert.InDelta(t, math.Sqrt(math.Pow(0.03*rt, 2)+math.Pow(0.04*rt, 2)), got.Uncertainty, 1e-9)
	assert.InDelta(t, 0.05*rt, got.Uncertainty, 1e-9)
}

func TestPerGram(t *testing.T) {
	got := PerGram(model.Estimate{Value: 40650, Uncertainty: 100}, water)
	assert.InDelta(t, 40650/(4.184*18.015), got.Value, 1e-9)
	assert.InDelta(t, 100/(4.184*18.015), got.Uncertainty, 1e-9)
}

func TestCompute(t *testing.T) {
	fit := model.FitResult{
		Params:     []float64{-5000, 20},
		Covariance: [][]float64{{400, 0}, {0, 0.0009}},
	}
	a := Anchor{InverseT: 1.0 / 300, LnP: 3.0, LnPError: 0.04}

	heat, err := Compute(fit, a, water)
	require.NoError(t, err)

	slope := FromSlope(model.Estimate{Value: -5000, Uncertainty: 20}, water)
	intercept := FromIntercept(model.Estimate{Value: 20, Uncertainty: 0.03}, a, water)
	want, err := WeightedCombine(
		[]float64{slope.Value, intercept.Value},
		[]float64{slope.Uncertainty, intercept.Uncertainty},
	)
	require.NoError(t, err)

	assert.InDelta(t, slope.Value, heat.FromSlope.Molar.Value, 1e-9)
	assert.InDelta(t, intercept.Value, heat.FromIntercept.Molar.Value, 1e-9)
	assert.InDelta(t, want.Value, heat.Weighted.Molar.Value, 1e-9)
	assert.InDelta(t, want.Uncertainty, heat.Weighted.Molar.Uncertainty, 1e-9)

	// The per-gram weighted value is the molar one converted, error included.
	assert.InDelta(t, PerGram(want, water).Uncertainty, heat.Weighted.PerGram.Uncertainty, 1e-12)
	assert.Less(t, heat.Weighted.Molar.Uncertainty, heat.FromSlope.Molar.Uncertainty)
	assert.Less(t, heat.Weighted.Molar.Uncertainty, heat.FromIntercept.Molar.Uncertainty)
}

func TestCompute_Rejects(t *testing.T) {
	_, err := Compute(model.FitResult{Params: []float64{1, 2, 3}}, Anchor{InverseT: 1}, water)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))

	fit := model.FitResult{Params: []float64{-5000, 20}, Covariance: [][]float64{{1, 0}, {0, 1}}}
	_, err = Compute(fit, Anchor{InverseT: 0}, water)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}

func TestAnchorFromSamples(t *testing.T) {
	a, err := AnchorFromSamples([]model.Sample{{X: 0.003, Y: 3.25, SigmaY: 0.04}, {X: 0.0029, Y: 5.4, SigmaY: 0.004}})
	require.NoError(t, err)
	assert.Equal(t, Anchor{InverseT: 0.003, LnP: 3.25, LnPError: 0.04}, a)

	_, err = AnchorFromSamples(nil)
	assert.Error(t, err)
}
