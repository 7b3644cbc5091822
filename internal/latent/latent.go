// Package latent derives the latent heat of vaporization from a fit of
// ln(P) against 1/T and propagates the fit uncertainties into it.
package latent

import (
	"fmt"
	"math"

	"github.com/ppiankov/clausius/internal/model"
)

// Anchor is the reference point (1/T₁, ln P₁) used by the intercept estimator
type Anchor struct {
	InverseT float64 // 1/K
	LnP      float64
	LnPError float64
}

// AnchorFromSamples takes the first sample as the reference point
func AnchorFromSamples(samples []model.Sample) (Anchor, error) {
	if len(samples) == 0 {
		return Anchor{}, model.NewInputError("samples", "no samples to take the anchor from")
	}
	s := samples[0]
	if !(s.X > 0) {
		return Anchor{}, model.NewInputError("samples", "anchor 1/T must be positive, got %g", s.X)
	}
	return Anchor{InverseT: s.X, LnP: s.Y, LnPError: s.SigmaY}, nil
}

// FromSlope converts the slope a of ln(P) = a/T + b into Q = −a·R
func FromSlope(slope model.Estimate, c model.Constants) model.Estimate {
	return model.Estimate{
		Value:       -slope.Value * c.GasConstant,
		Uncertainty: math.Abs(slope.Uncertainty * c.GasConstant),
	}
}

// FromIntercept converts the intercept b into Q = (b − ln P₁)·R·T₁. The
// intercept error and the anchor's ln P error add in quadrature.
func FromIntercept(intercept model.Estimate, a Anchor, c model.Constants) model.Estimate {
	rt := c.GasConstant / a.InverseT
	return model.Estimate{
		Value:       (intercept.Value - a.LnP) * rt,
		Uncertainty: math.Hypot(intercept.Uncertainty*rt, a.LnPError*rt),
	}
}

// PerGram converts J/mol into cal/g
func PerGram(e model.Estimate, c model.Constants) model.Estimate {
	return e.Scale(1 / (c.JoulesPerCalorie * c.MolarMass))
}

func quantity(e model.Estimate, c model.Constants) model.Quantity {
	return model.Quantity{Molar: e, PerGram: PerGram(e, c)}
}

// Compute returns the slope, intercept and weighted latent heat estimates
// for a linear fit of ln(P) against 1/T.
func Compute(fit model.FitResult, a Anchor, c model.Constants) (model.LatentHeat, error) {
	if len(fit.Params) != 2 || len(fit.Covariance) != 2 {
		return model.LatentHeat{}, model.NewInputError("fit", "need a two-parameter linear fit, got %d parameters", len(fit.Params))
	}
	if !(a.InverseT > 0) {
		return model.LatentHeat{}, model.NewInputError("anchor", "1/T must be positive, got %g", a.InverseT)
	}

	slope := FromSlope(fit.Param(0), c)
	intercept := FromIntercept(fit.Param(1), a, c)

	weighted, err := WeightedCombine(
		[]float64{slope.Value, intercept.Value},
		[]float64{slope.Uncertainty, intercept.Uncertainty},
	)
	if err != nil {
		return model.LatentHeat{}, fmt.Errorf("combine estimates: %w", err)
	}

	return model.LatentHeat{
		FromSlope:     quantity(slope, c),
		FromIntercept: quantity(intercept, c),
		Weighted:      quantity(weighted, c),
	}, nil
}
