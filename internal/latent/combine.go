package latent

import (
	"math"

	"github.com/ppiankov/clausius/internal/model"
)

// WeightedCombine returns the inverse-variance weighted mean of independent
// estimates and its uncertainty 1/√Σw.
func WeightedCombine(values, uncertainties []float64) (model.Estimate, error) {
	if len(values) == 0 {
		return model.Estimate{}, model.NewInputError("values", "nothing to combine")
	}
	if len(values) != len(uncertainties) {
		return model.Estimate{}, model.NewInputError("uncertainties", "length %d does not match values length %d", len(uncertainties), len(values))
	}

	var sumW, sumWV float64
	for i, v := range values {
		u := uncertainties[i]
		if !(u > 0) || math.IsInf(u, 0) {
			return model.Estimate{}, model.NewInputError("uncertainties", "index %d must be positive and finite, got %g", i, u)
		}
		w := 1 / (u * u)
		sumW += w
		sumWV += w * v
	}

	return model.Estimate{
		Value:       sumWV / sumW,
		Uncertainty: 1 / math.Sqrt(sumW),
	}, nil
}
