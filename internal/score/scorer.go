package score

import (
	"fmt"
	"math"

	"github.com/ppiankov/clausius/internal/fit"
	"github.com/ppiankov/clausius/internal/model"
)

// Scorer judges a fit against its samples and explains the verdict
type Scorer struct {
	outlierPulls float64 // |residual/σ| above which a point is an outlier
}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{outlierPulls: 3}
}

// Calculate computes goodness-of-fit statistics and diagnostic signals
func (s *Scorer) Calculate(m fit.Model, samples []model.Sample, res model.FitResult) model.FitQuality {
	n := len(samples)
	pulls := make([]float64, n)
	var chi2, meanY float64
	for i, smp := range samples {
		pulls[i] = (smp.Y - m.Eval(smp.X, res.Params)) / smp.SigmaY
		chi2 += pulls[i] * pulls[i]
		meanY += smp.Y
	}
	if n > 0 {
		meanY /= float64(n)
	}

	q := model.FitQuality{
		ChiSquare: chi2,
		DOF:       n - m.Arity(),
		RSquared:  s.rSquared(m, samples, res.Params, meanY),
	}

	// 1. Degrees of freedom. ReducedChiSquare stays 0 without any.
	if q.DOF <= 0 {
		q.Signals = append(q.Signals, model.Signal{
			Type:        model.SignalNoFreedom,
			Severity:    model.SeverityWarning,
			Description: fmt.Sprintf("%d samples for %d parameters: the fit is exactly determined", n, m.Arity()),
			Data: map[string]interface{}{
				"samples":    n,
				"parameters": m.Arity(),
			},
		})
	} else {
		q.ReducedChiSquare = chi2 / float64(q.DOF)
		q.Signals = append(q.Signals, s.dispersion(q))
	}

	// 2. Residual coverage
	coverage, coverageSignal := s.coverage(pulls)
	q.WithinOneSigma = coverage
	if n > 0 {
		q.Signals = append(q.Signals, coverageSignal)
	}

	// 3. Outliers
	q.Signals = append(q.Signals, s.outliers(samples, pulls)...)

	return q
}

// dispersion compares the reduced χ² with its expectation of 1
func (s *Scorer) dispersion(q model.FitQuality) model.Signal {
	red := q.ReducedChiSquare
	// Standard deviation of χ²/ν is √(2/ν)
	spread := math.Sqrt(2 / float64(q.DOF))
	deviation := (red - 1) / spread

	severity := model.SeverityInfo
	description := fmt.Sprintf("Reduced chi-square %.3g is consistent with the stated uncertainties", red)
	switch {
	case deviation > 3:
		severity = model.SeverityWarning
		description = fmt.Sprintf("Reduced chi-square %.3g: scatter exceeds the stated uncertainties", red)
	case deviation < -3:
		severity = model.SeverityWarning
		description = fmt.Sprintf("Reduced chi-square %.3g: stated uncertainties look overestimated", red)
	}

	return model.Signal{
		Type:        model.SignalDispersion,
		Severity:    severity,
		Description: description,
		Data: map[string]interface{}{
			"chi_square":         q.ChiSquare,
			"dof":                q.DOF,
			"reduced_chi_square": red,
			"deviation_sigmas":   deviation,
			"formula":            "(chi2/dof - 1) / sqrt(2/dof)",
		},
	}
}

// coverage returns the fraction of points whose residual is within 1σ
func (s *Scorer) coverage(pulls []float64) (float64, model.Signal) {
	if len(pulls) == 0 {
		return 0, model.Signal{}
	}

	inside := 0
	for _, p := range pulls {
		if math.Abs(p) <= 1 {
			inside++
		}
	}
	frac := float64(inside) / float64(len(pulls))

	// About 68% of residuals should fall within 1σ
	severity := model.SeverityInfo
	if frac < 0.4 {
		severity = model.SeverityWarning
	}

	return frac, model.Signal{
		Type:        model.SignalCoverage,
		Severity:    severity,
		Description: fmt.Sprintf("%d of %d residuals within 1 sigma (%.0f%%)", inside, len(pulls), frac*100),
		Data: map[string]interface{}{
			"inside":   inside,
			"total":    len(pulls),
			"fraction": frac,
			"expected": 0.683,
			"formula":  "count(|y - f(x)| <= sigma_y) / n",
		},
	}
}

// outliers flags every point more than outlierPulls σ away from the fit
func (s *Scorer) outliers(samples []model.Sample, pulls []float64) []model.Signal {
	var signals []model.Signal
	for i, p := range pulls {
		if math.Abs(p) <= s.outlierPulls {
			continue
		}
		severity := model.SeverityWarning
		if math.Abs(p) > 2*s.outlierPulls {
			severity = model.SeverityCritical
		}
		signals = append(signals, model.Signal{
			Type:        model.SignalOutlier,
			Severity:    severity,
			Description: fmt.Sprintf("Sample %d (x=%g) is %.1f sigma from the fit", i, samples[i].X, p),
			Data: map[string]interface{}{
				"index":     i,
				"x":         samples[i].X,
				"y":         samples[i].Y,
				"pull":      p,
				"threshold": s.outlierPulls,
			},
		})
	}
	return signals
}

// rSquared is the unweighted coefficient of determination
func (s *Scorer) rSquared(m fit.Model, samples []model.Sample, params []float64, meanY float64) float64 {
	var ssRes, ssTot float64
	for _, smp := range samples {
		r := smp.Y - m.Eval(smp.X, params)
		ssRes += r * r
		d := smp.Y - meanY
		ssTot += d * d
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}
