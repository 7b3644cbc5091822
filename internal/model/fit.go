package model

import "math"

// FitResult holds the parameters of a fitted model and their covariance
type FitResult struct {
	Model      string      `json:"model" yaml:"model"`           // Model variant name (linear, exponential)
	Params     []float64   `json:"params" yaml:"params"`         // Ordered as the model declares them
	Names      []string    `json:"names" yaml:"names"`           // Parameter names, same order as Params
	Covariance [][]float64 `json:"covariance" yaml:"covariance"` // len(Params) x len(Params)
	ChiSquare  float64     `json:"chi_square" yaml:"chi_square"` // Weighted sum of squared residuals
	DOF        int         `json:"dof" yaml:"dof"`               // Samples minus parameters
	Iterations int         `json:"iterations" yaml:"iterations"` // 0 for closed-form fits
}

// StdErr returns the standard error of parameter i
func (r FitResult) StdErr(i int) float64 {
	if i < 0 || i >= len(r.Covariance) {
		return math.NaN()
	}
	return math.Sqrt(r.Covariance[i][i])
}

// Param returns parameter i together with its standard error
func (r FitResult) Param(i int) Estimate {
	if i < 0 || i >= len(r.Params) {
		return Estimate{Value: math.NaN(), Uncertainty: math.NaN()}
	}
	return Estimate{Value: r.Params[i], Uncertainty: r.StdErr(i)}
}

// FitQuality summarises how well a fit describes its samples
type FitQuality struct {
	ChiSquare        float64  `json:"chi_square" yaml:"chi_square"`
	DOF              int      `json:"dof" yaml:"dof"`
	ReducedChiSquare float64  `json:"reduced_chi_square" yaml:"reduced_chi_square"`
	RSquared         float64  `json:"r_squared" yaml:"r_squared"`
	WithinOneSigma   float64  `json:"within_one_sigma" yaml:"within_one_sigma"` // Fraction of residuals with |r| <= σ
	Signals          []Signal `json:"signals,omitempty" yaml:"signals,omitempty"`
}

// Signal is a diagnostic finding about a fit with the data behind it
type Signal struct {
	Type        SignalType             `json:"type" yaml:"type"`
	Severity    SignalSeverity         `json:"severity" yaml:"severity"`
	Description string                 `json:"description" yaml:"description"`
	Data        map[string]interface{} `json:"data,omitempty" yaml:"data,omitempty"` // Formula and inputs
}

// SignalType classifies a fit diagnostic
type SignalType string

const (
	SignalDispersion SignalType = "dispersion" // Reduced χ² against 1
	SignalCoverage   SignalType = "coverage"   // Share of residuals inside 1σ
	SignalOutlier    SignalType = "outlier"    // Residual beyond 3σ
	SignalNoFreedom  SignalType = "no_freedom" // Exactly determined fit
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)
