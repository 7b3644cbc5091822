package model

import "time"

// Report represents the complete analysis of one dataset
type Report struct {
	Subject     string            `json:"subject" yaml:"subject"`           // Dataset name
	Fingerprint string            `json:"fingerprint" yaml:"fingerprint"`   // Content hash of the dataset
	GeneratedAt time.Time         `json:"generated_at" yaml:"generated_at"` // When the analysis ran
	Latent      *LatentReport     `json:"latent,omitempty" yaml:"latent,omitempty"`
	Comparison  *ComparisonReport `json:"comparison,omitempty" yaml:"comparison,omitempty"`
}

// LatentReport is the Clausius–Clapeyron fit and the latent heat derived from it
type LatentReport struct {
	Samples []Sample   `json:"samples" yaml:"samples"`
	Fit     FitResult  `json:"fit" yaml:"fit"`
	Quality FitQuality `json:"quality" yaml:"quality"`
	Heat    LatentHeat `json:"heat" yaml:"heat"`
	Curve   []Point    `json:"curve,omitempty" yaml:"curve,omitempty"` // Dense fitted line for charts
}

// LatentHeat holds the three latent heat estimates
type LatentHeat struct {
	FromSlope     Quantity `json:"from_slope" yaml:"from_slope"`
	FromIntercept Quantity `json:"from_intercept" yaml:"from_intercept"`
	Weighted      Quantity `json:"weighted" yaml:"weighted"`
}

// Quantity is one estimate expressed in both unit systems
type Quantity struct {
	Molar   Estimate `json:"j_per_mol" yaml:"j_per_mol"`
	PerGram Estimate `json:"cal_per_g" yaml:"cal_per_g"`
}

// ComparisonReport compares measured pressures with an interpolated reference
type ComparisonReport struct {
	QueryError     float64      `json:"query_error" yaml:"query_error"`
	Rows           []Comparison `json:"rows" yaml:"rows"`
	TrendFormula   string       `json:"trend_formula" yaml:"trend_formula"` // y = P, x = T
	MeasuredFit    *FitResult   `json:"measured_fit,omitempty" yaml:"measured_fit,omitempty"`
	ReferenceFit   *FitResult   `json:"reference_fit,omitempty" yaml:"reference_fit,omitempty"`
	MeasuredCurve  []Point      `json:"measured_curve,omitempty" yaml:"measured_curve,omitempty"`
	ReferenceCurve []Point      `json:"reference_curve,omitempty" yaml:"reference_curve,omitempty"`
}

// Comparison is one measured point next to its interpolated reference value
type Comparison struct {
	X          float64              `json:"x" yaml:"x"`
	Measured   float64              `json:"measured" yaml:"measured"`
	Reference  *InterpolationResult `json:"reference,omitempty" yaml:"reference,omitempty"` // nil when OutOfRange
	OutOfRange bool                 `json:"out_of_range" yaml:"out_of_range"`
}

// InterpolationResult is the value read from a reference table at one query
type InterpolationResult struct {
	Query       float64 `json:"query" yaml:"query"`
	QueryError  float64 `json:"query_error" yaml:"query_error"`
	Value       float64 `json:"value" yaml:"value"`
	Uncertainty float64 `json:"uncertainty" yaml:"uncertainty"`
	Segment     int     `json:"segment" yaml:"segment"` // Index of the left breakpoint used
}
