package model

// Sample is one measured point with its uncertainties
type Sample struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	SigmaX float64 `json:"sigma_x,omitempty" yaml:"sigma_x,omitempty"` // 0 when unknown, never used as a weight
	SigmaY float64 `json:"sigma_y" yaml:"sigma_y"`                     // Fit weight is 1/SigmaY²
}

// Columns splits samples into parallel x, y and σy slices
func Columns(samples []Sample) (xs, ys, sigmas []float64) {
	xs = make([]float64, len(samples))
	ys = make([]float64, len(samples))
	sigmas = make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = s.X
		ys[i] = s.Y
		sigmas[i] = s.SigmaY
	}
	return xs, ys, sigmas
}

// Point is a plain (x, y) pair, used for reference tables and dense curves
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Estimate is a value with its propagated standard uncertainty
type Estimate struct {
	Value       float64 `json:"value" yaml:"value"`
	Uncertainty float64 `json:"uncertainty" yaml:"uncertainty"`
}

// Scale multiplies value and uncertainty by the same factor
func (e Estimate) Scale(f float64) Estimate {
	u := e.Uncertainty * f
	if u < 0 {
		u = -u
	}
	return Estimate{Value: e.Value * f, Uncertainty: u}
}
