package fit

import (
	"math"
	"strings"

	"github.com/ppiankov/clausius/internal/model"
)

// Kind tags a model variant
type Kind int

const (
	KindLinear      Kind = iota // y = a·x + b
	KindExponential             // y = a·exp(b·x) + c
)

// Model is one of a closed set of fit functions. The zero value is Linear.
type Model struct {
	kind Kind
}

var (
	// Linear is y = a·x + b
	Linear = Model{kind: KindLinear}
	// Exponential is y = a·exp(b·x) + c
	Exponential = Model{kind: KindExponential}
)

// ParseModel maps a model name to its variant
func ParseModel(name string) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "linear", "lin":
		return Linear, nil
	case "exponential", "exp":
		return Exponential, nil
	default:
		return Model{}, model.NewInputError("model", "unknown model %q (linear, exponential)", name)
	}
}

func (m Model) String() string {
	if m.kind == KindExponential {
		return "exponential"
	}
	return "linear"
}

// Arity is the number of parameters
func (m Model) Arity() int {
	if m.kind == KindExponential {
		return 3
	}
	return 2
}

// Names returns the parameter names in order
func (m Model) Names() []string {
	if m.kind == KindExponential {
		return []string{"a", "b", "c"}
	}
	return []string{"a", "b"}
}

// IsLinear reports whether the model is linear in its parameters
func (m Model) IsLinear() bool { return m.kind == KindLinear }

// Eval evaluates the model at x. p must hold Arity() values.
func (m Model) Eval(x float64, p []float64) float64 {
	if m.kind == KindExponential {
		return p[0]*math.Exp(p[1]*x) + p[2]
	}
	return p[0]*x + p[1]
}

// Gradient writes ∂f/∂p at x into dst
func (m Model) Gradient(x float64, p []float64, dst []float64) {
	if m.kind == KindExponential {
		e := math.Exp(p[1] * x)
		dst[0] = e
		dst[1] = p[0] * x * e
		dst[2] = 1
		return
	}
	dst[0] = x
	dst[1] = 1
}

// Predict evaluates the model at every x
func (m Model) Predict(p []float64, xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = m.Eval(x, p)
	}
	return out
}

// Formula is a human-readable form of the model
func (m Model) Formula() string {
	if m.kind == KindExponential {
		return "y = a·exp(b·x) + c"
	}
	return "y = a·x + b"
}
