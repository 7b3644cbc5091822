package fit

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/ppiankov/clausius/internal/model"
)

const (
	lambdaStart = 1e-3
	lambdaMax   = 1e20
	condLimit   = 1e14
)

// Options control a single fit
type Options struct {
	Initial       []float64 // Starting parameters, required for nonlinear models
	MaxIterations int       // Solver iteration budget
	Tolerance     float64   // Relative tolerance on χ² reduction and parameter step
	AbsoluteSigma bool      // false scales the covariance by the reduced χ²
}

// DefaultOptions returns the solver defaults
func DefaultOptions() Options {
	return Options{
		MaxIterations: 200,
		Tolerance:     1.49012e-8,
		AbsoluteSigma: true,
	}
}

// Fit finds the parameters of m minimizing Σ((y_i − m(x_i))/σ_i)².
// A nil sigmas slice means unit uncertainty on every point.
func Fit(m Model, xs, ys, sigmas []float64, opts Options) (model.FitResult, error) {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultOptions().MaxIterations
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultOptions().Tolerance
	}

	sigmas, err := checkInputs(m, xs, ys, sigmas)
	if err != nil {
		return model.FitResult{}, err
	}

	var (
		params []float64
		iters  int
	)
	if m.IsLinear() {
		params, err = solveLinear(m, xs, ys, sigmas)
	} else {
		if len(opts.Initial) != m.Arity() {
			return model.FitResult{}, model.NewInputError("initial", "%s model needs %d starting values, got %d", m, m.Arity(), len(opts.Initial))
		}
		params, iters, err = levenbergMarquardt(m, xs, ys, sigmas, opts)
	}
	if err != nil {
		return model.FitResult{}, err
	}

	k := m.Arity()
	jtj, _ := weightedSystem(m, xs, nil, sigmas, params)
	inv := mat.NewSymDense(k, nil)
	if _, ok := solveScaled(jtj, make([]float64, k), inv); !ok {
		return model.FitResult{}, model.NewInputError("xs", "parameters are not identifiable (singular normal matrix)")
	}

	chi2 := chiSquare(m, xs, ys, sigmas, params)
	dof := len(xs) - m.Arity()

	scale := 1.0
	if !opts.AbsoluteSigma {
		if dof > 0 {
			scale = chi2 / float64(dof)
		} else {
			scale = math.Inf(1)
		}
	}

	cov := make([][]float64, k)
	for i := 0; i < k; i++ {
		cov[i] = make([]float64, k)
		for j := 0; j < k; j++ {
			cov[i][j] = inv.At(i, j) * scale
		}
	}

	return model.FitResult{
		Model:      m.String(),
		Params:     params,
		Names:      m.Names(),
		Covariance: cov,
		ChiSquare:  chi2,
		DOF:        dof,
		Iterations: iters,
	}, nil
}

func checkInputs(m Model, xs, ys, sigmas []float64) ([]float64, error) {
	if len(xs) != len(ys) {
		return nil, model.NewInputError("ys", "length %d does not match xs length %d", len(ys), len(xs))
	}
	if sigmas == nil {
		sigmas = make([]float64, len(xs))
		for i := range sigmas {
			sigmas[i] = 1
		}
	}
	if len(sigmas) != len(xs) {
		return nil, model.NewInputError("sigmas", "length %d does not match xs length %d", len(sigmas), len(xs))
	}
	if len(xs) < m.Arity() {
		return nil, model.NewInputError("xs", "%s model needs at least %d samples, got %d", m, m.Arity(), len(xs))
	}
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsInf(xs[i], 0) || math.IsNaN(ys[i]) || math.IsInf(ys[i], 0) {
			return nil, model.NewInputError("samples", "non-finite value at index %d", i)
		}
		if !(sigmas[i] > 0) || math.IsInf(sigmas[i], 0) {
			return nil, model.NewInputError("sigmas", "uncertainty at index %d must be positive and finite, got %g", i, sigmas[i])
		}
	}
	return sigmas, nil
}

// weightedSystem returns JᵀWJ and JᵀWr at p, r = y − f. A nil ys leaves r at zero.
func weightedSystem(m Model, xs, ys, sigmas, p []float64) (*mat.SymDense, []float64) {
	k := m.Arity()
	jtj := mat.NewSymDense(k, nil)
	jtr := make([]float64, k)
	grad := make([]float64, k)

	for i, x := range xs {
		m.Gradient(x, p, grad)
		w := 1 / (sigmas[i] * sigmas[i])
		var r float64
		if ys != nil {
			r = ys[i] - m.Eval(x, p)
		}
		for a := 0; a < k; a++ {
			jtr[a] += w * grad[a] * r
			for b := a; b < k; b++ {
				jtj.SetSym(a, b, jtj.At(a, b)+w*grad[a]*grad[b])
			}
		}
	}
	return jtj, jtr
}

func chiSquare(m Model, xs, ys, sigmas, p []float64) float64 {
	var chi2 float64
	for i, x := range xs {
		r := (ys[i] - m.Eval(x, p)) / sigmas[i]
		chi2 += r * r
	}
	return chi2
}

// solveLinear solves the weighted normal equations (AᵀWA)θ = AᵀWy
func solveLinear(m Model, xs, ys, sigmas []float64) ([]float64, error) {
	zero := make([]float64, m.Arity())
	ata, aty := weightedSystem(m, xs, ys, sigmas, zero)

	theta, ok := solveScaled(ata, aty, nil)
	if !ok {
		return nil, model.NewInputError("xs", "design matrix is singular (are all x equal?)")
	}
	return theta, nil
}

// solveScaled solves s·x = b after scaling s to unit diagonal. When inv is
// non-nil it receives s⁻¹. ok is false for singular or near-singular s.
func solveScaled(s *mat.SymDense, b []float64, inv *mat.SymDense) ([]float64, bool) {
	k := len(b)
	d := make([]float64, k)
	for i := 0; i < k; i++ {
		v := s.At(i, i)
		if !(v > 0) || math.IsInf(v, 0) {
			return nil, false
		}
		d[i] = 1 / math.Sqrt(v)
	}

	scaled := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			scaled.SetSym(i, j, s.At(i, j)*d[i]*d[j])
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(scaled); !ok || chol.Cond() > condLimit {
		return nil, false
	}

	rhs := make([]float64, k)
	for i := range rhs {
		rhs[i] = b[i] * d[i]
	}
	var y mat.VecDense
	if err := chol.SolveVecTo(&y, mat.NewVecDense(k, rhs)); err != nil {
		return nil, false
	}
	x := make([]float64, k)
	for i := range x {
		x[i] = y.AtVec(i) * d[i]
	}

	if inv != nil {
		var si mat.SymDense
		if err := chol.InverseTo(&si); err != nil {
			return nil, false
		}
		for i := 0; i < k; i++ {
			for j := i; j < k; j++ {
				inv.SetSym(i, j, si.At(i, j)*d[i]*d[j])
			}
		}
	}
	return x, true
}

// levenbergMarquardt minimizes χ² with Marquardt's diagonal damping
func levenbergMarquardt(m Model, xs, ys, sigmas []float64, opts Options) ([]float64, int, error) {
	k := m.Arity()
	p := append([]float64(nil), opts.Initial...)
	chi2 := chiSquare(m, xs, ys, sigmas, p)
	if math.IsNaN(chi2) || math.IsInf(chi2, 0) {
		return nil, 0, model.NewInputError("initial", "model is not finite at the starting point %v", p)
	}
	lambda := lambdaStart
	trial := make([]float64, k)

	for iter := 1; iter <= opts.MaxIterations; iter++ {
		if chi2 == 0 {
			return p, iter - 1, nil
		}

		jtj, jtr := weightedSystem(m, xs, ys, sigmas, p)

		for {
			damped := mat.NewSymDense(k, nil)
			damped.CopySym(jtj)
			for a := 0; a < k; a++ {
				d := jtj.At(a, a)
				if d == 0 {
					d = 1
				}
				damped.SetSym(a, a, d*(1+lambda))
			}

			delta, ok := solveScaled(damped, jtr, nil)
			if !ok {
				lambda *= 10
				if lambda > lambdaMax {
					return nil, iter, &model.ConvergenceError{Iterations: iter, ChiSquare: chi2}
				}
				continue
			}

			floats.AddTo(trial, p, delta)
			small := floats.Norm(delta, 2) <= opts.Tolerance*(floats.Norm(p, 2)+opts.Tolerance)

			next := chiSquare(m, xs, ys, sigmas, trial)
			if next < chi2 {
				reduction := (chi2 - next) / chi2
				copy(p, trial)
				chi2 = next
				lambda /= 10
				if reduction <= opts.Tolerance || small || chi2 == 0 {
					return p, iter, nil
				}
				break
			}

			// NaN and Inf land here too
			if small {
				return p, iter, nil
			}
			lambda *= 10
			if lambda > lambdaMax {
				return nil, iter, &model.ConvergenceError{Iterations: iter, ChiSquare: chi2}
			}
		}
	}

	return nil, opts.MaxIterations, &model.ConvergenceError{Iterations: opts.MaxIterations, ChiSquare: chi2}
}
