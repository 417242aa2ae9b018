package propensity

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Model is a trained logistic propensity model.
type Model struct {
	Intercept  float64
	Coef       []float64
	Iterations int
}

// Dim returns the number of features the model expects.
func (m *Model) Dim() int { return len(m.Coef) }

// Predict returns P(treated = 1 | x).
func (m *Model) Predict(x []float64) float64 {
	eta := m.Intercept
	for j, b := range m.Coef {
		eta += b * x[j]
	}
	return sigmoid(eta)
}

// PredictProba returns P(treated = 1 | x) for every row of x.
func (m *Model) PredictProba(x [][]float64) []float64 {
	p := make([]float64, len(x))
	for i := range x {
		p[i] = m.Predict(x[i])
	}
	return p
}

// Fit trains a logistic regression mapping x to y.
//
// The penalised objective is C·Σ logloss + ½‖β‖² with the intercept excluded
// from the penalty. Each iteration takes a Newton step, halving it until the
// objective does not increase. Fit converges once the max-abs step falls
// below the tolerance.
func Fit(ctx context.Context, x [][]float64, y []bool, optFns ...Option) (*Model, error) {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}

	n := len(x)
	if n == 0 {
		return nil, &FitError{cause: ErrEmptyInput}
	}
	if len(y) != n {
		return nil, &FitError{cause: fmt.Errorf("got %d labels for %d rows", len(y), n)}
	}
	d := len(x[0])
	positives := 0
	for i := range x {
		if len(x[i]) != d {
			return nil, &FitError{cause: fmt.Errorf("row %d has %d features, expected %d", i, len(x[i]), d)}
		}
		if y[i] {
			positives++
		}
	}
	if positives == 0 || positives == n {
		return nil, &FitError{cause: ErrSingleClass}
	}

	// Design matrix with a leading intercept column.
	p := d + 1
	design := mat.NewDense(n, p, nil)
	target := make([]float64, n)
	for i := range x {
		design.Set(i, 0, 1)
		for j, v := range x[i] {
			design.Set(i, j+1, v)
		}
		if y[i] {
			target[i] = 1
		}
	}

	beta := mat.NewVecDense(p, nil)
	var (
		eta  mat.VecDense
		grad = mat.NewVecDense(p, nil)
		hess = mat.NewSymDense(p, nil)
		step mat.VecDense
		chol mat.Cholesky
	)

	loss := objective(design, target, beta, o.c, &eta)

	for iter := 1; iter <= o.maxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		gradNorm := gradientAndHessian(design, target, beta, o.c, &eta, grad, hess)

		if ok := chol.Factorize(hess); !ok {
			return nil, &FitError{Iterations: iter, GradNorm: gradNorm, cause: errors.New("hessian is not positive definite")}
		}
		if err := chol.SolveVecTo(&step, grad); err != nil {
			return nil, &FitError{Iterations: iter, GradNorm: gradNorm, cause: err}
		}

		candidate := mat.NewVecDense(p, nil)
		scale := 1.0
		var next float64
		for halvings := 0; ; halvings++ {
			candidate.AddScaledVec(beta, -scale, &step)
			next = objective(design, target, candidate, o.c, &eta)
			if next <= loss || halvings == 30 {
				break
			}
			scale /= 2
		}

		maxStep := scale * mat.Norm(&step, math.Inf(1))
		beta.CopyVec(candidate)
		loss = next

		if math.IsNaN(loss) || math.IsInf(loss, 0) {
			return nil, &FitError{Iterations: iter, GradNorm: gradNorm, cause: errors.New("objective is not finite")}
		}

		if maxStep < o.tol {
			m := &Model{
				Intercept:  beta.AtVec(0),
				Coef:       make([]float64, d),
				Iterations: iter,
			}
			for j := range m.Coef {
				m.Coef[j] = beta.AtVec(j + 1)
			}
			return m, nil
		}
	}

	gradNorm := gradientAndHessian(design, target, beta, o.c, &eta, grad, hess)
	return nil, &FitError{Iterations: o.maxIter, GradNorm: gradNorm, cause: ErrNotConverged}
}

// objective evaluates C·Σ logloss + ½‖β[1:]‖², leaving Xβ in eta.
func objective(design *mat.Dense, target []float64, beta *mat.VecDense, c float64, eta *mat.VecDense) float64 {
	eta.MulVec(design, beta)
	var nll float64
	for i, t := range target {
		z := eta.AtVec(i)
		nll += softplus(z) - t*z
	}
	var penalty float64
	for j := 1; j < beta.Len(); j++ {
		b := beta.AtVec(j)
		penalty += b * b
	}
	return c*nll + 0.5*penalty
}

// gradientAndHessian fills grad and hess at beta and returns the max-abs
// gradient component.
func gradientAndHessian(design *mat.Dense, target []float64, beta *mat.VecDense, c float64, eta, grad *mat.VecDense, hess *mat.SymDense) float64 {
	n, p := design.Dims()
	eta.MulVec(design, beta)

	g := make([]float64, p)
	h := make([]float64, p*p)
	row := make([]float64, p)
	for i := 0; i < n; i++ {
		mat.Row(row, i, design)
		pi := sigmoid(eta.AtVec(i))
		r := pi - target[i]
		w := pi * (1 - pi)
		for j := 0; j < p; j++ {
			g[j] += r * row[j]
			wj := w * row[j]
			for k := j; k < p; k++ {
				h[j*p+k] += wj * row[k]
			}
		}
	}

	var norm float64
	for j := 0; j < p; j++ {
		gj := c * g[j]
		if j > 0 {
			gj += beta.AtVec(j)
		}
		grad.SetVec(j, gj)
		norm = math.Max(norm, math.Abs(gj))
		for k := j; k < p; k++ {
			v := c * h[j*p+k]
			if j == k && j > 0 {
				v++
			}
			hess.SetSym(j, k, v)
		}
	}
	return norm
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// softplus computes log(1 + e^z) without overflow.
func softplus(z float64) float64 {
	if z > 0 {
		return z + math.Log1p(math.Exp(-z))
	}
	return math.Log1p(math.Exp(z))
}

// Logit returns log(p / (1 - p)). p must lie strictly inside (0, 1).
func Logit(p float64) (float64, error) {
	if !(p > 0 && p < 1) {
		return math.NaN(), fmt.Errorf("%w: %v", ErrDegenerateScore, p)
	}
	return math.Log(p / (1 - p)), nil
}

// LogitClipped clips p into [eps, 1-eps] before transforming it.
// eps must lie in (0, 0.5).
func LogitClipped(p, eps float64) (float64, error) {
	if !(eps > 0 && eps < 0.5) {
		return math.NaN(), fmt.Errorf("clip epsilon must be in (0, 0.5), got %v", eps)
	}
	if math.IsNaN(p) {
		return math.NaN(), fmt.Errorf("%w: %v", ErrDegenerateScore, p)
	}
	return Logit(math.Min(math.Max(p, eps), 1-eps))
}

// Scores returns the propensity of every row of x together with its logit.
// With clipEps == 0 a propensity of exactly 0 or 1 is an error; otherwise
// propensities are clipped into [clipEps, 1-clipEps] before the logit.
// The raw propensities are never clipped.
func Scores(m *Model, x [][]float64, clipEps float64) (raw, logit []float64, err error) {
	raw = m.PredictProba(x)
	logit = make([]float64, len(raw))
	for i, p := range raw {
		if clipEps == 0 {
			logit[i], err = Logit(p)
		} else {
			logit[i], err = LogitClipped(p, clipEps)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("sample %d: %w", i, err)
		}
	}
	return raw, logit, nil
}
