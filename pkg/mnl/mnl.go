// Package mnl fits the multinomial (conditional) logit model used for
// discrete-choice data. Each observation is a choice task: a handful
// of alternatives described by attributes, one of which was chosen.
// Utility is linear in the attributes and choice probabilities follow
// the softmax of the utilities.
package mnl

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat/distuv"
)

// Task is one choice occasion: the attribute rows of the alternatives
// shown, and the index of the alternative that was chosen.
type Task struct {
	Alternatives [][]float64
	Chosen       int
}

// NewTask validates a choice occasion. Exactly one alternative is
// chosen, identified by index, and all alternatives must share an
// attribute width.
func NewTask(alternatives [][]float64, chosen int) (Task, error) {
	if len(alternatives) < 2 {
		return Task{}, fmt.Errorf("mnl: a task needs at least two alternatives, got %d", len(alternatives))
	}
	width := len(alternatives[0])
	for j, alt := range alternatives {
		if len(alt) != width {
			return Task{}, fmt.Errorf("mnl: alternative %d has %d attributes, want %d", j, len(alt), width)
		}
	}
	if chosen < 0 || chosen >= len(alternatives) {
		return Task{}, fmt.Errorf("mnl: chosen index %d out of range [0,%d)", chosen, len(alternatives))
	}
	return Task{Alternatives: alternatives, Chosen: chosen}, nil
}

// Fit is a fitted multinomial logit.
type Fit struct {
	Names []string
	Coef  []float64
	SE    []float64
	Z     []float64
	P     []float64

	LogLik     float64
	NullLogLik float64
	AIC        float64
	BIC        float64
	PseudoR2   float64 // McFadden
	NTasks     int
}

// FitMNL estimates attribute coefficients by maximum likelihood. The
// log-likelihood per task is the chosen utility minus the log-sum-exp
// of all utilities; both it and its gradient are analytic, so the
// minimizer is the same quasi-Newton routine the regression models use.
func FitMNL(tasks []Task, names []string) (*Fit, error) {
	if len(tasks) == 0 {
		return nil, fmt.Errorf("mnl: no tasks")
	}
	p := len(names)
	for t, task := range tasks {
		if len(task.Alternatives) == 0 {
			return nil, fmt.Errorf("mnl: task %d has no alternatives", t)
		}
		if len(task.Alternatives[0]) != p {
			return nil, fmt.Errorf("mnl: task %d has %d attributes, want %d", t, len(task.Alternatives[0]), p)
		}
	}

	negLogLik := func(beta []float64) float64 {
		ll := 0.0
		for _, task := range tasks {
			u := utilities(task, beta)
			ll += u[task.Chosen] - logSumExp(u)
		}
		return -ll
	}
	grad := func(g, beta []float64) {
		for j := range g {
			g[j] = 0
		}
		for _, task := range tasks {
			probs := softmax(utilities(task, beta))
			for j := range g {
				g[j] -= task.Alternatives[task.Chosen][j]
				for a, alt := range task.Alternatives {
					g[j] += probs[a] * alt[j]
				}
			}
		}
	}

	problem := optimize.Problem{Func: negLogLik, Grad: grad}
	result, err := optimize.Minimize(problem, make([]float64, p), nil, &optimize.BFGS{})
	if err != nil {
		return nil, fmt.Errorf("mnl: fit did not converge: %w", err)
	}

	fit := &Fit{
		Names:  append([]string(nil), names...),
		Coef:   append([]float64(nil), result.X...),
		LogLik: -result.F,
		NTasks: len(tasks),
	}
	if err := fit.information(grad); err != nil {
		return nil, err
	}
	for _, task := range tasks {
		fit.NullLogLik -= math.Log(float64(len(task.Alternatives)))
	}
	k := float64(p)
	fit.AIC = 2*k - 2*fit.LogLik
	fit.BIC = k*math.Log(float64(len(tasks))) - 2*fit.LogLik
	fit.PseudoR2 = 1 - fit.LogLik/fit.NullLogLik
	return fit, nil
}

// information estimates the Hessian of the negative log-likelihood by
// central differences of the analytic gradient, then inverts it for
// the coefficient covariance.
func (f *Fit) information(grad func(g, beta []float64)) error {
	p := len(f.Coef)
	const h = 1e-5
	hessian := mat.NewSymDense(p, nil)
	plus := make([]float64, p)
	minus := make([]float64, p)
	beta := make([]float64, p)
	for k := 0; k < p; k++ {
		copy(beta, f.Coef)
		beta[k] = f.Coef[k] + h
		grad(plus, beta)
		beta[k] = f.Coef[k] - h
		grad(minus, beta)
		for j := k; j < p; j++ {
			hessian.SetSym(k, j, (plus[j]-minus[j])/(2*h))
		}
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(hessian); !ok {
		return fmt.Errorf("mnl: information matrix is not positive definite")
	}
	var cov mat.SymDense
	if err := chol.InverseTo(&cov); err != nil {
		return fmt.Errorf("mnl: invert information: %w", err)
	}
	f.SE = make([]float64, p)
	f.Z = make([]float64, p)
	f.P = make([]float64, p)
	for j := 0; j < p; j++ {
		f.SE[j] = math.Sqrt(cov.At(j, j))
		f.Z[j] = f.Coef[j] / f.SE[j]
		f.P[j] = 2 * distuv.UnitNormal.CDF(-math.Abs(f.Z[j]))
	}
	return nil
}

// Probabilities returns the choice probabilities of a task under
// coefficients beta.
func Probabilities(task Task, beta []float64) []float64 {
	return softmax(utilities(task, beta))
}

// Shares averages the choice probabilities across tasks, position by
// position: the predicted market share of each alternative slot. All
// tasks must offer the same number of alternatives.
func Shares(tasks []Task, beta []float64) ([]float64, error) {
	if len(tasks) == 0 {
		return nil, fmt.Errorf("mnl: no tasks")
	}
	nAlt := len(tasks[0].Alternatives)
	shares := make([]float64, nAlt)
	for t, task := range tasks {
		if len(task.Alternatives) != nAlt {
			return nil, fmt.Errorf("mnl: task %d has %d alternatives, want %d", t, len(task.Alternatives), nAlt)
		}
		for a, pr := range Probabilities(task, beta) {
			shares[a] += pr
		}
	}
	for a := range shares {
		shares[a] /= float64(len(tasks))
	}
	return shares, nil
}

// WTP converts coefficients to willingness-to-pay: the dollar value of
// each attribute is its coefficient divided by the negated price
// coefficient. The price coefficient must be negative for the ratios
// to make sense.
func (f *Fit) WTP(priceIndex int) ([]float64, error) {
	if priceIndex < 0 || priceIndex >= len(f.Coef) {
		return nil, fmt.Errorf("mnl: price index %d out of range", priceIndex)
	}
	bp := f.Coef[priceIndex]
	if bp >= 0 {
		return nil, fmt.Errorf("mnl: price coefficient is %g, expected negative", bp)
	}
	wtp := make([]float64, len(f.Coef))
	for j, b := range f.Coef {
		if j == priceIndex {
			continue
		}
		wtp[j] = -b / bp
	}
	return wtp, nil
}

func utilities(task Task, beta []float64) []float64 {
	u := make([]float64, len(task.Alternatives))
	for a, alt := range task.Alternatives {
		s := 0.0
		for j := range beta {
			s += alt[j] * beta[j]
		}
		u[a] = s
	}
	return u
}

func logSumExp(u []float64) float64 {
	max := u[0]
	for _, v := range u[1:] {
		if v > max {
			max = v
		}
	}
	s := 0.0
	for _, v := range u {
		s += math.Exp(v - max)
	}
	return max + math.Log(s)
}

func softmax(u []float64) []float64 {
	max := u[0]
	for _, v := range u[1:] {
		if v > max {
			max = v
		}
	}
	probs := make([]float64, len(u))
	s := 0.0
	for i, v := range u {
		probs[i] = math.Exp(v - max)
		s += probs[i]
	}
	for i := range probs {
		probs[i] /= s
	}
	return probs
}
