// Package mcmc implements a plain random-walk Metropolis-Hastings
// sampler. It is deliberately the textbook loop: a fixed number of
// iterations, a symmetric Gaussian proposal around the current point,
// and accept/reject against a uniform draw. No adaptation, no multiple
// chains, no convergence machinery; the write-ups that use it inspect
// trace plots and acceptance rates by hand.
package mcmc

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"econlab/pkg/stats"
)

// Sampler draws from an unnormalized log density.
type Sampler struct {
	// LogTarget evaluates the log of the target density up to an
	// additive constant. Return math.Inf(-1) outside the support.
	LogTarget func(x []float64) float64
	// Scale is the proposal standard deviation, either one value
	// shared by all dimensions or one per dimension.
	Scale []float64
	// Iterations counts proposals after burn-in.
	Iterations int
	// BurnIn counts discarded warm-up proposals.
	BurnIn int
	// Seed makes the walk reproducible.
	Seed uint64
}

// Run starts the walk at start and returns the retained draws.
func (s *Sampler) Run(start []float64) (*Chain, error) {
	if s.LogTarget == nil {
		return nil, fmt.Errorf("mcmc: nil log target")
	}
	if s.Iterations <= 0 {
		return nil, fmt.Errorf("mcmc: iterations must be positive, got %d", s.Iterations)
	}
	if s.BurnIn < 0 {
		return nil, fmt.Errorf("mcmc: negative burn-in %d", s.BurnIn)
	}
	dim := len(start)
	if dim == 0 {
		return nil, fmt.Errorf("mcmc: empty start point")
	}
	scale, err := s.scales(dim)
	if err != nil {
		return nil, err
	}

	current := append([]float64(nil), start...)
	logp := s.LogTarget(current)
	if math.IsInf(logp, -1) || math.IsNaN(logp) {
		return nil, fmt.Errorf("mcmc: log target is %g at the start point", logp)
	}

	rng := rand.New(rand.NewSource(s.Seed))
	chain := &Chain{dim: dim, draws: make([][]float64, 0, s.Iterations)}
	proposal := make([]float64, dim)
	total := s.BurnIn + s.Iterations
	for it := 0; it < total; it++ {
		for j := range proposal {
			proposal[j] = current[j] + rng.NormFloat64()*scale[j]
		}
		logq := s.LogTarget(proposal)
		// Density ratio against a uniform draw; -Inf proposals lose
		// every time, which is how support constraints are enforced.
		if rng.Float64() < math.Exp(logq-logp) {
			copy(current, proposal)
			logp = logq
			if it >= s.BurnIn {
				chain.accepted++
			}
		}
		if it >= s.BurnIn {
			chain.draws = append(chain.draws, append([]float64(nil), current...))
		}
	}
	return chain, nil
}

func (s *Sampler) scales(dim int) ([]float64, error) {
	var scale []float64
	switch len(s.Scale) {
	case 1:
		scale = make([]float64, dim)
		for j := range scale {
			scale[j] = s.Scale[0]
		}
	case dim:
		scale = append([]float64(nil), s.Scale...)
	default:
		return nil, fmt.Errorf("mcmc: %d proposal scales for %d dimensions", len(s.Scale), dim)
	}
	for j, v := range scale {
		if v <= 0 {
			return nil, fmt.Errorf("mcmc: proposal scale %g in dimension %d, want positive", v, j)
		}
	}
	return scale, nil
}

// Chain holds retained draws, one row per iteration.
type Chain struct {
	dim      int
	draws    [][]float64
	accepted int
}

// Len returns the number of retained draws.
func (c *Chain) Len() int { return len(c.draws) }

// Dim returns the dimension of the target.
func (c *Chain) Dim() int { return c.dim }

// AcceptanceRate returns the share of retained iterations that moved.
func (c *Chain) AcceptanceRate() float64 {
	if len(c.draws) == 0 {
		return 0
	}
	return float64(c.accepted) / float64(len(c.draws))
}

// Draws returns the raw draws. The slice is shared, not copied.
func (c *Chain) Draws() [][]float64 { return c.draws }

// Col copies out the draws of one dimension, ready for a trace plot.
func (c *Chain) Col(j int) []float64 {
	out := make([]float64, len(c.draws))
	for i, d := range c.draws {
		out[i] = d[j]
	}
	return out
}

// Mean returns the posterior mean per dimension.
func (c *Chain) Mean() []float64 {
	out := make([]float64, c.dim)
	for j := range out {
		out[j] = stats.Mean(c.Col(j))
	}
	return out
}

// Std returns the posterior standard deviation per dimension.
func (c *Chain) Std() []float64 {
	out := make([]float64, c.dim)
	for j := range out {
		out[j] = stats.Std(c.Col(j))
	}
	return out
}

// Quantile returns the p-th posterior quantile per dimension.
func (c *Chain) Quantile(p float64) []float64 {
	out := make([]float64, c.dim)
	for j := range out {
		out[j] = stats.Quantile(c.Col(j), p)
	}
	return out
}

// Thin keeps every stride-th draw, a cheap way to shorten trace plots.
func (c *Chain) Thin(stride int) *Chain {
	if stride <= 1 {
		return c
	}
	out := &Chain{dim: c.dim, accepted: c.accepted}
	for i := 0; i < len(c.draws); i += stride {
		out.draws = append(out.draws, c.draws[i])
	}
	return out
}
