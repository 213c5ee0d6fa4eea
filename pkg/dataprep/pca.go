package dataprep

import (
	"errors"
	"math"

	"golang.org/x/exp/rand"
)

// PCA finds the top K principal components by power iteration with
// deflation: find the leading direction of the centered data, remove
// it, repeat. The case studies use it to project multivariate
// measurements down to two dimensions for plotting.
type PCA struct {
	K        int
	MaxIters int
	Seed     uint64

	Means      []float64
	Components [][]float64 // K x p unit vectors
	Explained  []float64   // approximate eigenvalues
}

// NewPCA returns a PCA keeping k components.
func NewPCA(k int) *PCA {
	return &PCA{K: k, MaxIters: 100}
}

func (p *PCA) Fit(X [][]float64) error {
	if len(X) == 0 {
		return errors.New("dataprep: input data cannot be empty")
	}
	n, d := len(X), len(X[0])
	if p.K < 1 || p.K > d {
		return errors.New("dataprep: component count out of range")
	}
	if p.MaxIters <= 0 {
		p.MaxIters = 100
	}

	p.Means = make([]float64, d)
	for _, row := range X {
		for j, v := range row {
			p.Means[j] += v
		}
	}
	for j := range p.Means {
		p.Means[j] /= float64(n)
	}
	Z := make([][]float64, n)
	for i, row := range X {
		z := make([]float64, d)
		for j, v := range row {
			z[j] = v - p.Means[j]
		}
		Z[i] = z
	}

	rng := rand.New(rand.NewSource(p.Seed))
	p.Components = make([][]float64, 0, p.K)
	p.Explained = make([]float64, 0, p.K)
	for comp := 0; comp < p.K; comp++ {
		v := make([]float64, d)
		for j := range v {
			v[j] = rng.Float64()
		}
		v = normalize(v)

		// Power iteration: v <- normalize(Z'Zv) converges to the
		// leading eigenvector of the covariance.
		for t := 0; t < p.MaxIters; t++ {
			Zv := make([]float64, n)
			for i, z := range Z {
				s := 0.0
				for j := range z {
					s += z[j] * v[j]
				}
				Zv[i] = s
			}
			w := make([]float64, d)
			for i, z := range Z {
				for j := range z {
					w[j] += z[j] * Zv[i]
				}
			}
			v = normalize(w)
		}

		lam := 0.0
		for _, z := range Z {
			s := 0.0
			for j := range z {
				s += z[j] * v[j]
			}
			lam += s * s
		}
		lam /= float64(n - 1)
		p.Explained = append(p.Explained, lam)
		p.Components = append(p.Components, v)

		// Deflate: remove the found direction from the data.
		for i, z := range Z {
			s := 0.0
			for j := range z {
				s += z[j] * v[j]
			}
			for j := range z {
				Z[i][j] -= s * v[j]
			}
		}
	}
	return nil
}

// Transform projects rows onto the fitted components. Before Fit it
// returns the input unchanged, matching the other transformers.
func (p *PCA) Transform(X [][]float64) [][]float64 {
	if len(p.Components) == 0 {
		return X
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		t := make([]float64, len(p.Components))
		for k, comp := range p.Components {
			s := 0.0
			for j := range comp {
				s += (row[j] - p.Means[j]) * comp[j]
			}
			t[k] = s
		}
		out[i] = t
	}
	return out
}

func (p *PCA) FitTransform(X [][]float64) [][]float64 {
	if err := p.Fit(X); err != nil {
		return X
	}
	return p.Transform(X)
}

// ExplainedRatio returns each component's share of the total captured
// variance.
func (p *PCA) ExplainedRatio() []float64 {
	total := 0.0
	for _, v := range p.Explained {
		total += v
	}
	out := make([]float64, len(p.Explained))
	if total == 0 {
		return out
	}
	for i, v := range p.Explained {
		out[i] = v / total
	}
	return out
}

func normalize(v []float64) []float64 {
	sumSquared := 0.0
	for _, val := range v {
		sumSquared += val * val
	}
	norm := math.Sqrt(sumSquared)
	if norm == 0 {
		return v
	}
	out := make([]float64, len(v))
	for i, val := range v {
		out[i] = val / norm
	}
	return out
}
