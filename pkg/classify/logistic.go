package classify

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"econlab/pkg/optim"
)

// Logistic is a binary logistic regression trained by mini-batch
// stochastic gradient descent on the cross-entropy loss. Labels must
// be 0 or 1.
type Logistic struct {
	LearningRate float64
	Epochs       int
	BatchSize    int
	Seed         uint64

	W []float64
	B float64
}

// NewLogistic returns a model with the training defaults the write-ups
// use on standardized features.
func NewLogistic() *Logistic {
	return &Logistic{LearningRate: 0.1, Epochs: 200, BatchSize: 32}
}

func (m *Logistic) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("classify: empty training data")
	}
	if len(X) != len(y) {
		return errors.New("classify: the number of feature vectors must match the number of labels")
	}
	target := make([]float64, len(y))
	for i, v := range y {
		if v != 0 && v != 1 {
			return fmt.Errorf("classify: logistic regression needs 0/1 labels, got %d", v)
		}
		target[i] = float64(v)
	}

	rng := rand.New(rand.NewSource(m.Seed))
	m.W = make([]float64, len(X[0]))
	for j := range m.W {
		// Small random weights break symmetry between features.
		m.W[j] = rng.NormFloat64() * 0.01
	}
	m.B = 0

	opt := optim.NewSGD(m.LearningRate)
	gW := make([]float64, len(m.W))
	for ep := 0; ep < m.Epochs; ep++ {
		for _, batch := range optim.MiniBatches(X, target, m.BatchSize, rng) {
			for j := range gW {
				gW[j] = 0
			}
			gB := 0.0
			n := float64(len(batch.X))
			for i, row := range batch.X {
				// d is the cross-entropy gradient through the sigmoid.
				d := (sigmoid(m.B+dot(row, m.W)) - batch.Y[i]) / n
				for j, v := range row {
					gW[j] += d * v
				}
				gB += d
			}
			opt.Step(m.W, gW)
			m.B -= m.LearningRate * gB
		}
	}
	return nil
}

// PredictProba returns p(y=1) for each row.
func (m *Logistic) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, row := range X {
		out[i] = sigmoid(m.B + dot(row, m.W))
	}
	return out
}

func (m *Logistic) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i, p := range m.PredictProba(X) {
		if p >= 0.5 {
			out[i] = 1
		}
	}
	return out
}

// CrossEntropy is the mean binary cross-entropy of predicted
// probabilities against 0/1 labels, with the probabilities clamped
// away from the log singularities.
func CrossEntropy(y []int, proba []float64) float64 {
	s := 0.0
	for i := range y {
		p := math.Min(math.Max(proba[i], 1e-12), 1-1e-12)
		if y[i] == 1 {
			s -= math.Log(p)
		} else {
			s -= math.Log(1 - p)
		}
	}
	return s / float64(len(y))
}

func sigmoid(x float64) float64 { return 1.0 / (1.0 + math.Exp(-x)) }

func dot(x, w []float64) float64 {
	s := 0.0
	for j := range x {
		s += x[j] * w[j]
	}
	return s
}
