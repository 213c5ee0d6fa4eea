package classify

import (
	"errors"
	"sort"
)

// KNN is a lazy multiclass nearest-neighbor classifier: Fit stores the
// training data, Predict votes among the K nearest points by squared
// Euclidean distance. Features should be on comparable scales; the
// write-ups standardize first.
type KNN struct {
	K int

	x [][]float64
	y []int
}

// NewKNN returns a classifier voting among k neighbors.
func NewKNN(k int) *KNN { return &KNN{K: k} }

func (m *KNN) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("classify: empty training data")
	}
	if len(X) != len(y) {
		return errors.New("classify: the number of feature vectors must match the number of labels")
	}
	if m.K < 1 {
		return errors.New("classify: K must be at least 1")
	}
	m.x = X
	m.y = y
	return nil
}

func (m *KNN) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i, xi := range X {
		out[i] = m.predictSingle(xi)
	}
	return out
}

// predictSingle keeps a small sorted list of the K nearest neighbors
// seen so far, then takes a majority vote. Ties go to the class of the
// closest neighbor among the tied ones.
func (m *KNN) predictSingle(xi []float64) int {
	type pair struct {
		d     float64
		label int
	}
	nbrs := make([]pair, 0, m.K+1)
	for j, xj := range m.x {
		d := euclidSquared(xi, xj)
		if len(nbrs) < m.K {
			nbrs = append(nbrs, pair{d, m.y[j]})
			sort.Slice(nbrs, func(a, b int) bool { return nbrs[a].d < nbrs[b].d })
		} else if d < nbrs[len(nbrs)-1].d {
			nbrs[len(nbrs)-1] = pair{d, m.y[j]}
			sort.Slice(nbrs, func(a, b int) bool { return nbrs[a].d < nbrs[b].d })
		}
	}

	votes := make(map[int]int)
	for _, p := range nbrs {
		votes[p.label]++
	}
	best, bestVotes := nbrs[0].label, 0
	for _, p := range nbrs {
		// Iterating in distance order makes the nearest tied class win.
		if votes[p.label] > bestVotes {
			best, bestVotes = p.label, votes[p.label]
		}
	}
	return best
}

// euclidSquared computes the squared Euclidean distance between two
// vectors; the square root never matters for comparisons.
func euclidSquared(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
