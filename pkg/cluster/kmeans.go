// Package cluster groups unlabeled points. KMeans is the classic
// Lloyd loop: alternate nearest-centroid assignment and centroid-mean
// updates until no assignment changes, with an iteration cap as a
// backstop.
package cluster

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

// Init selects the centroid initialization strategy.
type Init int

const (
	// InitRandomPoints seeds centroids with K distinct points drawn
	// uniformly from the data.
	InitRandomPoints Init = iota
	// InitPlusPlus seeds centroids one at a time, weighting each
	// candidate by its squared distance to the nearest chosen centroid.
	InitPlusPlus
)

// KMeans partitions data points into K clusters.
type KMeans struct {
	K       int
	MaxIter int
	Init    Init
	Seed    uint64

	Centroids [][]float64
	Labels    []int
	Inertia   float64 // total within-cluster sum of squared distances
	History   []float64
	Iters     int
}

// NewKMeans returns a model with the given cluster count and the
// usual iteration cap.
func NewKMeans(k int) *KMeans {
	return &KMeans{K: k, MaxIter: 100}
}

// Fit runs the assignment/update loop on X. After it returns, Labels
// holds the cluster of each row, and History the inertia recorded at
// each iteration, which never increases from one iteration to the
// next.
func (m *KMeans) Fit(X [][]float64) error {
	if len(X) == 0 {
		return errors.New("cluster: input data cannot be empty")
	}
	n, p := len(X), len(X[0])
	if m.K < 1 {
		return fmt.Errorf("cluster: K must be positive, got %d", m.K)
	}
	if n < m.K {
		return fmt.Errorf("cluster: %d points for %d clusters", n, m.K)
	}
	if m.MaxIter <= 0 {
		m.MaxIter = 100
	}

	rng := rand.New(rand.NewSource(m.Seed))
	m.Centroids = m.initCentroids(X, rng)
	m.Labels = make([]int, n)
	m.History = m.History[:0]
	m.Iters = 0

	for it := 0; it < m.MaxIter; it++ {
		changed := false
		m.Inertia = 0
		for i, x := range X {
			best, bestD := nearest(x, m.Centroids)
			if m.Labels[i] != best {
				changed = true
				m.Labels[i] = best
			}
			m.Inertia += bestD
		}
		m.History = append(m.History, m.Inertia)
		m.Iters = it + 1
		if it > 0 && !changed {
			break
		}

		sums := make([][]float64, m.K)
		counts := make([]int, m.K)
		for k := range sums {
			sums[k] = make([]float64, p)
		}
		for i, x := range X {
			k := m.Labels[i]
			counts[k]++
			for j, v := range x {
				sums[k][j] += v
			}
		}
		for k := range sums {
			if counts[k] == 0 {
				// An empty cluster keeps its previous centroid.
				continue
			}
			for j := range sums[k] {
				m.Centroids[k][j] = sums[k][j] / float64(counts[k])
			}
		}
	}
	return nil
}

// Predict assigns each row of X to its nearest fitted centroid.
func (m *KMeans) Predict(X [][]float64) ([]int, error) {
	if len(m.Centroids) == 0 {
		return nil, errors.New("cluster: model is not fitted")
	}
	if len(X) == 0 {
		return nil, errors.New("cluster: input data cannot be empty")
	}
	if len(X[0]) != len(m.Centroids[0]) {
		return nil, fmt.Errorf("cluster: %d features, model has %d", len(X[0]), len(m.Centroids[0]))
	}
	labels := make([]int, len(X))
	for i, x := range X {
		labels[i], _ = nearest(x, m.Centroids)
	}
	return labels, nil
}

func (m *KMeans) initCentroids(X [][]float64, rng *rand.Rand) [][]float64 {
	if m.Init == InitPlusPlus {
		return initPlusPlus(X, m.K, rng)
	}
	centroids := make([][]float64, m.K)
	for k, idx := range rng.Perm(len(X))[:m.K] {
		centroids[k] = append([]float64(nil), X[idx]...)
	}
	return centroids
}

// initPlusPlus picks each next centroid with probability proportional
// to the squared distance from the already-chosen ones.
func initPlusPlus(X [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, append([]float64(nil), X[rng.Intn(len(X))]...))
	distSq := make([]float64, len(X))
	for len(centroids) < k {
		total := 0.0
		for i, x := range X {
			_, d := nearest(x, centroids)
			distSq[i] = d
			total += d
		}
		r := rng.Float64() * total
		cumulative := 0.0
		pick := len(X) - 1
		for i, d := range distSq {
			cumulative += d
			if cumulative >= r {
				pick = i
				break
			}
		}
		centroids = append(centroids, append([]float64(nil), X[pick]...))
	}
	return centroids
}

func nearest(x []float64, centroids [][]float64) (int, float64) {
	best, bestD := -1, math.MaxFloat64
	for k, c := range centroids {
		d := euclidSquared(x, c)
		if d < bestD {
			best, bestD = k, d
		}
	}
	return best, bestD
}

func euclidSquared(a, b []float64) float64 {
	s := 0.0
	for j := range a {
		d := a[j] - b[j]
		s += d * d
	}
	return s
}
