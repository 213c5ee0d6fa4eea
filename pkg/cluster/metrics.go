package cluster

import "fmt"

// RandIndex measures agreement between two labelings as the share of
// point pairs on which they agree (same cluster in both, or different
// in both). Label values themselves do not matter, only the grouping.
func RandIndex(a, b []int) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("cluster: labelings differ in length, %d vs %d", len(a), len(b))
	}
	n := len(a)
	if n < 2 {
		return 1, nil
	}
	agree := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sameA := a[i] == a[j]
			sameB := b[i] == b[j]
			if sameA == sameB {
				agree++
			}
		}
	}
	pairs := n * (n - 1) / 2
	return float64(agree) / float64(pairs), nil
}

// Elbow fits KMeans for every k in ks and returns the final inertia of
// each fit, the data behind an elbow chart.
func Elbow(X [][]float64, ks []int, init Init, seed uint64) ([]float64, error) {
	inertias := make([]float64, len(ks))
	for i, k := range ks {
		m := NewKMeans(k)
		m.Init = init
		m.Seed = seed
		if err := m.Fit(X); err != nil {
			return nil, fmt.Errorf("cluster: elbow at k=%d: %w", k, err)
		}
		inertias[i] = m.Inertia
	}
	return inertias, nil
}
