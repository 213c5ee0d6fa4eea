// Package sim generates the synthetic datasets behind the simulated
// studies: Gaussian point clouds for clustering, conjoint choice tasks
// with known preference coefficients, donation records with known arm
// response rates, and count outcomes with a known log-linear rate.
// Everything is seeded so a write-up can be regenerated exactly.
package sim

import "golang.org/x/exp/rand"

// Blobs draws perCluster points around each center with isotropic
// Gaussian spread, returning the points and their true cluster labels.
func Blobs(centers [][]float64, perCluster int, spread float64, seed uint64) ([][]float64, []int) {
	rng := rand.New(rand.NewSource(seed))
	n := len(centers) * perCluster
	X := make([][]float64, 0, n)
	labels := make([]int, 0, n)
	for k, center := range centers {
		for i := 0; i < perCluster; i++ {
			point := make([]float64, len(center))
			for j, c := range center {
				point[j] = c + rng.NormFloat64()*spread
			}
			X = append(X, point)
			labels = append(labels, k)
		}
	}
	return X, labels
}
