package sim

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// PoissonCounts draws one count per design row with rate
// exp(x·beta), the generating process a Poisson regression assumes.
func PoissonCounts(X [][]float64, beta []float64, seed uint64) []float64 {
	src := rand.NewSource(seed)
	y := make([]float64, len(X))
	for i, row := range X {
		eta := 0.0
		for j, v := range row {
			eta += v * beta[j]
		}
		y[i] = distuv.Poisson{Lambda: math.Exp(eta), Src: src}.Rand()
	}
	return y
}
