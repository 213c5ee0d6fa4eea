package optim

import "golang.org/x/exp/rand"

// Batch is one mini-batch of rows and targets.
type Batch struct {
	X [][]float64
	Y []float64
}

// MiniBatches shuffles the rows and slices them into batches of the
// given size; the last batch may be short. Row slices are shared with
// the input, only the order is new.
func MiniBatches(X [][]float64, y []float64, size int, rng *rand.Rand) []Batch {
	n := len(X)
	if size <= 0 || size > n {
		size = n
	}
	order := rng.Perm(n)
	batches := make([]Batch, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		b := Batch{
			X: make([][]float64, 0, end-start),
			Y: make([]float64, 0, end-start),
		}
		for _, idx := range order[start:end] {
			b.X = append(b.X, X[idx])
			b.Y = append(b.Y, y[idx])
		}
		batches = append(batches, b)
	}
	return batches
}
