package dataprep

import "math"

// LogTransform applies log(x+1) to each value, the usual pre-plot
// treatment for right-skewed counts and prices.
func LogTransform(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = math.Log1p(v)
	}
	return out
}

// Bin assigns each value to one of n equal-width bins over the data
// range and returns the bin index per value plus the bin edges.
func Bin(x []float64, n int) ([]int, []float64) {
	min, max := x[0], x[0]
	for _, v := range x {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	edges := make([]float64, n+1)
	width := (max - min) / float64(n)
	for i := range edges {
		edges[i] = min + float64(i)*width
	}
	bins := make([]int, len(x))
	if width == 0 {
		return bins, edges
	}
	for i, v := range x {
		b := int((v - min) / width)
		if b >= n {
			b = n - 1
		}
		bins[i] = b
	}
	return bins, edges
}

// SelectColumns keeps the given column indices of each row.
func SelectColumns(X [][]float64, indices []int) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		selected := make([]float64, len(indices))
		for j, idx := range indices {
			selected[j] = row[idx]
		}
		out[i] = selected
	}
	return out
}
