// Package stats provides the descriptive statistics and column
// transformations shared by the case studies. Everything operates on
// plain float64 slices in a single pass where the formula allows it.
package stats

import (
	"math"
	"sort"
)

// Mean computes the average of a slice.
func Mean(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum / float64(n)
}

// Variance computes the sample variance (n-1 denominator) with
// Welford's update, which stays stable when values share a large
// common offset.
func Variance(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	var mean, m2 float64
	for i, v := range x {
		delta := v - mean
		mean += delta / float64(i+1)
		m2 += delta * (v - mean)
	}
	return m2 / float64(len(x)-1)
}

// Std computes the sample standard deviation of a slice.
func Std(x []float64) float64 {
	return math.Sqrt(Variance(x))
}

// Sum returns the sum of all elements in the slice.
func Sum(x []float64) float64 {
	s := 0.0
	for _, v := range x {
		s += v
	}
	return s
}

// MinMax returns the minimum and maximum values in the slice.
func MinMax(x []float64) (float64, float64) {
	if len(x) == 0 {
		return 0, 0
	}
	min, max := x[0], x[0]
	for i := 1; i < len(x); i++ {
		if x[i] < min {
			min = x[i]
		} else if x[i] > max {
			max = x[i]
		}
	}
	return min, max
}

// Median returns the median value of the slice (allocates a copy).
func Median(x []float64) float64 {
	return Quantile(x, 0.5)
}

// Quantile returns the p-th quantile (0 <= p <= 1) with linear
// interpolation between order statistics, matching the default of the
// usual statistical packages.
func Quantile(x []float64, p float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	cp := make([]float64, n)
	copy(cp, x)
	sort.Float64s(cp)
	if p <= 0 {
		return cp[0]
	}
	if p >= 1 {
		return cp[n-1]
	}
	rank := p * float64(n-1)
	lower := int(rank)
	weight := rank - float64(lower)
	if lower+1 >= n {
		return cp[lower]
	}
	return cp[lower]*(1-weight) + cp[lower+1]*weight
}

// Mode returns the most frequent value in the slice; the earliest
// value wins a tie.
func Mode(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	counts := make(map[float64]int)
	maxCount := 0
	mode := x[0]
	for _, v := range x {
		counts[v]++
		if counts[v] > maxCount {
			maxCount = counts[v]
			mode = v
		}
	}
	return mode
}

// Covariance computes the sample covariance between two slices.
func Covariance(x, y []float64) float64 {
	n := len(x)
	if n < 2 || len(y) != n {
		return 0
	}
	mx, my := Mean(x), Mean(y)
	s := 0.0
	for i := range x {
		s += (x[i] - mx) * (y[i] - my)
	}
	return s / float64(n-1)
}

// Correlation computes the Pearson correlation coefficient between two
// slices in a single pass.
func Correlation(x, y []float64) float64 {
	n := float64(len(x))
	if n == 0 || len(y) != len(x) {
		return 0
	}
	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for i := range x {
		xi, yi := x[i], y[i]
		sumX += xi
		sumY += yi
		sumXY += xi * yi
		sumX2 += xi * xi
		sumY2 += yi * yi
	}
	numerator := n*sumXY - sumX*sumY
	denominator := math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// Skewness returns the adjusted Fisher-Pearson sample skewness.
func Skewness(x []float64) float64 {
	n := float64(len(x))
	if n < 3 {
		return 0
	}
	m, s := Mean(x), Std(x)
	if s == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range x {
		d := (v - m) / s
		sum += d * d * d
	}
	return n / ((n - 1) * (n - 2)) * sum
}
