package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWelchTIdenticalSamples(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	res := WelchT(x, x)
	assert.Equal(t, 0.0, res.Diff)
	assert.Equal(t, 0.0, res.T)
	assert.InDelta(t, 1.0, res.P, 1e-12)
}

func TestWelchTShift(t *testing.T) {
	x := []float64{10.1, 9.8, 10.2, 10.0, 9.9, 10.1, 10.0, 9.9}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = v - 2
	}
	res := WelchT(x, y)
	assert.InDelta(t, 2.0, res.Diff, 1e-12)
	assert.Greater(t, res.T, 10.0)
	assert.Less(t, res.P, 0.001)
	// Equal variances make Welch-Satterthwaite collapse to 2n-2.
	assert.InDelta(t, 14.0, res.DF, 1e-6)
}

func TestWelchTDegenerate(t *testing.T) {
	res := WelchT([]float64{3, 3}, []float64{3, 3})
	assert.Equal(t, 1.0, res.P)
}

func TestTwoProportionZEqualRates(t *testing.T) {
	res := TwoProportionZ(50, 100, 50, 100)
	assert.Equal(t, 0.0, res.Diff)
	assert.Equal(t, 0.0, res.Z)
	assert.InDelta(t, 1.0, res.P, 1e-12)
}

func TestTwoProportionZLift(t *testing.T) {
	// 2.2% vs 1.8% on large samples is a clear z > 2.
	res := TwoProportionZ(440, 20000, 360, 20000)
	assert.InDelta(t, 0.022, res.P1, 1e-12)
	assert.InDelta(t, 0.018, res.P2, 1e-12)
	assert.Greater(t, res.Z, 2.0)
	assert.Less(t, res.P, 0.05)
}

func TestTwoProportionZAllOrNothing(t *testing.T) {
	// Pooled proportion 0 or 1 gives no usable standard error.
	res := TwoProportionZ(0, 10, 0, 10)
	assert.Equal(t, 1.0, res.P)
}
