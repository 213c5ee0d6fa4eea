package glm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"econlab/pkg/dataset"
	"econlab/pkg/sim"
)

func interceptDesign(t *testing.T, n int) *Design {
	t.Helper()
	filler := make([]float64, n)
	tbl, err := dataset.NewTable(
		&dataset.Column{Name: "x", Kind: dataset.Numeric, Floats: filler},
	)
	require.NoError(t, err)
	d, err := NewDesign(tbl).Intercept().Build()
	require.NoError(t, err)
	return d
}

// TestPoissonInterceptOnly checks the textbook identity: with only an
// intercept the MLE rate is the sample mean.
func TestPoissonInterceptOnly(t *testing.T) {
	y := []float64{2, 3, 5, 1, 4, 0, 3, 2}
	mean := 0.0
	for _, v := range y {
		mean += v
	}
	mean /= float64(len(y))

	fit, err := FitPoisson(interceptDesign(t, len(y)), y, Options{})
	require.NoError(t, err)

	assert.InDelta(t, mean, fit.Rate([]float64{1}), 1e-6)
	assert.InDelta(t, math.Log(mean), fit.Coef[0], 1e-6)
	// The intercept-only model is the null model.
	assert.InDelta(t, fit.NullLogLik, fit.LogLik, 1e-6)
	assert.InDelta(t, 0, fit.PseudoR2, 1e-6)
}

func TestPoissonRecoversCoefficients(t *testing.T) {
	const n = 500
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = 2 * float64(i) / float64(n-1)
	}
	tbl, err := dataset.NewTable(
		&dataset.Column{Name: "x", Kind: dataset.Numeric, Floats: xs},
	)
	require.NoError(t, err)
	d, err := NewDesign(tbl).Intercept().Numeric("x").Build()
	require.NoError(t, err)

	beta := []float64{0.5, 0.8}
	y := sim.PoissonCounts(d.X, beta, 7)

	fit, err := FitPoisson(d, y, Options{})
	require.NoError(t, err)

	assert.InDelta(t, beta[0], fit.Coef[0], 0.2)
	assert.InDelta(t, beta[1], fit.Coef[1], 0.2)
	assert.Greater(t, fit.SE[1], 0.0)
	assert.Less(t, fit.P[1], 0.001)
	assert.Greater(t, fit.PseudoR2, 0.0)
	assert.Len(t, fit.Fitted, n)
}

func TestPoissonExposureOffset(t *testing.T) {
	// Counts proportional to exposure: the per-unit rate is 2
	// everywhere and the model reproduces every count exactly.
	y := []float64{2, 4, 6, 8}
	exposure := []float64{1, 2, 3, 4}

	fit, err := FitPoisson(interceptDesign(t, len(y)), y, Options{Exposure: exposure})
	require.NoError(t, err)

	assert.InDelta(t, math.Log(2), fit.Coef[0], 1e-6)
	for i := range y {
		assert.InDelta(t, y[i], fit.Fitted[i], 1e-5)
	}
	assert.InDelta(t, 0, fit.Deviance, 1e-6)
}

func TestPoissonValidation(t *testing.T) {
	d := interceptDesign(t, 2)

	_, err := FitPoisson(d, []float64{1}, Options{})
	assert.ErrorContains(t, err, "responses")

	_, err = FitPoisson(d, []float64{1, 1.5}, Options{})
	assert.ErrorContains(t, err, "non-negative count")

	_, err = FitPoisson(d, []float64{1, -1}, Options{})
	assert.ErrorContains(t, err, "non-negative count")

	_, err = FitPoisson(d, []float64{1, 2}, Options{Exposure: []float64{1}})
	assert.ErrorContains(t, err, "exposures")

	_, err = FitPoisson(d, []float64{1, 2}, Options{Exposure: []float64{1, 0}})
	assert.ErrorContains(t, err, "exposure must be positive")
}

func TestPoissonIRR(t *testing.T) {
	y := []float64{1, 2, 3, 4, 5, 6}
	fit, err := FitPoisson(interceptDesign(t, len(y)), y, Options{})
	require.NoError(t, err)

	ratio, lo, hi := fit.IRR()
	require.Len(t, ratio, 1)
	assert.InDelta(t, math.Exp(fit.Coef[0]), ratio[0], 1e-12)
	assert.InDelta(t, math.Exp(fit.Coef[0]-1.96*fit.SE[0]), lo[0], 1e-12)
	assert.InDelta(t, math.Exp(fit.Coef[0]+1.96*fit.SE[0]), hi[0], 1e-12)
	assert.Less(t, lo[0], ratio[0])
	assert.Greater(t, hi[0], ratio[0])
}

func TestPoissonSingularDesign(t *testing.T) {
	// A term that never varies leaves the information matrix singular.
	tbl, err := dataset.NewTable(
		&dataset.Column{Name: "dead", Kind: dataset.Numeric, Floats: []float64{0, 0, 0, 0, 0}},
	)
	require.NoError(t, err)
	d, err := NewDesign(tbl).Intercept().Numeric("dead").Build()
	require.NoError(t, err)

	_, err = FitPoisson(d, []float64{1, 2, 3, 4, 5}, Options{})
	assert.ErrorContains(t, err, "collinear")
}

func TestPoissonFitMeasures(t *testing.T) {
	y := []float64{0, 1, 1, 2, 3, 5, 4, 6}
	fit, err := FitPoisson(interceptDesign(t, len(y)), y, Options{})
	require.NoError(t, err)

	assert.InDelta(t, 2*1-2*fit.LogLik, fit.AIC, 1e-10)
	assert.InDelta(t, math.Log(8)-2*fit.LogLik, fit.BIC, 1e-10)
	assert.Greater(t, fit.Deviance, 0.0)
	assert.Equal(t, 8, fit.NObs)
}
