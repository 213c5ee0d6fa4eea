package dataprep

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPCAOnALine(t *testing.T) {
	// All points sit on y = 2x, so one direction carries everything.
	X := [][]float64{{-2, -4}, {-1, -2}, {0, 0}, {1, 2}, {2, 4}}

	p := NewPCA(2)
	require.NoError(t, p.Fit(X))

	// The leading component is (1,2)/sqrt(5) up to sign.
	v := p.Components[0]
	align := math.Abs(v[0]*1+v[1]*2) / math.Sqrt(5)
	assert.InDelta(t, 1, align, 1e-9)

	ratio := p.ExplainedRatio()
	assert.InDelta(t, 1, ratio[0], 1e-9)
	assert.InDelta(t, 0, ratio[1], 1e-9)

	// Projections keep the points' spacing along the line.
	proj := p.Transform(X)
	assert.InDelta(t, 0, proj[2][0], 1e-9)
	assert.InDelta(t, math.Sqrt(5), math.Abs(proj[3][0]), 1e-9)
}

func TestPCACorrelatedColumns(t *testing.T) {
	X := [][]float64{{1, 1}, {2, 2.1}, {3, 2.9}, {4, 4.05}, {5, 5}}

	p := NewPCA(2)
	require.NoError(t, p.Fit(X))

	// Two nearly identical columns load the leading component evenly.
	v := p.Components[0]
	assert.InDelta(t, math.Abs(v[0]), math.Abs(v[1]), 0.05)

	ratio := p.ExplainedRatio()
	assert.InDelta(t, 1, ratio[0]+ratio[1], 1e-9)
	assert.Greater(t, ratio[0], ratio[1])
	assert.Greater(t, ratio[0], 0.99)
}

func TestPCATransformShape(t *testing.T) {
	X := [][]float64{{1, 0, 2}, {2, 1, 1}, {3, 3, 0}, {4, 2, 2}}
	p := NewPCA(2)
	out := p.FitTransform(X)
	require.Len(t, out, 4)
	for _, row := range out {
		assert.Len(t, row, 2)
	}
}

func TestPCAUnfittedTransform(t *testing.T) {
	X := [][]float64{{1, 2}}
	assert.Equal(t, X, NewPCA(1).Transform(X))
}

func TestPCAValidation(t *testing.T) {
	assert.ErrorContains(t, NewPCA(1).Fit(nil), "empty")
	assert.ErrorContains(t, NewPCA(0).Fit([][]float64{{1, 2}}), "out of range")
	assert.ErrorContains(t, NewPCA(3).Fit([][]float64{{1, 2}}), "out of range")
}
