package classify

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeLearnsSingleSplit(t *testing.T) {
	X := [][]float64{{-2}, {-1}, {1}, {2}}
	y := []int{0, 0, 1, 1}

	tree := NewTree(3)
	require.NoError(t, tree.Fit(X, y))

	assert.Equal(t, []int{0, 1}, tree.Predict([][]float64{{-5}, {5}}))
	assert.Equal(t, y, tree.Predict(X))

	// Pure leaves give certain probabilities.
	proba := tree.PredictProba([][]float64{{-5}, {5}})
	assert.Equal(t, []float64{1, 0}, proba[0])
	assert.Equal(t, []float64{0, 1}, proba[1])
}

func TestTreePredictProbaSumsToOne(t *testing.T) {
	// No split separates these, so the root stays an impure leaf.
	X := [][]float64{{0}, {0}, {1}, {1}}
	y := []int{0, 1, 0, 1}

	tree := NewTree(2)
	require.NoError(t, tree.Fit(X, y))

	for _, probs := range tree.PredictProba([][]float64{{0}, {1}}) {
		sum := 0.0
		for _, p := range probs {
			sum += p
		}
		assert.InDelta(t, 1, sum, 1e-12)
		assert.InDelta(t, 0.5, probs[0], 1e-12)
	}
}

func TestTreeDepthCap(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}}
	y := []int{0, 1, 1, 0}

	tree := NewTree(1)
	require.NoError(t, tree.Fit(X, y))

	require.False(t, tree.root.leaf)
	assert.True(t, tree.root.left.leaf)
	assert.True(t, tree.root.right.leaf)
}

func TestTreeMinLeaf(t *testing.T) {
	X := [][]float64{{-2}, {-1}, {1}, {2}}
	y := []int{0, 0, 1, 1}

	tree := NewTree(0)
	tree.MinLeaf = 3
	require.NoError(t, tree.Fit(X, y))

	// No split leaves three samples on both sides, so the root is a
	// leaf predicting the majority class.
	assert.True(t, tree.root.leaf)
	assert.Equal(t, []int{0}, tree.Predict([][]float64{{2}}))
}

func TestTreeValidation(t *testing.T) {
	tree := NewTree(2)
	assert.ErrorContains(t, tree.Fit(nil, nil), "empty")
	assert.ErrorContains(t, tree.Fit([][]float64{{1}}, []int{0, 1}), "must match")
	assert.ErrorContains(t, tree.Fit([][]float64{{1}}, []int{-1}), "negative label")
	assert.ErrorContains(t, tree.Fit([][]float64{{math.NaN()}}, []int{0}), "NaN feature")
}
