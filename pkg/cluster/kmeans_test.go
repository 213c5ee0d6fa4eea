package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"econlab/pkg/sim"
)

var blobCenters = [][]float64{{-6, 0}, {0, 6}, {6, 0}}

func TestKMeansHistoryNonIncreasing(t *testing.T) {
	X, _ := sim.Blobs(blobCenters, 50, 1.5, 4)
	m := NewKMeans(3)
	m.Seed = 4
	require.NoError(t, m.Fit(X))

	require.NotEmpty(t, m.History)
	for i := 1; i < len(m.History); i++ {
		assert.LessOrEqual(t, m.History[i], m.History[i-1]+1e-9,
			"inertia rose between iterations %d and %d", i-1, i)
	}
	assert.Equal(t, m.History[len(m.History)-1], m.Inertia)
	assert.Equal(t, len(m.History), m.Iters)
}

// TestKMeansOneClusterPerPoint pins K to the number of points, which
// makes every point its own centroid and drives the inertia to zero.
func TestKMeansOneClusterPerPoint(t *testing.T) {
	X, _ := sim.Blobs(blobCenters, 4, 1.0, 8)
	m := NewKMeans(len(X))
	m.Seed = 8
	require.NoError(t, m.Fit(X))

	assert.Equal(t, 0.0, m.Inertia)
	seen := make(map[int]bool)
	for _, l := range m.Labels {
		seen[l] = true
	}
	assert.Len(t, seen, len(X))
}

func TestKMeansIdenticalPoints(t *testing.T) {
	X := [][]float64{{2, 2}, {2, 2}, {2, 2}, {2, 2}}
	m := NewKMeans(2)
	require.NoError(t, m.Fit(X))
	assert.Equal(t, 0.0, m.Inertia)
	assert.Len(t, m.Labels, 4)
}

func TestKMeansRecoversBlobs(t *testing.T) {
	X, truth := sim.Blobs(blobCenters, 60, 0.3, 21)
	m := NewKMeans(3)
	m.Init = InitPlusPlus
	m.Seed = 21
	require.NoError(t, m.Fit(X))

	ri, err := RandIndex(m.Labels, truth)
	require.NoError(t, err)
	assert.Greater(t, ri, 0.9)

	// Predict on the training data reproduces the fitted labels.
	pred, err := m.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, m.Labels, pred)

	// The true centers each map to a different cluster.
	centerLabels, err := m.Predict(blobCenters)
	require.NoError(t, err)
	seen := make(map[int]bool)
	for _, l := range centerLabels {
		seen[l] = true
	}
	assert.Len(t, seen, 3)
}

func TestKMeansMaxIterCap(t *testing.T) {
	X, _ := sim.Blobs(blobCenters, 30, 2.0, 5)
	m := NewKMeans(3)
	m.MaxIter = 1
	m.Seed = 5
	require.NoError(t, m.Fit(X))
	assert.Equal(t, 1, m.Iters)
	assert.Len(t, m.History, 1)
}

func TestKMeansValidation(t *testing.T) {
	m := NewKMeans(2)
	assert.ErrorContains(t, m.Fit(nil), "empty")

	m = NewKMeans(0)
	assert.ErrorContains(t, m.Fit([][]float64{{1}, {2}}), "positive")

	m = NewKMeans(3)
	assert.ErrorContains(t, m.Fit([][]float64{{1}, {2}}), "points for")

	_, err := NewKMeans(2).Predict([][]float64{{1}})
	assert.ErrorContains(t, err, "not fitted")

	m = NewKMeans(2)
	require.NoError(t, m.Fit([][]float64{{1}, {2}, {3}}))
	_, err = m.Predict(nil)
	assert.ErrorContains(t, err, "empty")
	_, err = m.Predict([][]float64{{1, 2}})
	assert.ErrorContains(t, err, "features")
}

func TestElbow(t *testing.T) {
	X, _ := sim.Blobs(blobCenters, 10, 0.5, 13)

	inertias, err := Elbow(X, []int{1, 3, len(X)}, InitRandomPoints, 13)
	require.NoError(t, err)
	require.Len(t, inertias, 3)
	assert.Greater(t, inertias[0], inertias[1])
	assert.Equal(t, 0.0, inertias[2])

	_, err = Elbow(X, []int{len(X) + 1}, InitRandomPoints, 13)
	assert.ErrorContains(t, err, "elbow at k=31")
}
