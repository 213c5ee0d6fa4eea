package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobs(t *testing.T) {
	centers := [][]float64{{0, 0}, {10, 10}}
	X, labels := Blobs(centers, 5, 0.5, 12)

	require.Len(t, X, 10)
	require.Len(t, labels, 10)
	for i, point := range X {
		assert.Len(t, point, 2)
		center := centers[labels[i]]
		for j := range point {
			assert.InDelta(t, center[j], point[j], 2.5, "point %d strayed from its center", i)
		}
	}
	assert.Equal(t, []int{0, 0, 0, 0, 0, 1, 1, 1, 1, 1}, labels)

	again, _ := Blobs(centers, 5, 0.5, 12)
	assert.Equal(t, X, again)
}

func TestConjoint(t *testing.T) {
	levels := [][]float64{{1, 2}, {0, 1}}
	beta := []float64{-1, 1}

	tasks, err := Conjoint(50, 3, levels, beta, 9)
	require.NoError(t, err)
	require.Len(t, tasks, 50)
	for _, task := range tasks {
		require.Len(t, task.Alternatives, 3)
		assert.GreaterOrEqual(t, task.Chosen, 0)
		assert.Less(t, task.Chosen, 3)
		for _, alt := range task.Alternatives {
			require.Len(t, alt, 2)
			assert.Contains(t, []float64{1, 2}, alt[0])
			assert.Contains(t, []float64{0, 1}, alt[1])
		}
	}

	again, err := Conjoint(50, 3, levels, beta, 9)
	require.NoError(t, err)
	assert.Equal(t, tasks, again)
}

func TestConjointValidation(t *testing.T) {
	levels := [][]float64{{1, 2}}

	_, err := Conjoint(10, 3, levels, []float64{1, 2}, 1)
	assert.ErrorContains(t, err, "level sets")

	_, err = Conjoint(10, 1, levels, []float64{1}, 1)
	assert.ErrorContains(t, err, "two alternatives")

	_, err = Conjoint(10, 3, [][]float64{{}}, []float64{1}, 1)
	assert.ErrorContains(t, err, "no levels")
}

func TestDonations(t *testing.T) {
	arms := DefaultArms()
	tbl, err := Donations(arms, 12000, 5)
	require.NoError(t, err)

	assert.Equal(t, 48000, tbl.NumRows())
	assert.Equal(t, []string{"arm", "gave", "amount"}, tbl.Names())

	armCol, err := tbl.Strings("arm")
	require.NoError(t, err)
	gave, err := tbl.Floats("gave")
	require.NoError(t, err)
	amount, err := tbl.Floats("amount")
	require.NoError(t, err)

	givers := 0
	giftTotal := 0.0
	responded := make(map[string]float64)
	for i := range gave {
		switch gave[i] {
		case 1:
			assert.Greater(t, amount[i], 0.0)
			responded[armCol[i]]++
			givers++
			giftTotal += amount[i]
		case 0:
			assert.Equal(t, 0.0, amount[i])
		default:
			t.Fatalf("gave must be 0 or 1, got %g", gave[i])
		}
	}

	// Simulated response rates sit close to the arm parameters.
	for _, arm := range arms {
		rate := responded[arm.Name] / 12000
		assert.InDelta(t, arm.ResponseRate, rate, 0.006, "arm %s", arm.Name)
	}

	// The log-normal gift has mean exp(3.6 + 0.8^2/2), about fifty.
	wantMean := math.Exp(3.6 + 0.32)
	assert.InDelta(t, wantMean, giftTotal/float64(givers), 10)
	assert.Greater(t, givers, 800)
	assert.Less(t, givers, 1300)
}

func TestDonationsValidation(t *testing.T) {
	_, err := Donations(nil, 100, 1)
	assert.ErrorContains(t, err, "no arms")

	_, err = Donations([]Arm{{Name: "bad", ResponseRate: 1.5}}, 100, 1)
	assert.ErrorContains(t, err, "out of [0,1]")
}

func TestPoissonCounts(t *testing.T) {
	X := make([][]float64, 1000)
	for i := range X {
		X[i] = []float64{1}
	}
	beta := []float64{1.5}

	y := PoissonCounts(X, beta, 3)
	require.Len(t, y, 1000)
	mean := 0.0
	for _, v := range y {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Equal(t, math.Floor(v), v, "counts must be integers")
		mean += v
	}
	mean /= float64(len(y))
	assert.InDelta(t, math.Exp(1.5), mean, 0.3)

	assert.Equal(t, y, PoissonCounts(X, beta, 3))
}
