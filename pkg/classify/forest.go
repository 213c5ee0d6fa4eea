package classify

import (
	"errors"
	"math"
	"sort"

	"golang.org/x/exp/rand"
)

// Forest is a bagged ensemble of Trees. Each tree trains on a
// bootstrap sample of the rows and sees a random subset of the
// features, and prediction is a majority vote.
type Forest struct {
	NTrees      int
	MaxDepth    int
	MinLeaf     int
	MaxFeatures int // 0 picks sqrt(p)
	Seed        uint64

	Trees    []*Tree
	nClasses int
}

// NewForest returns a forest with the given number of trees.
func NewForest(nTrees int) *Forest {
	return &Forest{NTrees: nTrees, MinLeaf: 1}
}

func (f *Forest) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("classify: empty training data")
	}
	if len(X) != len(y) {
		return errors.New("classify: the number of feature vectors must match the number of labels")
	}
	if f.NTrees < 1 {
		return errors.New("classify: forest needs at least one tree")
	}
	n, p := len(X), len(X[0])
	f.nClasses = 0
	for _, v := range y {
		if v < 0 {
			return errors.New("classify: negative label")
		}
		if v+1 > f.nClasses {
			f.nClasses = v + 1
		}
	}
	k := f.MaxFeatures
	if k <= 0 {
		k = int(math.Sqrt(float64(p)))
		if k < 1 {
			k = 1
		}
	}
	if k > p {
		k = p
	}

	rng := rand.New(rand.NewSource(f.Seed))
	f.Trees = make([]*Tree, f.NTrees)
	for t := range f.Trees {
		rows := make([]int, n)
		for i := range rows {
			rows[i] = rng.Intn(n)
		}
		features := append([]int(nil), rng.Perm(p)[:k]...)
		sort.Ints(features)

		tree := &Tree{MaxDepth: f.MaxDepth, MinLeaf: f.MinLeaf}
		tree.FitSubset(X, y, rows, features, f.nClasses)
		f.Trees[t] = tree
	}
	return nil
}

// Predict takes the majority vote across trees; ties go to the lowest
// class label so repeated runs agree.
func (f *Forest) Predict(X [][]float64) []int {
	votes := make([][]int, len(X))
	for i := range votes {
		votes[i] = make([]int, f.nClasses)
	}
	for _, tree := range f.Trees {
		for i, pred := range tree.Predict(X) {
			votes[i][pred]++
		}
	}
	out := make([]int, len(X))
	for i, v := range votes {
		out[i] = argmax(v)
	}
	return out
}
