package classify

import "golang.org/x/exp/rand"

// TrainTestSplit shuffles the rows with the given seed and holds out
// testRatio of them.
func TrainTestSplit(X [][]float64, y []int, testRatio float64, seed uint64) (XTrain, XTest [][]float64, yTrain, yTest []int) {
	n := len(X)
	rng := rand.New(rand.NewSource(seed))
	indices := rng.Perm(n)
	nTest := int(float64(n) * testRatio)
	for i, idx := range indices {
		if i < nTest {
			XTest = append(XTest, X[idx])
			yTest = append(yTest, y[idx])
		} else {
			XTrain = append(XTrain, X[idx])
			yTrain = append(yTrain, y[idx])
		}
	}
	return XTrain, XTest, yTrain, yTest
}

// KFold deals shuffled row indices into k folds of near-equal size.
func KFold(n, k int, seed uint64) [][]int {
	rng := rand.New(rand.NewSource(seed))
	indices := rng.Perm(n)
	folds := make([][]int, k)
	for i := range n {
		folds[i%k] = append(folds[i%k], indices[i])
	}
	return folds
}

// CrossValidate runs k-fold cross-validation and returns the held-out
// accuracy of each fold. The factory builds a fresh classifier per
// fold so no state leaks between them.
func CrossValidate(X [][]float64, y []int, k int, seed uint64, factory func() Classifier) ([]float64, error) {
	folds := KFold(len(X), k, seed)
	scores := make([]float64, 0, k)
	for _, test := range folds {
		inTest := make(map[int]bool, len(test))
		for _, i := range test {
			inTest[i] = true
		}
		var XTr, XTe [][]float64
		var yTr, yTe []int
		for i := range X {
			if inTest[i] {
				XTe = append(XTe, X[i])
				yTe = append(yTe, y[i])
			} else {
				XTr = append(XTr, X[i])
				yTr = append(yTr, y[i])
			}
		}
		m := factory()
		if err := m.Fit(XTr, yTr); err != nil {
			return nil, err
		}
		scores = append(scores, Accuracy(yTe, m.Predict(XTe)))
	}
	return scores, nil
}
