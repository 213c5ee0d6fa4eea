package classify

import "math"

// Accuracy is the share of matching labels.
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue))
}

// ConfusionMatrix counts predictions per true class: cell [i][j] is
// the number of class-i rows predicted as class j.
func ConfusionMatrix(yTrue, yPred []int, nClasses int) [][]int {
	m := make([][]int, nClasses)
	for i := range m {
		m[i] = make([]int, nClasses)
	}
	for i := range yTrue {
		m[yTrue[i]][yPred[i]]++
	}
	return m
}

// ClassReport holds per-class precision, recall and F1 plus their
// unweighted macro averages.
type ClassReport struct {
	Precision []float64
	Recall    []float64
	F1        []float64

	MacroPrecision float64
	MacroRecall    float64
	MacroF1        float64
}

// Report computes precision, recall and F1 for every class from a
// confusion matrix.
func Report(confusion [][]int) ClassReport {
	n := len(confusion)
	r := ClassReport{
		Precision: make([]float64, n),
		Recall:    make([]float64, n),
		F1:        make([]float64, n),
	}
	for c := 0; c < n; c++ {
		tp := confusion[c][c]
		fp, fn := 0, 0
		for o := 0; o < n; o++ {
			if o == c {
				continue
			}
			fp += confusion[o][c]
			fn += confusion[c][o]
		}
		if tp+fp > 0 {
			r.Precision[c] = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			r.Recall[c] = float64(tp) / float64(tp+fn)
		}
		if r.Precision[c]+r.Recall[c] > 0 {
			r.F1[c] = 2 * r.Precision[c] * r.Recall[c] / (r.Precision[c] + r.Recall[c])
		}
		r.MacroPrecision += r.Precision[c]
		r.MacroRecall += r.Recall[c]
		r.MacroF1 += r.F1[c]
	}
	if n > 0 {
		r.MacroPrecision /= float64(n)
		r.MacroRecall /= float64(n)
		r.MacroF1 /= float64(n)
	}
	return r
}

// MSE is the mean squared error.
func MSE(yTrue, yPred []float64) float64 {
	n := float64(len(yTrue))
	s := 0.0
	for i := range yTrue {
		d := yPred[i] - yTrue[i]
		s += d * d
	}
	return s / n
}

// MAE is the mean absolute error.
func MAE(yTrue, yPred []float64) float64 {
	n := float64(len(yTrue))
	s := 0.0
	for i := range yTrue {
		d := yPred[i] - yTrue[i]
		if d < 0 {
			d = -d
		}
		s += d
	}
	return s / n
}

// RMSE is the root mean squared error.
func RMSE(yTrue, yPred []float64) float64 { return math.Sqrt(MSE(yTrue, yPred)) }

// R2 is the coefficient of determination.
func R2(yTrue, yPred []float64) float64 {
	m := 0.0
	for _, v := range yTrue {
		m += v
	}
	m /= float64(len(yTrue))
	ssTot, ssRes := 0.0, 0.0
	for i := range yTrue {
		d := yTrue[i] - m
		ssTot += d * d
		r := yTrue[i] - yPred[i]
		ssRes += r * r
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}
