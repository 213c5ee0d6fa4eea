// Package classify holds the supervised models used by the
// classification write-ups: nearest neighbors, a logistic regression
// trained by stochastic gradient descent, and tree ensembles, plus the
// evaluation metrics and data splits they share. Class labels are
// small ints, encoded from strings with Labels.
package classify

// Classifier is the interface every model here satisfies.
type Classifier interface {
	Fit(X [][]float64, y []int) error
	Predict(X [][]float64) []int
}

// Labels maps string classes to dense int labels and back.
type Labels struct {
	Names []string
	index map[string]int
}

// NewLabels encodes a string column. Labels are assigned in order of
// first appearance, so the encoding is stable for a fixed row order.
func NewLabels(values []string) (*Labels, []int) {
	l := &Labels{index: make(map[string]int)}
	y := make([]int, len(values))
	for i, v := range values {
		idx, ok := l.index[v]
		if !ok {
			idx = len(l.Names)
			l.index[v] = idx
			l.Names = append(l.Names, v)
		}
		y[i] = idx
	}
	return l, y
}

// Name returns the class name of a label.
func (l *Labels) Name(label int) string {
	if label < 0 || label >= len(l.Names) {
		return "?"
	}
	return l.Names[label]
}

// NumClasses returns the number of distinct classes seen.
func (l *Labels) NumClasses() int { return len(l.Names) }
