package classify

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Tree is a CART-style classification tree: binary splits on numeric
// thresholds chosen by Gini impurity. Labels must be dense ints
// starting at zero, as produced by NewLabels. Categorical features
// should be one-hot encoded before fitting.
type Tree struct {
	MaxDepth int // 0 means no depth limit
	MinLeaf  int // minimum samples in each child

	root     *treeNode
	nClasses int
}

type treeNode struct {
	leaf      bool
	feature   int
	threshold float64 // x <= threshold goes left
	left      *treeNode
	right     *treeNode

	n      int
	counts []int
	pred   int
}

// NewTree returns a tree with the usual shallow defaults.
func NewTree(maxDepth int) *Tree {
	return &Tree{MaxDepth: maxDepth, MinLeaf: 1}
}

func (t *Tree) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("classify: empty training data")
	}
	if len(X) != len(y) {
		return errors.New("classify: the number of feature vectors must match the number of labels")
	}
	t.nClasses = 0
	for i, v := range y {
		if v < 0 {
			return fmt.Errorf("classify: negative label %d", v)
		}
		if v+1 > t.nClasses {
			t.nClasses = v + 1
		}
		for _, x := range X[i] {
			if math.IsNaN(x) {
				return fmt.Errorf("classify: NaN feature in row %d; impute before fitting", i)
			}
		}
	}
	if t.MinLeaf < 1 {
		t.MinLeaf = 1
	}
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	t.root = t.build(X, y, idx, 0, nil)
	return nil
}

// FitSubset trains on a row subset, optionally restricting each split
// search to the given features. Forest uses it for bagging.
func (t *Tree) FitSubset(X [][]float64, y []int, rows []int, features []int, nClasses int) {
	t.nClasses = nClasses
	if t.MinLeaf < 1 {
		t.MinLeaf = 1
	}
	t.root = t.build(X, y, rows, 0, features)
}

func (t *Tree) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i, x := range X {
		out[i] = t.predictSingle(x)
	}
	return out
}

// PredictProba returns the class frequencies of the leaf each row
// lands in.
func (t *Tree) PredictProba(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, x := range X {
		node := t.walk(x)
		probs := make([]float64, t.nClasses)
		for c, n := range node.counts {
			probs[c] = float64(n) / float64(node.n)
		}
		out[i] = probs
	}
	return out
}

func (t *Tree) predictSingle(x []float64) int {
	return t.walk(x).pred
}

func (t *Tree) walk(x []float64) *treeNode {
	node := t.root
	for !node.leaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node
}

func (t *Tree) build(X [][]float64, y []int, idx []int, depth int, features []int) *treeNode {
	counts := make([]int, t.nClasses)
	for _, i := range idx {
		counts[y[i]]++
	}
	node := &treeNode{n: len(idx), counts: counts, pred: argmax(counts)}

	if pure(counts) || len(idx) < 2*t.MinLeaf {
		node.leaf = true
		return node
	}
	if t.MaxDepth > 0 && depth >= t.MaxDepth {
		node.leaf = true
		return node
	}

	feature, threshold, gain := t.bestSplit(X, y, idx, counts, features)
	if gain <= 0 {
		node.leaf = true
		return node
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	node.feature = feature
	node.threshold = threshold
	node.left = t.build(X, y, left, depth+1, features)
	node.right = t.build(X, y, right, depth+1, features)
	return node
}

// bestSplit scans candidate thresholds feature by feature, keeping
// running class counts so each feature costs one sort plus one pass.
func (t *Tree) bestSplit(X [][]float64, y []int, idx []int, counts []int, features []int) (feature int, threshold, gain float64) {
	feature = -1
	parent := gini(counts)
	total := len(idx)

	if features == nil {
		features = make([]int, len(X[0]))
		for j := range features {
			features[j] = j
		}
	}

	order := make([]int, len(idx))
	leftCounts := make([]int, t.nClasses)
	rightCounts := make([]int, t.nClasses)
	for _, f := range features {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return X[order[a]][f] < X[order[b]][f] })

		for c := range leftCounts {
			leftCounts[c] = 0
			rightCounts[c] = counts[c]
		}
		for s := 1; s < total; s++ {
			c := y[order[s-1]]
			leftCounts[c]++
			rightCounts[c]--
			if X[order[s-1]][f] == X[order[s]][f] {
				continue
			}
			if s < t.MinLeaf || total-s < t.MinLeaf {
				continue
			}
			weighted := float64(s)/float64(total)*gini(leftCounts) +
				float64(total-s)/float64(total)*gini(rightCounts)
			if g := parent - weighted; g > gain {
				gain = g
				feature = f
				threshold = (X[order[s-1]][f] + X[order[s]][f]) / 2
			}
		}
	}
	return feature, threshold, gain
}

func gini(counts []int) float64 {
	n := 0.0
	for _, c := range counts {
		n += float64(c)
	}
	if n == 0 {
		return 0
	}
	res := 0.0
	for _, c := range counts {
		p := float64(c) / n
		res += p * (1 - p)
	}
	return res
}

func pure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func argmax(counts []int) int {
	best := 0
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[best] {
			best = i
		}
	}
	return best
}
