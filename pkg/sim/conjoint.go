package sim

import (
	"fmt"

	"golang.org/x/exp/rand"

	"econlab/pkg/mnl"
)

// Conjoint simulates choice tasks under a known multinomial logit.
// Each alternative draws every attribute uniformly from that
// attribute's level set, and the chosen alternative is drawn from the
// softmax of the utilities, which is exactly the logit choice rule.
func Conjoint(nTasks, nAlts int, levels [][]float64, beta []float64, seed uint64) ([]mnl.Task, error) {
	if len(levels) != len(beta) {
		return nil, fmt.Errorf("sim: %d attribute level sets for %d coefficients", len(levels), len(beta))
	}
	if nAlts < 2 {
		return nil, fmt.Errorf("sim: a task needs at least two alternatives, got %d", nAlts)
	}
	for j, ls := range levels {
		if len(ls) == 0 {
			return nil, fmt.Errorf("sim: attribute %d has no levels", j)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	tasks := make([]mnl.Task, 0, nTasks)
	for t := 0; t < nTasks; t++ {
		alts := make([][]float64, nAlts)
		for a := range alts {
			row := make([]float64, len(beta))
			for j, ls := range levels {
				row[j] = ls[rng.Intn(len(ls))]
			}
			alts[a] = row
		}
		probs := mnl.Probabilities(mnl.Task{Alternatives: alts}, beta)
		task, err := mnl.NewTask(alts, draw(probs, rng))
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// draw samples an index from a probability vector.
func draw(probs []float64, rng *rand.Rand) int {
	u := rng.Float64()
	cumulative := 0.0
	for i, p := range probs {
		cumulative += p
		if u < cumulative {
			return i
		}
	}
	return len(probs) - 1
}
