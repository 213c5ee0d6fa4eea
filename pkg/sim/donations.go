package sim

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"econlab/pkg/dataset"
)

// Arm describes one treatment arm of the matching-grant experiment:
// the probability a letter produces a gift, and the log-normal
// parameters of the gift amount when it does.
type Arm struct {
	Name         string
	ResponseRate float64
	GiftLogMean  float64
	GiftLogStd   float64
}

// DefaultArms mirrors the moments of the original matching-grant
// mailing: response just under two percent in control, a modest lift
// from offering any match, and essentially no extra lift from raising
// the ratio past one-to-one.
func DefaultArms() []Arm {
	return []Arm{
		{Name: "control", ResponseRate: 0.018, GiftLogMean: 3.6, GiftLogStd: 0.8},
		{Name: "match_1to1", ResponseRate: 0.0221, GiftLogMean: 3.6, GiftLogStd: 0.8},
		{Name: "match_2to1", ResponseRate: 0.0226, GiftLogMean: 3.6, GiftLogStd: 0.8},
		{Name: "match_3to1", ResponseRate: 0.0227, GiftLogMean: 3.6, GiftLogStd: 0.8},
	}
}

// Donations simulates nPerArm letters per arm and returns a table with
// columns arm, gave and amount (zero for non-givers).
func Donations(arms []Arm, nPerArm int, seed uint64) (*dataset.Table, error) {
	if len(arms) == 0 {
		return nil, fmt.Errorf("sim: no arms")
	}
	rng := rand.New(rand.NewSource(seed))
	n := len(arms) * nPerArm
	armCol := make([]string, 0, n)
	gave := make([]float64, 0, n)
	amount := make([]float64, 0, n)
	for _, arm := range arms {
		if arm.ResponseRate < 0 || arm.ResponseRate > 1 {
			return nil, fmt.Errorf("sim: arm %q response rate %g out of [0,1]", arm.Name, arm.ResponseRate)
		}
		for i := 0; i < nPerArm; i++ {
			armCol = append(armCol, arm.Name)
			if rng.Float64() < arm.ResponseRate {
				gave = append(gave, 1)
				amount = append(amount, math.Exp(arm.GiftLogMean+arm.GiftLogStd*rng.NormFloat64()))
			} else {
				gave = append(gave, 0)
				amount = append(amount, 0)
			}
		}
	}
	return dataset.NewTable(
		&dataset.Column{Name: "arm", Kind: dataset.Categorical, Strings: armCol},
		&dataset.Column{Name: "gave", Kind: dataset.Numeric, Floats: gave},
		&dataset.Column{Name: "amount", Kind: dataset.Numeric, Floats: amount},
	)
}
