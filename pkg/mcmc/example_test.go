package mcmc_test

import (
	"fmt"
	"math"

	"econlab/pkg/mcmc"
)

// ExampleSampler_Run walks a chain over a standard normal density and
// checks the retained draws land where the target puts its mass.
func ExampleSampler_Run() {
	s := &mcmc.Sampler{
		LogTarget:  func(x []float64) float64 { return -x[0] * x[0] / 2 },
		Scale:      []float64{2.4},
		Iterations: 20000,
		BurnIn:     2000,
		Seed:       7,
	}
	chain, err := s.Run([]float64{0})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	rate := chain.AcceptanceRate()
	fmt.Println("draws:", chain.Len())
	fmt.Println("mean within 0.1 of zero:", math.Abs(chain.Mean()[0]) < 0.1)
	fmt.Println("acceptance between 0.2 and 0.6:", rate > 0.2 && rate < 0.6)
	// Output:
	// draws: 20000
	// mean within 0.1 of zero: true
	// acceptance between 0.2 and 0.6: true
}
