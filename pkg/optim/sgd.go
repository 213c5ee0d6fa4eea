// Package optim holds the small optimizers behind the models trained
// by gradient descent. The likelihood-based fits use a quasi-Newton
// minimizer instead; this package is for the stochastic updates.
package optim

// SGD is stochastic gradient descent with a fixed learning rate.
type SGD struct{ LearningRate float64 }

func NewSGD(lr float64) *SGD { return &SGD{LearningRate: lr} }

// Step applies one in-place update.
func (o *SGD) Step(weights, grads []float64) {
	for i := range weights {
		weights[i] -= o.LearningRate * grads[i]
	}
}
