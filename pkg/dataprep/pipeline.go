package dataprep

// Transformer is the fit-on-train, transform-both pattern shared by
// the scalers and PCA.
type Transformer interface {
	Fit(X [][]float64) error
	Transform(X [][]float64) [][]float64
	FitTransform(X [][]float64) [][]float64
}

// Pipeline chains transformers: Fit runs them left to right, feeding
// each the output of the previous one, and Transform replays the
// fitted chain. A Pipeline is itself a Transformer.
type Pipeline struct {
	steps []Transformer
}

func NewPipeline(steps ...Transformer) *Pipeline {
	return &Pipeline{steps: steps}
}

func (p *Pipeline) Fit(X [][]float64) error {
	for _, step := range p.steps {
		if err := step.Fit(X); err != nil {
			return err
		}
		X = step.Transform(X)
	}
	return nil
}

func (p *Pipeline) Transform(X [][]float64) [][]float64 {
	for _, step := range p.steps {
		X = step.Transform(X)
	}
	return X
}

func (p *Pipeline) FitTransform(X [][]float64) [][]float64 {
	if err := p.Fit(X); err != nil {
		return X
	}
	return p.Transform(X)
}
