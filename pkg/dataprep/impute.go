package dataprep

import (
	"fmt"

	"econlab/pkg/dataset"
	"econlab/pkg/stats"
)

// Strategy selects the fill value for missing numeric cells.
type Strategy int

const (
	Mean Strategy = iota
	Median
	Mode
)

func (s Strategy) String() string {
	switch s {
	case Mean:
		return "mean"
	case Median:
		return "median"
	case Mode:
		return "mode"
	}
	return "unknown"
}

// Impute fills the missing cells of a numeric column in place with a
// statistic of the observed cells, then clears the missing mask.
func Impute(c *dataset.Column, s Strategy) error {
	if c.Kind != dataset.Numeric {
		return fmt.Errorf("dataprep: column %q is %s; impute numeric columns only", c.Name, c.Kind)
	}
	observed := make([]float64, 0, len(c.Floats))
	for i, v := range c.Floats {
		if !c.Missing[i] {
			observed = append(observed, v)
		}
	}
	if len(observed) == 0 {
		return fmt.Errorf("dataprep: column %q has no observed values", c.Name)
	}
	var fill float64
	switch s {
	case Mean:
		fill = stats.Mean(observed)
	case Median:
		fill = stats.Median(observed)
	case Mode:
		fill = stats.Mode(observed)
	default:
		return fmt.Errorf("dataprep: unknown strategy %d", s)
	}
	for i := range c.Floats {
		if c.Missing[i] {
			c.Floats[i] = fill
			c.Missing[i] = false
		}
	}
	return nil
}

// FillLevel replaces missing cells of a categorical column with a
// fixed level, typically "Unknown".
func FillLevel(c *dataset.Column, level string) error {
	if c.Kind != dataset.Categorical {
		return fmt.Errorf("dataprep: column %q is %s; fill categorical columns only", c.Name, c.Kind)
	}
	for i := range c.Strings {
		if c.Missing[i] {
			c.Strings[i] = level
			c.Missing[i] = false
		}
	}
	return nil
}
