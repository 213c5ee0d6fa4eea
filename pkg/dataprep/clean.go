package dataprep

import (
	"fmt"
	"math"

	"econlab/pkg/dataset"
	"econlab/pkg/stats"
)

// Action records what Auto did to one column, for the data-cleaning
// section of a report.
type Action struct {
	Column string
	What   string
}

// Auto cleans a table with simple per-column rules: a column missing
// more than maxMissing of its cells is dropped; otherwise numeric
// columns are imputed with the mean, or the median when clearly
// skewed, and categorical columns get an "Unknown" level.
func Auto(t *dataset.Table, maxMissing float64) (*dataset.Table, []Action, error) {
	var keep []string
	var actions []Action
	for _, name := range t.Names() {
		c, err := t.Column(name)
		if err != nil {
			return nil, nil, err
		}
		nMissing := c.NMissing()
		if nMissing == 0 {
			keep = append(keep, name)
			continue
		}
		ratio := float64(nMissing) / float64(c.Len())
		if ratio > maxMissing {
			actions = append(actions, Action{Column: name, What: fmt.Sprintf("dropped (%.0f%% missing)", ratio*100)})
			continue
		}
		if c.Kind == dataset.Numeric {
			observed := make([]float64, 0, c.Len())
			for i, v := range c.Floats {
				if !c.Missing[i] {
					observed = append(observed, v)
				}
			}
			// The nonparametric skew (mean-median)/sd lives in [-1, 1];
			// past 0.2 the tail pulls the mean enough to prefer the median.
			strategy := Mean
			if sd := stats.Std(observed); sd > 0 &&
				math.Abs(stats.Mean(observed)-stats.Median(observed))/sd > 0.2 {
				strategy = Median
			}
			if err := Impute(c, strategy); err != nil {
				return nil, nil, err
			}
			actions = append(actions, Action{Column: name, What: "imputed with " + strategy.String()})
		} else {
			if err := FillLevel(c, "Unknown"); err != nil {
				return nil, nil, err
			}
			actions = append(actions, Action{Column: name, What: `filled with "Unknown"`})
		}
		keep = append(keep, name)
	}
	cleaned, err := t.Select(keep...)
	if err != nil {
		return nil, nil, err
	}
	return cleaned, actions, nil
}
