// Package glm fits Poisson regressions by maximum likelihood.
//
// Models are specified as a design matrix built from a dataset column
// by column, fitted with a gradient-based minimizer, and summarized
// with the standard errors, incidence-rate ratios, and fit measures a
// regression write-up reports.
package glm

import (
	"fmt"
	"math"

	"econlab/pkg/dataset"
)

// Design is a named model matrix, one row per observation.
type Design struct {
	Names []string
	X     [][]float64

	hasIntercept bool
}

// NumRows returns the number of observations.
func (d *Design) NumRows() int { return len(d.X) }

// NumTerms returns the number of columns.
func (d *Design) NumTerms() int { return len(d.Names) }

// DesignBuilder assembles a Design from table columns. Methods chain;
// the first error sticks and is reported by Build.
type DesignBuilder struct {
	tbl          *dataset.Table
	names        []string
	cols         [][]float64
	hasIntercept bool
	err          error
}

// NewDesign starts a design matrix over the rows of tbl.
func NewDesign(tbl *dataset.Table) *DesignBuilder {
	return &DesignBuilder{tbl: tbl}
}

// Intercept adds a constant column.
func (b *DesignBuilder) Intercept() *DesignBuilder {
	if b.err != nil {
		return b
	}
	col := make([]float64, b.tbl.NumRows())
	for i := range col {
		col[i] = 1
	}
	b.hasIntercept = true
	return b.push("intercept", col)
}

// Numeric adds a numeric column as-is.
func (b *DesignBuilder) Numeric(name string) *DesignBuilder {
	vals, err := b.floats(name)
	if err != nil {
		return b.fail(err)
	}
	col := make([]float64, len(vals))
	copy(col, vals)
	return b.push(name, col)
}

// Log adds the natural log of a numeric column. Every value must be
// strictly positive.
func (b *DesignBuilder) Log(name string) *DesignBuilder {
	vals, err := b.floats(name)
	if err != nil {
		return b.fail(err)
	}
	col := make([]float64, len(vals))
	for i, v := range vals {
		if v <= 0 {
			return b.fail(fmt.Errorf("glm: log term %q needs positive values, got %g in row %d", name, v, i))
		}
		col[i] = math.Log(v)
	}
	return b.push("log_"+name, col)
}

// Dummies expands a categorical column into indicator columns, one per
// level except the first (alphabetical), which becomes the baseline.
func (b *DesignBuilder) Dummies(name string) *DesignBuilder {
	if b.err != nil {
		return b
	}
	levels, err := b.tbl.Levels(name)
	if err != nil {
		return b.fail(err)
	}
	if len(levels) < 2 {
		return b.fail(fmt.Errorf("glm: column %q has %d level(s), nothing to contrast", name, len(levels)))
	}
	vals, _ := b.tbl.Strings(name)
	c, _ := b.tbl.Column(name)
	for i := range vals {
		if c.Missing[i] {
			return b.fail(fmt.Errorf("glm: missing value in column %q row %d; drop or impute first", name, i))
		}
	}
	for _, lvl := range levels[1:] {
		col := make([]float64, len(vals))
		for i, v := range vals {
			if v == lvl {
				col[i] = 1
			}
		}
		b.push(name+"_"+lvl, col)
	}
	return b
}

// Interaction adds the rowwise product of two numeric columns.
func (b *DesignBuilder) Interaction(first, second string) *DesignBuilder {
	x, err := b.floats(first)
	if err != nil {
		return b.fail(err)
	}
	y, err := b.floats(second)
	if err != nil {
		return b.fail(err)
	}
	col := make([]float64, len(x))
	for i := range x {
		col[i] = x[i] * y[i]
	}
	return b.push(first+":"+second, col)
}

// Build finalizes the design matrix.
func (b *DesignBuilder) Build() (*Design, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.cols) == 0 {
		return nil, fmt.Errorf("glm: empty design")
	}
	n := b.tbl.NumRows()
	X := make([][]float64, n)
	for i := range X {
		row := make([]float64, len(b.cols))
		for j, col := range b.cols {
			row[j] = col[i]
		}
		X[i] = row
	}
	return &Design{Names: b.names, X: X, hasIntercept: b.hasIntercept}, nil
}

func (b *DesignBuilder) push(name string, col []float64) *DesignBuilder {
	if b.err != nil {
		return b
	}
	b.names = append(b.names, name)
	b.cols = append(b.cols, col)
	return b
}

func (b *DesignBuilder) fail(err error) *DesignBuilder {
	if b.err == nil {
		b.err = err
	}
	return b
}

func (b *DesignBuilder) floats(name string) ([]float64, error) {
	if b.err != nil {
		return nil, b.err
	}
	vals, err := b.tbl.Floats(name)
	if err != nil {
		return nil, err
	}
	c, _ := b.tbl.Column(name)
	for i := range vals {
		if c.Missing[i] {
			return nil, fmt.Errorf("glm: missing value in column %q row %d; drop or impute first", name, i)
		}
	}
	return vals, nil
}
