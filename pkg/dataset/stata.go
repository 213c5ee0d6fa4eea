package dataset

import (
	"fmt"
	"os"

	"github.com/kshedden/datareader"
)

// ReadStata loads a Stata .dta file into a Table. Columns that carry
// Stata numeric types become Numeric; everything else (labels, dates)
// is kept as categorical text.
func ReadStata(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()

	r, err := datareader.NewStataReader(f)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}
	series, err := r.Read(-1)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}
	t, err := FromSeries(series)
	if err != nil {
		return nil, fmt.Errorf("dataset: convert %s: %w", path, err)
	}
	return t, nil
}

// FromSeries converts datareader series (the column container shared by
// the Stata and SAS readers) into a Table.
func FromSeries(series []*datareader.Series) (*Table, error) {
	cols := make([]*Column, 0, len(series))
	for _, s := range series {
		if s == nil {
			continue
		}
		c, err := seriesColumn(s)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return NewTable(cols...)
}

func seriesColumn(s *datareader.Series) (*Column, error) {
	if vals, miss, err := s.AsFloat64Slice(); err == nil {
		return &Column{Name: s.Name(), Kind: Numeric, Floats: vals, Missing: missingMask(miss, len(vals))}, nil
	}
	vals, miss, err := s.AsStringSlice()
	if err != nil {
		return nil, fmt.Errorf("dataset: column %q: %w", s.Name(), err)
	}
	return &Column{Name: s.Name(), Kind: Categorical, Strings: vals, Missing: missingMask(miss, len(vals))}, nil
}

// missingMask normalizes the reader's mask, which is nil when no cell
// is missing.
func missingMask(miss []bool, n int) []bool {
	if miss == nil {
		return make([]bool, n)
	}
	return miss
}
