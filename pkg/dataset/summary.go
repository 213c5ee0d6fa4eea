package dataset

import (
	"sort"

	"econlab/pkg/stats"
)

// ColumnSummary describes one column of a table: counts for every
// column, moments and order statistics for numeric ones, level counts
// for categorical ones.
type ColumnSummary struct {
	Name    string
	Kind    Kind
	N       int
	Missing int

	Mean   float64
	Std    float64
	Min    float64
	Median float64
	Max    float64

	Levels []LevelCount
}

// LevelCount is one categorical level and its frequency.
type LevelCount struct {
	Level string
	Count int
}

// Summarize computes a per-column summary of the table, skipping
// missing cells. Level counts are sorted by descending frequency, ties
// broken alphabetically.
func (t *Table) Summarize() []ColumnSummary {
	out := make([]ColumnSummary, 0, t.NumCols())
	for _, c := range t.cols {
		s := ColumnSummary{Name: c.Name, Kind: c.Kind, N: c.Len(), Missing: c.NMissing()}
		if c.Kind == Numeric {
			vals := make([]float64, 0, c.Len())
			for i, v := range c.Floats {
				if !c.Missing[i] {
					vals = append(vals, v)
				}
			}
			if len(vals) > 0 {
				s.Mean = stats.Mean(vals)
				s.Std = stats.Std(vals)
				s.Min, s.Max = stats.MinMax(vals)
				s.Median = stats.Median(vals)
			}
		} else {
			counts := make(map[string]int)
			for i, v := range c.Strings {
				if !c.Missing[i] {
					counts[v]++
				}
			}
			for lvl, n := range counts {
				s.Levels = append(s.Levels, LevelCount{Level: lvl, Count: n})
			}
			sort.Slice(s.Levels, func(i, j int) bool {
				if s.Levels[i].Count != s.Levels[j].Count {
					return s.Levels[i].Count > s.Levels[j].Count
				}
				return s.Levels[i].Level < s.Levels[j].Level
			})
		}
		out = append(out, s)
	}
	return out
}

// GroupBy partitions row indices by the levels of a categorical
// column. Rows with a missing group cell are dropped. Keys come back
// sorted so iteration order is stable.
func (t *Table) GroupBy(name string) ([]string, map[string][]int, error) {
	vals, err := t.Strings(name)
	if err != nil {
		return nil, nil, err
	}
	c, _ := t.Column(name)
	groups := make(map[string][]int)
	for i, v := range vals {
		if c.Missing[i] {
			continue
		}
		groups[v] = append(groups[v], i)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, groups, nil
}
