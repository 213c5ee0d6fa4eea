// Package dataset holds small tabular datasets in memory.
//
// Every case study in this repository starts from a flat file: a CSV
// exported from a spreadsheet or a Stata .dta table. A Table keeps the
// columns in file order, remembers which cells were missing, and hands
// out float64 slices ready for the modeling packages.
package dataset

import (
	"fmt"
	"sort"
)

// Kind reports how a column is stored.
type Kind int

const (
	// Numeric columns are backed by float64 values.
	Numeric Kind = iota
	// Categorical columns are backed by strings.
	Categorical
)

func (k Kind) String() string {
	if k == Numeric {
		return "numeric"
	}
	return "categorical"
}

// Column is a single named column. Exactly one of the backing slices is
// populated, according to Kind. Missing flags cells that were empty or
// unparseable in the source file; backing slices keep a zero value there
// so that all slices stay row-aligned.
type Column struct {
	Name    string
	Kind    Kind
	Floats  []float64
	Strings []string
	Missing []bool
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	if c.Kind == Numeric {
		return len(c.Floats)
	}
	return len(c.Strings)
}

// NMissing returns the number of missing cells.
func (c *Column) NMissing() int {
	n := 0
	for _, m := range c.Missing {
		if m {
			n++
		}
	}
	return n
}

// Table is an ordered collection of equal-length columns.
type Table struct {
	cols  []*Column
	index map[string]int
}

// NewTable assembles a table from columns, validating that every column
// has the same length and a unique name.
func NewTable(cols ...*Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(cols))}
	for _, c := range cols {
		if err := t.addColumn(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Table) addColumn(c *Column) error {
	if _, dup := t.index[c.Name]; dup {
		return fmt.Errorf("dataset: duplicate column %q", c.Name)
	}
	if len(t.cols) > 0 && c.Len() != t.NumRows() {
		return fmt.Errorf("dataset: column %q has %d rows, want %d", c.Name, c.Len(), t.NumRows())
	}
	if len(c.Missing) == 0 {
		c.Missing = make([]bool, c.Len())
	}
	if len(c.Missing) != c.Len() {
		return fmt.Errorf("dataset: column %q missing mask has %d entries, want %d", c.Name, len(c.Missing), c.Len())
	}
	t.index[c.Name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.cols) }

// Names returns the column names in file order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("dataset: no column %q", name)
	}
	return t.cols[i], nil
}

// Floats returns the float64 backing of a numeric column. Missing cells
// hold zero; call DropMissing first when that matters.
func (t *Table) Floats(name string) ([]float64, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != Numeric {
		return nil, fmt.Errorf("dataset: column %q is %s, not numeric", name, c.Kind)
	}
	return c.Floats, nil
}

// Strings returns the string backing of a categorical column.
func (t *Table) Strings(name string) ([]string, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != Categorical {
		return nil, fmt.Errorf("dataset: column %q is %s, not categorical", name, c.Kind)
	}
	return c.Strings, nil
}

// Levels returns the distinct non-missing values of a categorical
// column in sorted order.
func (t *Table) Levels(name string) ([]string, error) {
	vals, err := t.Strings(name)
	if err != nil {
		return nil, err
	}
	c, _ := t.Column(name)
	seen := make(map[string]bool)
	for i, v := range vals {
		if c.Missing[i] {
			continue
		}
		seen[v] = true
	}
	levels := make([]string, 0, len(seen))
	for v := range seen {
		levels = append(levels, v)
	}
	sort.Strings(levels)
	return levels, nil
}

// Select returns a new table holding only the named columns, in the
// given order. Column data is shared, not copied.
func (t *Table) Select(names ...string) (*Table, error) {
	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return NewTable(cols...)
}

// Filter returns a new table with the rows for which keep returns true.
// The predicate receives the row index.
func (t *Table) Filter(keep func(row int) bool) *Table {
	rows := make([]int, 0, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	return t.take(rows)
}

// DropMissing returns a new table without the rows that have a missing
// cell in any of the named columns. With no names it checks every
// column.
func (t *Table) DropMissing(names ...string) (*Table, error) {
	cols := t.cols
	if len(names) > 0 {
		cols = make([]*Column, 0, len(names))
		for _, name := range names {
			c, err := t.Column(name)
			if err != nil {
				return nil, err
			}
			cols = append(cols, c)
		}
	}
	keep := func(row int) bool {
		for _, c := range cols {
			if c.Missing[row] {
				return false
			}
		}
		return true
	}
	return t.Filter(keep), nil
}

func (t *Table) take(rows []int) *Table {
	out := &Table{index: make(map[string]int, len(t.cols))}
	for _, c := range t.cols {
		nc := &Column{Name: c.Name, Kind: c.Kind, Missing: make([]bool, len(rows))}
		if c.Kind == Numeric {
			nc.Floats = make([]float64, len(rows))
			for j, r := range rows {
				nc.Floats[j] = c.Floats[r]
				nc.Missing[j] = c.Missing[r]
			}
		} else {
			nc.Strings = make([]string, len(rows))
			for j, r := range rows {
				nc.Strings[j] = c.Strings[r]
				nc.Missing[j] = c.Missing[r]
			}
		}
		out.index[nc.Name] = len(out.cols)
		out.cols = append(out.cols, nc)
	}
	return out
}

// Matrix assembles the named numeric columns into a row-major design
// matrix. It refuses missing cells: model fits should decide explicitly
// how to treat them beforehand.
func (t *Table) Matrix(names ...string) ([][]float64, error) {
	cols := make([]*Column, len(names))
	for j, name := range names {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		if c.Kind != Numeric {
			return nil, fmt.Errorf("dataset: column %q is %s, not numeric", name, c.Kind)
		}
		cols[j] = c
	}
	rows := make([][]float64, t.NumRows())
	for i := range rows {
		row := make([]float64, len(cols))
		for j, c := range cols {
			if c.Missing[i] {
				return nil, fmt.Errorf("dataset: missing value in column %q row %d", c.Name, i)
			}
			row[j] = c.Floats[i]
		}
		rows[i] = row
	}
	return rows, nil
}
