package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSVInfersKinds(t *testing.T) {
	path := writeFile(t, "firms.csv",
		"firm,sector,rd_spend,patents\n"+
			"F01,biotech,12.5,3\n"+
			"F02,software,8.0,1\n"+
			"F03,biotech,20.1,7\n")
	tbl, err := ReadCSV(path, ReadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.NumRows())
	assert.Equal(t, []string{"firm", "sector", "rd_spend", "patents"}, tbl.Names())

	c, err := tbl.Column("rd_spend")
	require.NoError(t, err)
	assert.Equal(t, Numeric, c.Kind)

	c, err = tbl.Column("sector")
	require.NoError(t, err)
	assert.Equal(t, Categorical, c.Kind)

	vals, err := tbl.Floats("patents")
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 7}, vals)
}

func TestReadCSVMissingMarkers(t *testing.T) {
	path := writeFile(t, "m.csv",
		"a,b\n"+
			"1,x\n"+
			"NA,y\n"+
			",z\n"+
			"4,NaN\n")
	tbl, err := ReadCSV(path, ReadOptions{})
	require.NoError(t, err)

	a, err := tbl.Column("a")
	require.NoError(t, err)
	assert.Equal(t, Numeric, a.Kind)
	assert.Equal(t, 2, a.NMissing())
	assert.Equal(t, []bool{false, true, true, false}, a.Missing)

	b, err := tbl.Column("b")
	require.NoError(t, err)
	assert.Equal(t, 1, b.NMissing())
}

func TestReadCSVTextDemotesColumn(t *testing.T) {
	path := writeFile(t, "d.csv", "v\n1\ntwo\n3\n")
	tbl, err := ReadCSV(path, ReadOptions{})
	require.NoError(t, err)
	c, err := tbl.Column("v")
	require.NoError(t, err)
	assert.Equal(t, Categorical, c.Kind)
	assert.Equal(t, []string{"1", "two", "3"}, c.Strings)
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "absent.csv"), ReadOptions{})
	assert.Error(t, err)

	headerOnly := writeFile(t, "h.csv", "a,b\n")
	_, err = ReadCSV(headerOnly, ReadOptions{})
	assert.ErrorContains(t, err, "no rows")
}

func TestReadFileDispatch(t *testing.T) {
	tsv := writeFile(t, "t.tsv", "a\tb\n1\t2\n")
	tbl, err := ReadFile(tsv)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.NumRows())

	_, err = ReadFile("notes.txt")
	assert.ErrorContains(t, err, "unsupported file type")
}

func TestNewTableValidation(t *testing.T) {
	a := &Column{Name: "a", Kind: Numeric, Floats: []float64{1, 2}}
	short := &Column{Name: "b", Kind: Numeric, Floats: []float64{1}}
	_, err := NewTable(a, short)
	assert.ErrorContains(t, err, "rows")

	dup := &Column{Name: "a", Kind: Numeric, Floats: []float64{3, 4}}
	_, err = NewTable(a, dup)
	assert.ErrorContains(t, err, "duplicate")
}

func TestLevelsSorted(t *testing.T) {
	tbl, err := NewTable(&Column{
		Name: "g", Kind: Categorical,
		Strings: []string{"b", "a", "b", "c", "a"},
	})
	require.NoError(t, err)
	levels, err := tbl.Levels("g")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, levels)
}

func TestDropMissing(t *testing.T) {
	tbl, err := NewTable(
		&Column{Name: "x", Kind: Numeric, Floats: []float64{1, 0, 3}, Missing: []bool{false, true, false}},
		&Column{Name: "g", Kind: Categorical, Strings: []string{"a", "b", "c"}},
	)
	require.NoError(t, err)

	clean, err := tbl.DropMissing()
	require.NoError(t, err)
	assert.Equal(t, 2, clean.NumRows())
	vals, err := clean.Floats("x")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3}, vals)
	g, err := clean.Strings("g")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, g)

	// Restricting the check to a fully observed column keeps all rows.
	all, err := tbl.DropMissing("g")
	require.NoError(t, err)
	assert.Equal(t, 3, all.NumRows())
}

func TestMatrixRefusesMissing(t *testing.T) {
	tbl, err := NewTable(
		&Column{Name: "x", Kind: Numeric, Floats: []float64{1, 2}, Missing: []bool{false, true}},
	)
	require.NoError(t, err)
	_, err = tbl.Matrix("x")
	assert.ErrorContains(t, err, "missing value")
}

func TestMatrix(t *testing.T) {
	tbl, err := NewTable(
		&Column{Name: "x", Kind: Numeric, Floats: []float64{1, 2}},
		&Column{Name: "y", Kind: Numeric, Floats: []float64{3, 4}},
	)
	require.NoError(t, err)
	X, err := tbl.Matrix("y", "x")
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{3, 1}, {4, 2}}, X)
}

func TestSelectAndFilter(t *testing.T) {
	tbl, err := NewTable(
		&Column{Name: "x", Kind: Numeric, Floats: []float64{1, 2, 3}},
		&Column{Name: "y", Kind: Numeric, Floats: []float64{4, 5, 6}},
	)
	require.NoError(t, err)

	sel, err := tbl.Select("y")
	require.NoError(t, err)
	assert.Equal(t, []string{"y"}, sel.Names())

	xs, _ := tbl.Floats("x")
	odd := tbl.Filter(func(row int) bool { return int(xs[row])%2 == 1 })
	assert.Equal(t, 2, odd.NumRows())
}

func TestSummarize(t *testing.T) {
	tbl, err := NewTable(
		&Column{Name: "x", Kind: Numeric, Floats: []float64{1, 2, 3, 0}, Missing: []bool{false, false, false, true}},
		&Column{Name: "g", Kind: Categorical, Strings: []string{"a", "b", "b", "b"}},
	)
	require.NoError(t, err)

	sums := tbl.Summarize()
	require.Len(t, sums, 2)

	x := sums[0]
	assert.Equal(t, 1, x.Missing)
	assert.InDelta(t, 2.0, x.Mean, 1e-12)
	assert.Equal(t, 1.0, x.Min)
	assert.Equal(t, 3.0, x.Max)

	g := sums[1]
	require.Len(t, g.Levels, 2)
	// Sorted by descending count.
	assert.Equal(t, "b", g.Levels[0].Level)
	assert.Equal(t, 3, g.Levels[0].Count)
}

func TestGroupBy(t *testing.T) {
	tbl, err := NewTable(
		&Column{Name: "g", Kind: Categorical, Strings: []string{"b", "a", "b"}},
	)
	require.NoError(t, err)
	keys, groups, err := tbl.GroupBy("g")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
	assert.Equal(t, []int{0, 2}, groups["b"])

	_, _, err = tbl.GroupBy("absent")
	assert.Error(t, err)
}
