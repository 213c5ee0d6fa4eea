package dataprep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"econlab/pkg/dataset"
)

func TestAuto(t *testing.T) {
	tbl, err := dataset.NewTable(
		&dataset.Column{Name: "keep", Kind: dataset.Numeric, Floats: []float64{1, 2, 3, 4}},
		&dataset.Column{Name: "drop", Kind: dataset.Numeric,
			Floats: []float64{1, 0, 0, 4}, Missing: []bool{false, true, true, false}},
		&dataset.Column{Name: "fix", Kind: dataset.Numeric,
			Floats: []float64{1, 2, 3, 0}, Missing: []bool{false, false, false, true}},
		&dataset.Column{Name: "cat", Kind: dataset.Categorical,
			Strings: []string{"a", "", "b", "a"}, Missing: []bool{false, true, false, false}},
	)
	require.NoError(t, err)

	cleaned, actions, err := Auto(tbl, 0.4)
	require.NoError(t, err)

	assert.Equal(t, []string{"keep", "fix", "cat"}, cleaned.Names())

	what := make(map[string]string)
	for _, a := range actions {
		what[a.Column] = a.What
	}
	assert.Contains(t, what["drop"], "dropped")
	assert.Equal(t, "imputed with mean", what["fix"])
	assert.Equal(t, `filled with "Unknown"`, what["cat"])
	assert.NotContains(t, what, "keep")

	fix, err := cleaned.Column("fix")
	require.NoError(t, err)
	assert.Equal(t, 2.0, fix.Floats[3])
	assert.Equal(t, 0, fix.NMissing())

	cat, err := cleaned.Column("cat")
	require.NoError(t, err)
	assert.Equal(t, "Unknown", cat.Strings[1])
}

// TestAutoSkewedColumn checks that a heavy right tail switches the
// imputation from mean to median.
func TestAutoSkewedColumn(t *testing.T) {
	tbl, err := dataset.NewTable(
		&dataset.Column{Name: "gift", Kind: dataset.Numeric,
			Floats:  []float64{1, 2, 3, 100, 0},
			Missing: []bool{false, false, false, false, true}},
	)
	require.NoError(t, err)

	cleaned, actions, err := Auto(tbl, 0.5)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "imputed with median", actions[0].What)

	gift, err := cleaned.Column("gift")
	require.NoError(t, err)
	assert.Equal(t, 2.5, gift.Floats[4])
}
