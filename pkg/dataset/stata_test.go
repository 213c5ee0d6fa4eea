package dataset

import (
	"testing"

	"github.com/kshedden/datareader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSeries(t *testing.T) {
	amount, err := datareader.NewSeries("amount", []float64{10, 0, 25}, []bool{false, true, false})
	require.NoError(t, err)
	arm, err := datareader.NewSeries("arm", []string{"control", "match", "match"}, nil)
	require.NoError(t, err)

	tbl, err := FromSeries([]*datareader.Series{amount, arm})
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.NumRows())
	assert.Equal(t, []string{"amount", "arm"}, tbl.Names())

	c, err := tbl.Column("amount")
	require.NoError(t, err)
	assert.Equal(t, Numeric, c.Kind)
	assert.Equal(t, 1, c.NMissing())

	c, err = tbl.Column("arm")
	require.NoError(t, err)
	assert.Equal(t, Categorical, c.Kind)
	assert.Equal(t, 0, c.NMissing())
	assert.Equal(t, []string{"control", "match", "match"}, c.Strings)
}

func TestReadStataMissingFile(t *testing.T) {
	_, err := ReadStata("/definitely/not/here.dta")
	assert.Error(t, err)
}
