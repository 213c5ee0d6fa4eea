package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *Report {
	r := New("Firm Patents", "patents")
	r.SetData("data/patents.csv")
	r.SetSeed(42)
	r.Section("Model")
	r.Para("A Poisson regression of %s on %s.", "patents", "R&D spend")
	tbl := Table{
		Name:    "coefficients",
		Title:   "Poisson coefficients",
		Headers: []string{"term", "estimate"},
	}
	tbl.AddRow("intercept", "0.41")
	tbl.AddRow("log_rd_spend", "0.35")
	r.AddTable(tbl)
	r.Figure("Fitted versus observed", "figures/fit.png")
	return r
}

func TestMarkdown(t *testing.T) {
	md, err := sampleReport().Markdown()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(md, "---\n"), "front matter must open the file")
	assert.Contains(t, md, "title: Firm Patents")
	assert.Contains(t, md, "study: patents")
	assert.Contains(t, md, "run_id: ")
	assert.Contains(t, md, "data: data/patents.csv")
	assert.Contains(t, md, "seed: 42")

	assert.Contains(t, md, "# Firm Patents")
	assert.Contains(t, md, "## Model")
	assert.Contains(t, md, "A Poisson regression of patents on R&D spend.")
	assert.Contains(t, md, "**Poisson coefficients**")
	assert.Contains(t, md, "| term | estimate |")
	assert.Contains(t, md, "| --- | --- |")
	assert.Contains(t, md, "| log_rd_spend | 0.35 |")
	assert.Contains(t, md, "![Fitted versus observed](figures/fit.png)")
}

func TestMetaRunIDs(t *testing.T) {
	a, b := New("t", "s"), New("t", "s")
	assert.NotEmpty(t, a.Meta().RunID)
	assert.NotEqual(t, a.Meta().RunID, b.Meta().RunID)
	assert.Len(t, a.Meta().Date, 10)
}

func TestTables(t *testing.T) {
	r := sampleReport()
	tables := r.Tables()
	require.Len(t, tables, 1)
	assert.Equal(t, "coefficients", tables[0].Name)
	require.Len(t, tables[0].Rows, 2)
	assert.Equal(t, []string{"intercept", "0.41"}, tables[0].Rows[0])
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "short", sheetName("short"))
	long := strings.Repeat("x", 40)
	assert.Equal(t, strings.Repeat("x", 31), sheetName(long))
}
