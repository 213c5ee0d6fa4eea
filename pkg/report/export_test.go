package report

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func quietWriter(dir string) *Writer {
	return NewWriter(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestWriteMarkdown(t *testing.T) {
	dir := t.TempDir()
	w := quietWriter(filepath.Join(dir, "patents"))

	require.NoError(t, w.WriteMarkdown(sampleReport()))

	raw, err := os.ReadFile(filepath.Join(w.Dir(), "report.md"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "# Firm Patents")
}

func TestWriteCSV(t *testing.T) {
	w := quietWriter(t.TempDir())

	require.NoError(t, w.WriteCSV(sampleReport().Tables()))

	raw, err := os.ReadFile(filepath.Join(w.Dir(), "tables", "coefficients.csv"))
	require.NoError(t, err)
	assert.Equal(t, "term,estimate\nintercept,0.41\nlog_rd_spend,0.35\n", string(raw))
}

func TestWriteWorkbook(t *testing.T) {
	w := quietWriter(t.TempDir())

	require.NoError(t, w.WriteWorkbook(sampleReport().Tables()))

	path := filepath.Join(w.Dir(), "tables.xlsx")
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"coefficients"}, f.GetSheetList())
	head, err := f.GetCellValue("coefficients", "A1")
	require.NoError(t, err)
	assert.Equal(t, "term", head)
	cell, err := f.GetCellValue("coefficients", "B3")
	require.NoError(t, err)
	assert.Equal(t, "0.35", cell)
}

func TestWriteWorkbookNoTables(t *testing.T) {
	w := quietWriter(t.TempDir())
	require.NoError(t, w.WriteWorkbook(nil))
	_, err := os.Stat(filepath.Join(w.Dir(), "tables.xlsx"))
	assert.True(t, os.IsNotExist(err))
}

func TestFigurePath(t *testing.T) {
	w := quietWriter(t.TempDir())
	path, err := w.FigurePath("fit.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(w.Dir(), "figures", "fit.png"), path)

	info, err := os.Stat(filepath.Join(w.Dir(), "figures"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
