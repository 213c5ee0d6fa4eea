package report

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Writer lays a study's artifacts out under one directory:
//
//	<dir>/report.md
//	<dir>/tables/<name>.csv
//	<dir>/tables.xlsx
//	<dir>/figures/<name>.png
type Writer struct {
	dir string
	log *slog.Logger
}

// NewWriter writes under dir, logging each artifact. A nil logger
// falls back to the default.
func NewWriter(dir string, log *slog.Logger) *Writer {
	if log == nil {
		log = slog.Default()
	}
	return &Writer{dir: dir, log: log}
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// FigurePath ensures the figures directory exists and returns the
// full path for a figure file name.
func (w *Writer) FigurePath(name string) (string, error) {
	dir := filepath.Join(w.dir, "figures")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("report: create %s: %w", dir, err)
	}
	return filepath.Join(dir, name), nil
}

// WriteMarkdown renders the report to <dir>/report.md.
func (w *Writer) WriteMarkdown(r *Report) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("report: create %s: %w", w.dir, err)
	}
	md, err := r.Markdown()
	if err != nil {
		return err
	}
	path := filepath.Join(w.dir, "report.md")
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	w.log.Info("wrote report", "path", path, "run_id", r.meta.RunID)
	return nil
}

// WriteCSV exports each table to <dir>/tables/<name>.csv.
func (w *Writer) WriteCSV(tables []Table) error {
	dir := filepath.Join(w.dir, "tables")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("report: create %s: %w", dir, err)
	}
	for _, t := range tables {
		path := filepath.Join(dir, t.Name+".csv")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("report: create %s: %w", path, err)
		}
		cw := csv.NewWriter(f)
		if err := cw.Write(t.Headers); err != nil {
			f.Close()
			return fmt.Errorf("report: write %s: %w", path, err)
		}
		if err := cw.WriteAll(t.Rows); err != nil {
			f.Close()
			return fmt.Errorf("report: write %s: %w", path, err)
		}
		cw.Flush()
		if err := f.Close(); err != nil {
			return fmt.Errorf("report: close %s: %w", path, err)
		}
		w.log.Info("wrote table", "path", path, "rows", len(t.Rows))
	}
	return nil
}

// WriteWorkbook exports every table as one sheet of <dir>/tables.xlsx,
// headers in bold, so the numbers can be inspected in a spreadsheet.
func (w *Writer) WriteWorkbook(tables []Table) error {
	if len(tables) == 0 {
		return nil
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("report: create %s: %w", w.dir, err)
	}
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("report: workbook style: %w", err)
	}
	for i, t := range tables {
		sheet := sheetName(t.Name)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("report: sheet %q: %w", sheet, err)
		}
		for j, h := range t.Headers {
			cell, err := excelize.CoordinatesToCellName(j+1, 1)
			if err != nil {
				return fmt.Errorf("report: cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, h); err != nil {
				return fmt.Errorf("report: sheet %q: %w", sheet, err)
			}
		}
		last, err := excelize.CoordinatesToCellName(max(len(t.Headers), 1), 1)
		if err != nil {
			return fmt.Errorf("report: cell name: %w", err)
		}
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("report: sheet %q: %w", sheet, err)
		}
		for r, row := range t.Rows {
			for cIdx, cellVal := range row {
				cell, err := excelize.CoordinatesToCellName(cIdx+1, r+2)
				if err != nil {
					return fmt.Errorf("report: cell name: %w", err)
				}
				if err := f.SetCellValue(sheet, cell, cellVal); err != nil {
					return fmt.Errorf("report: sheet %q: %w", sheet, err)
				}
			}
		}
		if i == 0 {
			if err := f.DeleteSheet("Sheet1"); err != nil {
				return fmt.Errorf("report: drop default sheet: %w", err)
			}
		}
	}
	path := filepath.Join(w.dir, "tables.xlsx")
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("report: save %s: %w", path, err)
	}
	w.log.Info("wrote workbook", "path", path, "sheets", len(tables))
	return nil
}

// sheetName fits a table name into the spreadsheet limit.
func sheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	return name
}
