package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadOptions controls CSV parsing. The zero value reads a
// comma-separated file with the usual missing-value markers.
type ReadOptions struct {
	// Delimiter defaults to ','.
	Delimiter rune
	// MissingMarkers are cell values treated as missing, in addition
	// to the empty string. Defaults to "NA" and "NaN".
	MissingMarkers []string
}

func (o ReadOptions) delimiter() rune {
	if o.Delimiter == 0 {
		return ','
	}
	return o.Delimiter
}

func (o ReadOptions) missing() map[string]bool {
	markers := o.MissingMarkers
	if markers == nil {
		markers = []string{"NA", "NaN"}
	}
	m := map[string]bool{"": true}
	for _, v := range markers {
		m[v] = true
	}
	return m
}

// ReadCSV loads a CSV file with a header row into a Table. Each column
// is numeric when every non-missing cell parses as a float; a single
// stray text cell demotes the whole column to categorical.
func ReadCSV(path string, opts ReadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = opts.delimiter()
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dataset: parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset: %s is empty", path)
	}
	header := records[0]
	if len(records) == 1 {
		return nil, fmt.Errorf("dataset: %s has a header but no rows", path)
	}
	return fromRecords(header, records[1:], opts.missing())
}

func fromRecords(header []string, rows [][]string, missing map[string]bool) (*Table, error) {
	raw := make([][]string, len(header))
	miss := make([][]bool, len(header))
	for j := range header {
		raw[j] = make([]string, len(rows))
		miss[j] = make([]bool, len(rows))
	}
	for i, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("dataset: row %d has %d fields, want %d", i+2, len(row), len(header))
		}
		for j, cell := range row {
			cell = strings.TrimSpace(cell)
			raw[j][i] = cell
			miss[j][i] = missing[cell]
		}
	}

	cols := make([]*Column, len(header))
	for j, name := range header {
		cols[j] = buildColumn(strings.TrimSpace(name), raw[j], miss[j])
	}
	return NewTable(cols...)
}

// buildColumn infers the column kind from its cells.
func buildColumn(name string, cells []string, missing []bool) *Column {
	floats := make([]float64, len(cells))
	numeric := true
	for i, cell := range cells {
		if missing[i] {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			numeric = false
			break
		}
		floats[i] = v
	}
	if numeric {
		return &Column{Name: name, Kind: Numeric, Floats: floats, Missing: missing}
	}
	strs := make([]string, len(cells))
	copy(strs, cells)
	return &Column{Name: name, Kind: Categorical, Strings: strs, Missing: missing}
}

// ReadFile loads a flat file, dispatching on the extension: .csv and
// .tsv are parsed as delimited text, .dta as a Stata table.
func ReadFile(path string) (*Table, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return ReadCSV(path, ReadOptions{})
	case ".tsv":
		return ReadCSV(path, ReadOptions{Delimiter: '\t'})
	case ".dta":
		return ReadStata(path)
	default:
		return nil, fmt.Errorf("dataset: unsupported file type %q", ext)
	}
}
