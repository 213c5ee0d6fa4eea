// Package report assembles the written artifact of a study: a
// markdown document with YAML front matter, narrative paragraphs,
// tables and figure references, plus exports of every table as CSV and
// as a single spreadsheet appendix.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Meta is the front matter identifying a rendered report.
type Meta struct {
	Title string `yaml:"title"`
	Study string `yaml:"study"`
	RunID string `yaml:"run_id"`
	Date  string `yaml:"date"`
	Data  string `yaml:"data,omitempty"`
	Seed  uint64 `yaml:"seed,omitempty"`
}

// Table is a titled grid of formatted cells. Name must be file-safe;
// it becomes the CSV file name and the sheet name.
type Table struct {
	Name    string
	Title   string
	Headers []string
	Rows    [][]string
}

// AddRow appends one row of cells.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

type blockKind int

const (
	blockHeading blockKind = iota
	blockPara
	blockTable
	blockFigure
)

type block struct {
	kind    blockKind
	text    string
	caption string
	table   Table
}

// Report is built top to bottom: sections, paragraphs, tables and
// figures in the order they should read.
type Report struct {
	meta   Meta
	blocks []block
}

// New starts a report with a fresh run identifier.
func New(title, study string) *Report {
	return &Report{meta: Meta{
		Title: title,
		Study: study,
		RunID: uuid.New().String(),
		Date:  time.Now().Format("2006-01-02"),
	}}
}

// SetData records the source file in the front matter.
func (r *Report) SetData(path string) { r.meta.Data = path }

// SetSeed records the simulation seed in the front matter.
func (r *Report) SetSeed(seed uint64) { r.meta.Seed = seed }

// Meta returns the front matter as it will be rendered.
func (r *Report) Meta() Meta { return r.meta }

// Section starts a new second-level heading.
func (r *Report) Section(heading string) {
	r.blocks = append(r.blocks, block{kind: blockHeading, text: heading})
}

// Para appends one formatted paragraph.
func (r *Report) Para(format string, args ...any) {
	r.blocks = append(r.blocks, block{kind: blockPara, text: fmt.Sprintf(format, args...)})
}

// AddTable places a table at the current position.
func (r *Report) AddTable(t Table) {
	r.blocks = append(r.blocks, block{kind: blockTable, table: t})
}

// Figure references an image by path relative to the report file.
func (r *Report) Figure(caption, relPath string) {
	r.blocks = append(r.blocks, block{kind: blockFigure, text: relPath, caption: caption})
}

// Tables returns every table in document order, for the exporters.
func (r *Report) Tables() []Table {
	var out []Table
	for _, b := range r.blocks {
		if b.kind == blockTable {
			out = append(out, b.table)
		}
	}
	return out
}

// Markdown renders the document.
func (r *Report) Markdown() (string, error) {
	front, err := yaml.Marshal(r.meta)
	if err != nil {
		return "", fmt.Errorf("report: front matter: %w", err)
	}
	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(front)
	sb.WriteString("---\n\n")
	sb.WriteString("# " + r.meta.Title + "\n")
	for _, b := range r.blocks {
		sb.WriteString("\n")
		switch b.kind {
		case blockHeading:
			sb.WriteString("## " + b.text + "\n")
		case blockPara:
			sb.WriteString(b.text + "\n")
		case blockTable:
			writeMarkdownTable(&sb, b.table)
		case blockFigure:
			fmt.Fprintf(&sb, "![%s](%s)\n", b.caption, b.text)
		}
	}
	return sb.String(), nil
}

func writeMarkdownTable(sb *strings.Builder, t Table) {
	if t.Title != "" {
		sb.WriteString("**" + t.Title + "**\n\n")
	}
	sb.WriteString("| " + strings.Join(t.Headers, " | ") + " |\n")
	sep := make([]string, len(t.Headers))
	for i := range sep {
		sep[i] = "---"
	}
	sb.WriteString("| " + strings.Join(sep, " | ") + " |\n")
	for _, row := range t.Rows {
		sb.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
}
