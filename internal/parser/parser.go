// Package parser converts between Markdown tables and delimited records.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"linekit/pkg/record"
)

// Table is one GitHub-flavored Markdown table.
type Table struct {
	Header record.Record
	Rows   []record.Record
}

// Records returns the header followed by the rows.
func (t Table) Records() []record.Record {
	out := make([]record.Record, 0, len(t.Rows)+1)
	out = append(out, t.Header)
	return append(out, t.Rows...)
}

// HasDelimiter reports whether any cell contains record.Delimiter and so
// would not survive a round trip through a delimited file.
func (t Table) HasDelimiter() bool {
	for _, rec := range t.Records() {
		for _, field := range rec {
			if strings.Contains(field, record.Delimiter) {
				return true
			}
		}
	}
	return false
}

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// ParseTables returns every table in the Markdown source, in document order.
// Cell text is taken without inline formatting.
func ParseTables(src []byte) ([]Table, error) {
	doc := md.Parser().Parse(text.NewReader(src))

	var tables []Table
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		tbl, ok := n.(*extast.Table)
		if !ok {
			return ast.WalkContinue, nil
		}
		var t Table
		for row := tbl.FirstChild(); row != nil; row = row.NextSibling() {
			switch row.(type) {
			case *extast.TableHeader:
				t.Header = cells(row, src)
			case *extast.TableRow:
				t.Rows = append(t.Rows, cells(row, src))
			}
		}
		tables = append(tables, t)
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk markdown: %w", err)
	}
	return tables, nil
}

func cells(row ast.Node, src []byte) record.Record {
	var rec record.Record
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*extast.TableCell); ok {
			rec = append(rec, cellText(c, src))
		}
	}
	return rec
}

func cellText(cell ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(cell, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(src))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(v.Value)
		case *ast.AutoLink:
			b.Write(v.Label(src))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// RenderMarkdown writes recs as a Markdown table. The first record is the
// header. Short rows are padded with empty cells and columns are aligned by
// display width.
func RenderMarkdown(w io.Writer, recs []record.Record) error {
	if len(recs) == 0 {
		return nil
	}
	ncols := 0
	for _, rec := range recs {
		ncols = max(ncols, len(rec))
	}
	widths := make([]int, ncols)
	for i := range widths {
		widths[i] = 3
	}
	escaped := make([][]string, len(recs))
	for r, rec := range recs {
		escaped[r] = make([]string, ncols)
		for i, field := range rec {
			cell := strings.ReplaceAll(field, "|", `\|`)
			escaped[r][i] = cell
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	bw := bufio.NewWriter(w)
	writeRow := func(cells []string) {
		bw.WriteString("|")
		for i, cell := range cells {
			bw.WriteString(" ")
			bw.WriteString(runewidth.FillRight(cell, widths[i]))
			bw.WriteString(" |")
		}
		bw.WriteString("\n")
	}
	writeRow(escaped[0])
	sep := make([]string, ncols)
	for i, width := range widths {
		sep[i] = strings.Repeat("-", width)
	}
	writeRow(sep)
	for _, cells := range escaped[1:] {
		writeRow(cells)
	}
	return bw.Flush()
}
