// Package table views a text file as rows of comma-separated records.
//
// Rows are addressed by 1-based line number, columns by 0-based field
// index. Every operation is a line editor call plus a split or join.
package table

import (
	"fmt"
	"slices"

	"linekit/pkg/editor"
	"linekit/pkg/lineerr"
	"linekit/pkg/record"
)

// Table performs row and column operations on delimited files.
type Table struct {
	ed *editor.Editor
}

// New creates a Table. A nil editor means editor.New(nil).
func New(ed *editor.Editor) *Table {
	if ed == nil {
		ed = editor.New(nil)
	}
	return &Table{ed: ed}
}

// Editor returns the line editor the table delegates to.
func (t *Table) Editor() *editor.Editor {
	return t.ed
}

// AppendRow adds rec after the last row.
func (t *Table) AppendRow(path string, rec record.Record) error {
	return t.ed.AppendLine(path, rec.String())
}

// AppendRows adds recs after the last row in one write.
func (t *Table) AppendRows(path string, recs []record.Record) error {
	return t.ed.AppendLines(path, record.Join(recs))
}

// AppendFile appends every row of other to path.
func (t *Table) AppendFile(path, other string) error {
	return t.ed.AppendFile(path, other)
}

// GetTable returns every row.
func (t *Table) GetTable(path string) ([]record.Record, error) {
	lines, err := t.ed.GetLines(path)
	if err != nil {
		return nil, err
	}
	return record.ParseAll(lines), nil
}

// GetRow returns row n.
func (t *Table) GetRow(path string, n int) (record.Record, error) {
	line, err := t.ed.GetLine(path, n)
	if err != nil {
		return nil, err
	}
	return record.Parse(line), nil
}

// LookupRow returns row n, or false when n is not a row of the file.
// Failures to read the file are still returned.
func (t *Table) LookupRow(path string, n int) (record.Record, bool, error) {
	rec, err := t.GetRow(path, n)
	switch {
	case lineerr.IsOutOfRange(err):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	return rec, true, nil
}

// GetRowsBelow returns the rows from the 0-based index idx to the end.
func (t *Table) GetRowsBelow(path string, idx int) ([]record.Record, error) {
	lines, err := t.ed.GetLinesBelow(path, idx)
	if err != nil {
		return nil, err
	}
	return record.ParseAll(lines), nil
}

// GetRowsAbove returns the rows before the 0-based index idx.
func (t *Table) GetRowsAbove(path string, idx int) ([]record.Record, error) {
	lines, err := t.ed.GetLinesAbove(path, idx)
	if err != nil {
		return nil, err
	}
	return record.ParseAll(lines), nil
}

// GetColumn returns field col of every row. Rows with fewer than col+1
// fields are skipped.
func (t *Table) GetColumn(path string, col int) ([]string, error) {
	cols, err := t.GetColumns(path, col)
	if err != nil {
		return nil, err
	}
	return cols[0], nil
}

// GetColumns returns one slice per requested column, in request order,
// with the same short-row rule as GetColumn.
func (t *Table) GetColumns(path string, cols ...int) ([][]string, error) {
	recs, err := t.GetTable(path)
	if err != nil {
		return nil, err
	}
	for _, col := range cols {
		if col < 0 {
			width := 0
			for _, rec := range recs {
				width = max(width, len(rec))
			}
			return nil, lineerr.NewRangeError("get column", "column", col, 0, width-1)
		}
	}
	out := make([][]string, len(cols))
	for i, col := range cols {
		out[i] = []string{}
		for _, rec := range recs {
			if v, ok := rec.Field(col); ok {
				out[i] = append(out[i], v)
			}
		}
	}
	return out, nil
}

// AppendColumn adds values[i] as a new last field of row i+1. Rows beyond
// len(values) are left as they are, and values beyond the last row are
// dropped.
func (t *Table) AppendColumn(path string, values []string) error {
	lines, err := t.ed.GetLines(path)
	if err != nil {
		return err
	}
	for i := range min(len(values), len(lines)) {
		lines[i] += record.Delimiter + values[i]
	}
	return t.ed.OverrideFile(path, lines)
}

// DeleteColumn removes field col from every row. If any row has no such
// field nothing is written.
func (t *Table) DeleteColumn(path string, col int) error {
	recs, err := t.GetTable(path)
	if err != nil {
		return err
	}
	for i, rec := range recs {
		if col < 0 || col >= len(rec) {
			return lineerr.NewRangeError(fmt.Sprintf("delete column: row %d", i+1), "column", col, 0, len(rec)-1)
		}
	}
	for i := range recs {
		recs[i] = slices.Delete(recs[i], col, col+1)
	}
	return t.ed.OverrideFile(path, record.Join(recs))
}

// InsertRow inserts rec so that it becomes row n.
func (t *Table) InsertRow(path string, n int, rec record.Record) error {
	return t.ed.InsertLine(path, n, rec.String())
}

// InsertRows inserts recs so that the first of them becomes row n.
func (t *Table) InsertRows(path string, n int, recs []record.Record) error {
	return t.ed.InsertLines(path, n, record.Join(recs))
}

// DeleteRow removes row n.
func (t *Table) DeleteRow(path string, n int) error {
	return t.ed.DeleteLine(path, n)
}

// DeleteRows removes every listed row in one rewrite. Row numbers refer to
// the file before the call.
func (t *Table) DeleteRows(path string, ns ...int) error {
	return t.ed.DeleteLines(path, ns...)
}

// OverrideRow replaces row n.
func (t *Table) OverrideRow(path string, n int, rec record.Record) error {
	return t.ed.OverrideLine(path, n, rec.String())
}

// OverrideRows replaces len(recs) consecutive rows starting at row start.
func (t *Table) OverrideRows(path string, start int, recs []record.Record) error {
	if len(recs) == 0 {
		return nil
	}
	return t.ed.OverrideSection(path, start, start+len(recs)-1, record.Join(recs))
}

// OverrideTable replaces the whole file with recs.
func (t *Table) OverrideTable(path string, recs []record.Record) error {
	return t.ed.OverrideFile(path, record.Join(recs))
}

// OverrideWithFile replaces the rows of path with the rows of other.
func (t *Table) OverrideWithFile(path, other string) error {
	return t.ed.OverrideWithFile(path, other)
}
