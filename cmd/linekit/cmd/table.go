package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"linekit/pkg/record"
	csvtable "linekit/pkg/table"
)

func newTableCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "table",
		Short: "Read and edit comma-separated rows and columns",
		Long: `Read and edit a file as a table of comma-separated records.

Rows are addressed by 1-based line number, columns by 0-based index.
A RECORD argument is one line, e.g. "2,bob,admin". Fields are split on
every comma; there is no quoting.`,
	}
	c.AddCommand(
		tableShowCmd(a),
		tableRowCmd(a),
		tableRowsAboveCmd(a),
		tableRowsBelowCmd(a),
		tableColumnCmd(a),
		tableAppendRowCmd(a),
		tableAppendFileCmd(a),
		tableInsertRowCmd(a),
		tableSetRowCmd(a),
		tableDeleteRowCmd(a),
		tableAppendColumnCmd(a),
		tableDeleteColumnCmd(a),
		tableReplaceCmd(a),
		tableExportCmd(a),
		tableImportMarkdownCmd(a),
	)
	return c
}

func tableShowCmd(a *app) *cobra.Command {
	var noHeader bool
	c := &cobra.Command{
		Use:   "show FILE",
		Short: "Print the table with aligned columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.read(func(t *csvtable.Table) error {
				recs, err := t.GetTable(args[0])
				if err != nil {
					return err
				}
				return renderGrid(cmd.OutOrStdout(), recs, !noHeader)
			})
		},
	}
	c.Flags().BoolVar(&noHeader, "no-header", false, "treat the first line as data")
	return c
}

// renderGrid draws recs as a bordered grid. Rows are padded to the widest
// record.
func renderGrid(w io.Writer, recs []record.Record, header bool) error {
	if len(recs) == 0 {
		return nil
	}
	ncols := 0
	for _, rec := range recs {
		ncols = max(ncols, len(rec))
	}
	pad := func(rec record.Record) []string {
		row := make([]string, ncols)
		copy(row, rec)
		return row
	}

	grid := ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240")))
	body := recs
	if header {
		grid = grid.Headers(pad(recs[0])...)
		body = recs[1:]
	}
	for _, rec := range body {
		grid = grid.Row(pad(rec)...)
	}
	_, err := fmt.Fprintln(w, grid.String())
	return err
}

func tableRowCmd(a *app) *cobra.Command {
	var lookup, hash bool
	c := &cobra.Command{
		Use:   "row FILE N",
		Short: "Print row N",
		Long: `Print row N. With --lookup a row that does not exist prints nothing
and is not an error.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseInt("row", args[1])
			if err != nil {
				return err
			}
			return a.read(func(t *csvtable.Table) error {
				var rec record.Record
				if lookup {
					var ok bool
					rec, ok, err = t.LookupRow(args[0], n)
					if err != nil || !ok {
						return err
					}
				} else if rec, err = t.GetRow(args[0], n); err != nil {
					return err
				}
				out := rec.String()
				if hash {
					out = rec.Hash()
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
				return err
			})
		},
	}
	c.Flags().BoolVar(&lookup, "lookup", false, "print nothing instead of failing when the row does not exist")
	c.Flags().BoolVar(&hash, "hash", false, "print the sha256 of the row instead of its fields")
	return c
}

func tableRowsAboveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rows-above FILE INDEX",
		Short: "Print the rows before 0-based INDEX",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseInt("index", args[1])
			if err != nil {
				return err
			}
			return a.read(func(t *csvtable.Table) error {
				recs, err := t.GetRowsAbove(args[0], idx)
				if err != nil {
					return err
				}
				return printLines(cmd.OutOrStdout(), record.Join(recs))
			})
		},
	}
}

func tableRowsBelowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rows-below FILE INDEX",
		Short: "Print the rows from 0-based INDEX to the end",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseInt("index", args[1])
			if err != nil {
				return err
			}
			return a.read(func(t *csvtable.Table) error {
				recs, err := t.GetRowsBelow(args[0], idx)
				if err != nil {
					return err
				}
				return printLines(cmd.OutOrStdout(), record.Join(recs))
			})
		},
	}
}

func tableColumnCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "column FILE COL...",
		Short: "Print columns by 0-based index",
		Long: `Print columns by 0-based index. A single column prints one value per
line; several columns print one line per column with the values joined by
commas. Rows too short to have a column are skipped.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cols, err := parseInts("column", args[1:])
			if err != nil {
				return err
			}
			return a.read(func(t *csvtable.Table) error {
				if len(cols) == 1 {
					values, err := t.GetColumn(args[0], cols[0])
					if err != nil {
						return err
					}
					return printLines(cmd.OutOrStdout(), values)
				}
				columns, err := t.GetColumns(args[0], cols...)
				if err != nil {
					return err
				}
				lines := make([]string, len(columns))
				for i, values := range columns {
					lines[i] = strings.Join(values, record.Delimiter)
				}
				return printLines(cmd.OutOrStdout(), lines)
			})
		},
	}
}

func tableAppendRowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "append-row FILE RECORD...",
		Short: "Append rows, creating FILE if needed",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs := record.ParseAll(args[1:])
			return a.edit(cmd, args[0], nil, func(t *csvtable.Table) error {
				if len(recs) == 1 {
					return t.AppendRow(args[0], recs[0])
				}
				return t.AppendRows(args[0], recs)
			})
		},
	}
}

func tableAppendFileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "append-file FILE OTHER",
		Short: "Append every row of OTHER",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(cmd, args[0], args[1:], func(t *csvtable.Table) error {
				return t.AppendFile(args[0], args[1])
			})
		},
	}
}

func tableInsertRowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "insert-row FILE N RECORD...",
		Short: "Insert rows before row N",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseInt("row", args[1])
			if err != nil {
				return err
			}
			recs := record.ParseAll(args[2:])
			return a.edit(cmd, args[0], nil, func(t *csvtable.Table) error {
				if len(recs) == 1 {
					return t.InsertRow(args[0], n, recs[0])
				}
				return t.InsertRows(args[0], n, recs)
			})
		},
	}
}

func tableSetRowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-row FILE N RECORD...",
		Short: "Replace row N, or consecutive rows starting at N",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseInt("row", args[1])
			if err != nil {
				return err
			}
			recs := record.ParseAll(args[2:])
			return a.edit(cmd, args[0], nil, func(t *csvtable.Table) error {
				if len(recs) == 1 {
					return t.OverrideRow(args[0], n, recs[0])
				}
				return t.OverrideRows(args[0], n, recs)
			})
		},
	}
}

func tableDeleteRowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-row FILE N...",
		Short: "Delete rows by number",
		Long: `Delete rows by number. Every number refers to the file as it was
before the command ran; nothing is deleted if any of them is out of range.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := parseInts("row", args[1:])
			if err != nil {
				return err
			}
			return a.edit(cmd, args[0], nil, func(t *csvtable.Table) error {
				if len(ns) == 1 {
					return t.DeleteRow(args[0], ns[0])
				}
				return t.DeleteRows(args[0], ns...)
			})
		},
	}
}

func tableAppendColumnCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "append-column FILE VALUE...",
		Short: "Append VALUE i to the end of row i",
		Long: `Append one value to the end of each row, in order. Rows beyond the
last value are left alone and extra values are dropped.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(cmd, args[0], nil, func(t *csvtable.Table) error {
				return t.AppendColumn(args[0], args[1:])
			})
		},
	}
}

func tableDeleteColumnCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-column FILE COL",
		Short: "Delete 0-based column COL from every row",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := parseInt("column", args[1])
			if err != nil {
				return err
			}
			return a.edit(cmd, args[0], nil, func(t *csvtable.Table) error {
				return t.DeleteColumn(args[0], col)
			})
		},
	}
}

func tableReplaceCmd(a *app) *cobra.Command {
	var from string
	c := &cobra.Command{
		Use:   "replace FILE [RECORD...]",
		Short: "Replace the whole table with the given records or with --from OTHER",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if from != "" {
				if len(args) > 1 {
					return fmt.Errorf("%w: records and --from are mutually exclusive", errArg)
				}
				return a.edit(cmd, args[0], []string{from}, func(t *csvtable.Table) error {
					return t.OverrideWithFile(args[0], from)
				})
			}
			recs := record.ParseAll(args[1:])
			return a.edit(cmd, args[0], nil, func(t *csvtable.Table) error {
				return t.OverrideTable(args[0], recs)
			})
		},
	}
	c.Flags().StringVar(&from, "from", "", "copy the rows of this file")
	return c
}
