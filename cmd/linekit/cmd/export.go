package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"linekit/internal/parser"
	"linekit/pkg/lineerr"
	"linekit/pkg/record"
	csvtable "linekit/pkg/table"
)

func tableExportCmd(a *app) *cobra.Command {
	var format string
	c := &cobra.Command{
		Use:   "export FILE",
		Short: "Print the table as csv, markdown, json or yaml",
		Long: `Print the table in another format. The first line is the header: json
and yaml print one object per data row keyed by header field. A header
field that is empty or missing is named #<column>.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.read(func(t *csvtable.Table) error {
				recs, err := t.GetTable(args[0])
				if err != nil {
					return err
				}
				return export(cmd.OutOrStdout(), format, recs)
			})
		},
	}
	c.Flags().StringVarP(&format, "format", "f", "csv", "output format: csv, markdown, json or yaml")
	return c
}

func export(w io.Writer, format string, recs []record.Record) error {
	switch format {
	case "csv":
		return printLines(w, record.Join(recs))
	case "markdown", "md":
		return parser.RenderMarkdown(w, recs)
	case "json":
		return exportJSON(w, recs)
	case "yaml", "yml":
		return exportYAML(w, recs)
	default:
		return fmt.Errorf("%w: unknown format %q", errArg, format)
	}
}

// fieldName names column i of a data row.
func fieldName(header record.Record, i int) string {
	if name, ok := header.Field(i); ok && name != "" {
		return name
	}
	return fmt.Sprintf("#%d", i)
}

func exportJSON(w io.Writer, recs []record.Record) error {
	rows := []map[string]string{}
	if len(recs) > 1 {
		for _, rec := range recs[1:] {
			row := make(map[string]string, len(rec))
			for i, field := range rec {
				row[fieldName(recs[0], i)] = field
			}
			rows = append(rows, row)
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// exportYAML builds the node tree directly so fields keep their column order.
func exportYAML(w io.Writer, recs []record.Record) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	if len(recs) > 1 {
		for _, rec := range recs[1:] {
			m := &yaml.Node{Kind: yaml.MappingNode}
			for i, field := range rec {
				m.Content = append(m.Content,
					&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fieldName(recs[0], i)},
					&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: field},
				)
			}
			seq.Content = append(seq.Content, m)
		}
	}
	if len(seq.Content) == 0 {
		seq.Style = yaml.FlowStyle
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(seq); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

func tableImportMarkdownCmd(a *app) *cobra.Command {
	var (
		index      int
		appendRows bool
	)
	c := &cobra.Command{
		Use:   "import-md MARKDOWN FILE",
		Short: "Write a Markdown table into FILE",
		Long: `Write a GitHub-flavoured Markdown table from MARKDOWN into FILE,
replacing its content. With --append the rows are appended instead and
the header is only written when FILE is empty or missing.

Cells containing commas cannot be stored as single fields and are split.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return lineerr.NewPathError("read", args[0], err)
			}
			tables, err := parser.ParseTables(src)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}
			if len(tables) == 0 {
				return fmt.Errorf("no tables found in %s", args[0])
			}
			if index < 1 || index > len(tables) {
				return lineerr.NewRangeError("import markdown", "table", index, 1, len(tables))
			}
			tbl := tables[index-1]
			if tbl.HasDelimiter() {
				slog.Warn("cells contain commas and will be split", "source", args[0], "table", index)
			}

			return a.edit(cmd, args[1], nil, func(t *csvtable.Table) error {
				if !appendRows {
					return t.OverrideTable(args[1], tbl.Records())
				}
				n, err := t.Editor().CountLines(args[1])
				if err != nil && !lineerr.IsNotFound(err) {
					return err
				}
				if n > 0 {
					return t.AppendRows(args[1], tbl.Rows)
				}
				return t.AppendRows(args[1], tbl.Records())
			})
		},
	}
	c.Flags().IntVar(&index, "table", 1, "1-based index of the table in MARKDOWN")
	c.Flags().BoolVar(&appendRows, "append", false, "append rows instead of replacing FILE")
	return c
}
