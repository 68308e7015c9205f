package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	csvtable "linekit/pkg/table"
)

func newLineCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "line",
		Short: "Read and edit lines by 1-based line number",
	}
	c.AddCommand(
		lineGetCmd(a),
		lineRangeCmd(a),
		lineBelowCmd(a),
		lineAboveCmd(a),
		lineCountCmd(a),
		lineAppendCmd(a),
		lineAppendFileCmd(a),
		lineInsertCmd(a),
		lineInsertFileCmd(a),
		lineSetCmd(a),
		lineSetSectionCmd(a),
		lineDeleteCmd(a),
		lineDeleteSectionCmd(a),
		lineReplaceCmd(a),
	)
	return c
}

func lineGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get FILE N",
		Short: "Print line N",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseInt("line", args[1])
			if err != nil {
				return err
			}
			return a.read(func(t *csvtable.Table) error {
				line, err := t.Editor().GetLine(args[0], n)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), line)
				return err
			})
		},
	}
}

func lineRangeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "range FILE START END",
		Short: "Print lines START through END inclusive",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := parseInts("line", args[1:])
			if err != nil {
				return err
			}
			return a.read(func(t *csvtable.Table) error {
				lines, err := t.Editor().GetRange(args[0], ns[0], ns[1])
				if err != nil {
					return err
				}
				return printLines(cmd.OutOrStdout(), lines)
			})
		},
	}
}

func lineBelowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "below FILE INDEX",
		Short: "Print the lines from 0-based INDEX to the end",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseInt("index", args[1])
			if err != nil {
				return err
			}
			return a.read(func(t *csvtable.Table) error {
				lines, err := t.Editor().GetLinesBelow(args[0], idx)
				if err != nil {
					return err
				}
				return printLines(cmd.OutOrStdout(), lines)
			})
		},
	}
}

func lineAboveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "above FILE INDEX",
		Short: "Print the lines before 0-based INDEX",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseInt("index", args[1])
			if err != nil {
				return err
			}
			return a.read(func(t *csvtable.Table) error {
				lines, err := t.Editor().GetLinesAbove(args[0], idx)
				if err != nil {
					return err
				}
				return printLines(cmd.OutOrStdout(), lines)
			})
		},
	}
}

func lineCountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count FILE",
		Short: "Print the number of lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.read(func(t *csvtable.Table) error {
				n, err := t.Editor().CountLines(args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
				return err
			})
		},
	}
}

func lineAppendCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "append FILE LINE...",
		Short: "Append lines, creating FILE if needed",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(cmd, args[0], nil, func(t *csvtable.Table) error {
				if len(args) == 2 {
					return t.Editor().AppendLine(args[0], args[1])
				}
				return t.Editor().AppendLines(args[0], args[1:])
			})
		},
	}
}

func lineAppendFileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "append-file FILE OTHER",
		Short: "Append every line of OTHER",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(cmd, args[0], args[1:], func(t *csvtable.Table) error {
				return t.Editor().AppendFile(args[0], args[1])
			})
		},
	}
}

func lineInsertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "insert FILE N LINE...",
		Short: "Insert lines before line N",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseInt("line", args[1])
			if err != nil {
				return err
			}
			return a.edit(cmd, args[0], nil, func(t *csvtable.Table) error {
				if len(args) == 3 {
					return t.Editor().InsertLine(args[0], n, args[2])
				}
				return t.Editor().InsertLines(args[0], n, args[2:])
			})
		},
	}
}

func lineInsertFileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "insert-file FILE OTHER N",
		Short: "Insert every line of OTHER before line N",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseInt("line", args[2])
			if err != nil {
				return err
			}
			return a.edit(cmd, args[0], args[1:2], func(t *csvtable.Table) error {
				return t.Editor().InsertFile(args[0], args[1], n)
			})
		},
	}
}

func lineSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set FILE N LINE",
		Short: "Replace line N",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseInt("line", args[1])
			if err != nil {
				return err
			}
			return a.edit(cmd, args[0], nil, func(t *csvtable.Table) error {
				return t.Editor().OverrideLine(args[0], n, args[2])
			})
		},
	}
}

func lineSetSectionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-section FILE START END LINE...",
		Short: "Replace lines START through END with the given lines",
		Long: `Replace lines START through END with the given lines. At least
END-START+1 lines are required; extra lines are ignored.`,
		Args: cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := parseInts("line", args[1:3])
			if err != nil {
				return err
			}
			return a.edit(cmd, args[0], nil, func(t *csvtable.Table) error {
				return t.Editor().OverrideSection(args[0], ns[0], ns[1], args[3:])
			})
		},
	}
}

func lineDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete FILE N...",
		Short: "Delete lines by number",
		Long: `Delete lines by number. Every number refers to the file as it was
before the command ran; nothing is deleted if any of them is out of range.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := parseInts("line", args[1:])
			if err != nil {
				return err
			}
			return a.edit(cmd, args[0], nil, func(t *csvtable.Table) error {
				if len(ns) == 1 {
					return t.Editor().DeleteLine(args[0], ns[0])
				}
				return t.Editor().DeleteLines(args[0], ns...)
			})
		},
	}
}

func lineDeleteSectionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-section FILE START END",
		Short: "Delete lines START through END inclusive",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := parseInts("line", args[1:])
			if err != nil {
				return err
			}
			return a.edit(cmd, args[0], nil, func(t *csvtable.Table) error {
				return t.Editor().DeleteSection(args[0], ns[0], ns[1])
			})
		},
	}
}

func lineReplaceCmd(a *app) *cobra.Command {
	var from string
	c := &cobra.Command{
		Use:   "replace FILE [LINE...]",
		Short: "Replace the whole file with the given lines or with --from OTHER",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if from != "" {
				if len(args) > 1 {
					return fmt.Errorf("%w: lines and --from are mutually exclusive", errArg)
				}
				return a.edit(cmd, args[0], []string{from}, func(t *csvtable.Table) error {
					return t.Editor().OverrideWithFile(args[0], from)
				})
			}
			return a.edit(cmd, args[0], nil, func(t *csvtable.Table) error {
				return t.Editor().OverrideFile(args[0], args[1:])
			})
		},
	}
	c.Flags().StringVar(&from, "from", "", "copy the lines of this file")
	return c
}
