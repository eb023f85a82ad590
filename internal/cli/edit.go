package cli

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/datagrid/internal/records"
	"github.com/mesh-intelligence/datagrid/pkg/datagrid"
	"github.com/mesh-intelligence/datagrid/pkg/types"
)

func newEditCmd(a *app) *cobra.Command {
	var in tableInput
	var sets []string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit one row and write it back to the records file",
		Long: `Edit opens the row with the given identity, applies each --set, and saves
the records file only when a value actually changed. Values are parsed as
JSON when possible, otherwise used as plain strings.

Example:
  datagrid edit 42 -r people.jsonl --set name=Ada --set active=true
  datagrid edit 42 -r people.jsonl --set 'skills=["go","sql"]'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			assignments, err := parseAssignments(sets)
			if err != nil {
				return err
			}

			var s *session
			save := func(rec types.Record) error {
				rows := s.table.Records()
				for i, r := range rows {
					if rid, ok := r.Identity(s.table.Options().RowID); ok && rid == id {
						rows[i] = rec
					}
				}
				return records.Save(in.records, rows)
			}
			s, err = a.open(in, datagrid.OnRowSave(save))
			if err != nil {
				return err
			}
			defer s.Close()

			if _, ok := s.table.BeginEdit(id); !ok {
				if !s.table.Options().Features.Editing {
					return fmt.Errorf("editing is disabled")
				}
				return fmt.Errorf("%w: %q", types.ErrRecordNotFound, id)
			}
			for _, kv := range assignments {
				if !s.table.SetField(kv[0], parseValue(kv[1])) {
					s.table.CancelEdit()
					return fmt.Errorf("column %q is not editable", kv[0])
				}
			}
			res, err := s.table.SaveEdit()
			if err != nil {
				s.table.CancelEdit()
				return sysError{err: err}
			}

			out := cmd.OutOrStdout()
			if a.jsonMode {
				data, err := json.MarshalIndent(res, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal result: %w", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			}
			if !res.Changed {
				status(out, color.FgYellow, "no changes")
				return nil
			}
			status(out, color.FgGreen, "saved %s: %v", id, res.Fields)
			return nil
		},
	}
	in.register(cmd)
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field assignment key=value (repeatable)")
	return cmd
}
