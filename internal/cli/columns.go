package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/datagrid/pkg/datagrid"
	"github.com/mesh-intelligence/datagrid/pkg/types"
)

func newColumnsCmd(a *app) *cobra.Command {
	var in tableInput
	var toggles, moves, order []string
	var reset bool
	cmd := &cobra.Command{
		Use:   "columns",
		Short: "List columns and change their order or visibility",
		Long: `Columns prints every column in display order with its type, visibility
and capabilities. --toggle, --move, --order and --reset change the saved
layout first. The last visible column cannot be hidden.

Example:
  datagrid columns -r people.jsonl --toggle email
  datagrid columns -r people.jsonl --move name:left
  datagrid columns -r people.jsonl --order name,id,email`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(in)
			if err != nil {
				return err
			}
			defer s.Close()

			var actions []datagrid.Action
			if reset {
				actions = append(actions, datagrid.ResetColumns{})
			}
			for _, raw := range order {
				actions = append(actions, datagrid.SetColumnOrder{Order: splitList(raw)})
			}
			for _, key := range toggles {
				actions = append(actions, datagrid.ToggleColumn{Field: key})
			}
			for _, raw := range moves {
				mv, err := parseMove(raw)
				if err != nil {
					return err
				}
				actions = append(actions, mv)
			}
			s.table.Dispatch(actions...)
			return a.renderColumns(cmd, s.table)
		},
	}
	in.register(cmd)
	cmd.Flags().StringArrayVar(&toggles, "toggle", nil, "show or hide a column")
	cmd.Flags().StringArrayVar(&moves, "move", nil, "move a column one step: field:left or field:right")
	cmd.Flags().StringArrayVar(&order, "order", nil, "comma-separated column order")
	cmd.Flags().BoolVar(&reset, "reset", false, "restore declared order and show every column")
	return cmd
}

type columnJSON struct {
	Field      string          `json:"field"`
	Label      string          `json:"label"`
	Type       types.FieldType `json:"type"`
	Visible    bool            `json:"visible"`
	Sortable   bool            `json:"sortable"`
	Filterable bool            `json:"filterable"`
	Searchable bool            `json:"searchable"`
	Editable   bool            `json:"editable"`
	Options    []string        `json:"options,omitempty"`
}

func (a *app) renderColumns(cmd *cobra.Command, tbl *datagrid.Table) error {
	idx := types.IndexColumns(tbl.Columns())
	layout := tbl.State().Layout
	var cols []columnJSON
	for _, key := range layout.Order {
		c := idx[key]
		cols = append(cols, columnJSON{
			Field:      c.Field,
			Label:      c.Label,
			Type:       c.Type,
			Visible:    layout.IsVisible(key),
			Sortable:   c.Sortable,
			Filterable: c.Filterable,
			Searchable: c.Searchable,
			Editable:   c.Editable,
			Options:    c.Options,
		})
	}

	out := cmd.OutOrStdout()
	if a.jsonMode {
		data, err := json.MarshalIndent(cols, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal columns: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"#", "Field", "Label", "Type", "Visible", "Sort", "Filter", "Search", "Edit"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for i, c := range cols {
		table.Append([]string{
			strconv.Itoa(i + 1), c.Field, c.Label, string(c.Type),
			yesNo(c.Visible), yesNo(c.Sortable), yesNo(c.Filterable), yesNo(c.Searchable), yesNo(c.Editable),
		})
	}
	table.Render()
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
