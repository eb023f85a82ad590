package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/datagrid/internal/export"
	"github.com/mesh-intelligence/datagrid/internal/fieldtype"
	"github.com/mesh-intelligence/datagrid/internal/gridfile"
	"github.com/mesh-intelligence/datagrid/pkg/datagrid"
	"github.com/mesh-intelligence/datagrid/pkg/types"
)

func newViewCmd(a *app) *cobra.Command {
	var in tableInput
	var vf viewFlags
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show one page of a table",
		Long: `View applies the given filters, search, sort, paging and column changes
to the table's saved state, saves the result, and prints the current page.

Example:
  datagrid view -r people.jsonl -s people.yaml
  datagrid view -r people.jsonl -f active=true --sort name:desc
  datagrid view -r people.jsonl -f skills=go,rust -p 2 --page-size 25`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(in)
			if err != nil {
				return err
			}
			defer s.Close()

			actions, err := vf.actions(cmd, s.table)
			if err != nil {
				return err
			}
			s.table.Dispatch(actions...)
			return a.renderView(cmd.OutOrStdout(), s.table)
		},
	}
	in.register(cmd)
	vf.register(cmd)
	return cmd
}

// pageJSON is the --json form of a view.
type pageJSON struct {
	Table     string         `json:"table"`
	Page      int            `json:"page"`
	PageCount int            `json:"page_count"`
	PageSize  int            `json:"page_size"`
	Total     int            `json:"total"`
	Filtered  int            `json:"filtered"`
	Selected  []string       `json:"selected,omitempty"`
	Columns   []string       `json:"columns"`
	Rows      []types.Record `json:"rows"`
}

func (a *app) renderView(w io.Writer, tbl *datagrid.Table) error {
	v := tbl.View()
	opts := tbl.Options()

	if a.jsonMode {
		out := pageJSON{
			Table:     tbl.Name(),
			Page:      v.Page.Index + 1,
			PageCount: v.Page.Count,
			PageSize:  v.Page.Size,
			Total:     v.TotalCount,
			Filtered:  v.FilteredCount,
			Selected:  types.Identities(v.Selected, opts.RowID),
			Columns:   types.FieldKeys(v.Columns),
			Rows:      make([]types.Record, 0, len(v.Page.Rows)),
		}
		for _, rec := range v.Page.Rows {
			row := types.Record{}
			for _, c := range v.Columns {
				row[c.Field] = rec[c.Field]
			}
			out.Rows = append(out.Rows, row)
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal view: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	state := tbl.State()
	g, err := export.Project(export.Request{
		Rows:       v.Page.Rows,
		Columns:    tbl.Columns(),
		Order:      state.Layout.Order,
		Visibility: state.Layout.Visibility,
		Format:     fieldtype.Format{Location: opts.Location, DateLayout: opts.DateLayout},
	})
	switch {
	case errors.Is(err, types.ErrNoExportRows):
		status(w, color.FgYellow, "no rows match")
	case err != nil:
		return err
	default:
		if err := (gridfile.Text{W: w}).WriteGrid(g); err != nil {
			return err
		}
	}
	summary := fmt.Sprintf("page %d/%d · %d of %d rows", v.Page.Index+1, v.Page.Count, v.FilteredCount, v.TotalCount)
	if n := len(v.Selected); n > 0 {
		summary += fmt.Sprintf(" · %d selected", n)
	}
	status(w, color.FgCyan, "%s", summary)
	return nil
}
