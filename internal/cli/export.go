package cli

import (
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/datagrid/internal/gridfile"
	"github.com/mesh-intelligence/datagrid/pkg/types"
)

func newExportCmd(a *app) *cobra.Command {
	var in tableInput
	var vf viewFlags
	var out, format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered and sorted rows",
		Long: `Export writes every row that passes the table's filters and search, in
sort order, across the visible columns. When rows are selected only the
selection is exported. Pagination is ignored.

The format follows the --out extension (.csv, .jsonl, .txt) or --format
when writing to stdout.

Example:
  datagrid export -r people.jsonl -o people.csv
  datagrid export -r people.jsonl -f active=true --format jsonl
  datagrid export -r people.jsonl --select 3 --select 7 -o picked.csv`,
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

			var w types.GridWriter
			var closer io.Closer
			if out != "" {
				w, closer, err = gridfile.Create(out)
			} else {
				var f gridfile.Format
				f, err = gridfile.ParseFormat(format)
				if err == nil {
					w, err = gridfile.New(f, cmd.OutOrStdout())
				}
			}
			if err != nil {
				return err
			}

			g, err := s.table.Export(w)
			if closer != nil {
				if cerr := closer.Close(); err == nil && cerr != nil {
					err = sysErr("close %s: %w", out, cerr)
				}
			}
			if err != nil {
				return err
			}
			if out != "" {
				status(cmd.ErrOrStderr(), color.FgGreen, "exported %d rows × %d columns to %s", len(g.Rows), len(g.Header), out)
			}
			return nil
		},
	}
	in.register(cmd)
	vf.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	cmd.Flags().StringVar(&format, "format", string(gridfile.FormatCSV), "stdout format: csv, jsonl or text")
	return cmd
}
