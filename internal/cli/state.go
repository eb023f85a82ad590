package cli

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newStateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or reset saved table state",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List tables with saved state",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				st, err := a.openStore()
				if err != nil {
					return err
				}
				defer st.Close()

				names, err := st.Tables()
				if err != nil {
					return sysErr("list tables: %w", err)
				}
				out := cmd.OutOrStdout()
				if a.jsonMode {
					if names == nil {
						names = []string{}
					}
					data, _ := json.Marshal(names)
					fmt.Fprintln(out, string(data))
					return nil
				}
				for _, n := range names {
					fmt.Fprintln(out, n)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "show <table>",
			Short: "Print the saved state of a table as JSON",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				st, err := a.openStore()
				if err != nil {
					return err
				}
				defer st.Close()

				p, ok, err := st.Load(args[0])
				if err != nil {
					return sysErr("load state: %w", err)
				}
				if !ok {
					return fmt.Errorf("no saved state for table %q", args[0])
				}
				data, err := json.MarshalIndent(p, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal state: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset <table>",
			Short: "Forget the saved state of a table",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				st, err := a.openStore()
				if err != nil {
					return err
				}
				defer st.Close()

				if err := st.Delete(args[0]); err != nil {
					return sysErr("reset state: %w", err)
				}
				status(cmd.OutOrStdout(), color.FgGreen, "state of %s reset", args[0])
				return nil
			},
		},
	)
	return cmd
}
