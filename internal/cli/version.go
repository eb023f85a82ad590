package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/datagrid/pkg/datagrid"
)

const modulePath = "github.com/mesh-intelligence/datagrid"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the datagrid version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "datagrid v%s\nmodule: %s\ngo: %s\n", datagrid.Version, modulePath, runtime.Version())
			return nil
		},
	}
}
