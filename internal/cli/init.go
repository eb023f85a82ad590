package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/datagrid/internal/paths"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the config file and state store",
		Long:  "Create the configuration directory with a default config.yaml, then create the data directory and initialize the configured state backend.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir, err := a.resolveDataDir()
			if err != nil {
				return sysErr("resolve data dir: %w", err)
			}
			if err := os.MkdirAll(dataDir, 0o755); err != nil {
				return sysErr("create data directory: %w", err)
			}
			st, err := a.openStore()
			if err != nil {
				return err
			}
			if err := st.Close(); err != nil {
				return sysErr("close state store: %w", err)
			}

			out := cmd.OutOrStdout()
			status(out, color.FgGreen, "datagrid initialized")
			fmt.Fprintf(out, "config: %s\n", paths.ConfigFile(a.configDir))
			fmt.Fprintf(out, "data:   %s (%s)\n", dataDir, a.settings.StateBackend)
			return nil
		},
	}
}
