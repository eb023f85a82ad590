// Package cli implements the datagrid command-line interface: a terminal
// front end over the table state engine that reads record files, applies
// filters, sorts, paging and column layout, and exports or edits rows.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/datagrid/internal/logging"
	"github.com/mesh-intelligence/datagrid/internal/paths"
	"github.com/mesh-intelligence/datagrid/internal/store"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// sysError marks failures of the environment rather than of the input.
type sysError struct{ err error }

func (e sysError) Error() string { return e.err.Error() }
func (e sysError) Unwrap() error { return e.err }

func sysErr(format string, args ...any) error {
	return sysError{err: fmt.Errorf(format, args...)}
}

// app carries global flags and what PersistentPreRunE loads.
type app struct {
	configDir string
	dataDir   string
	jsonMode  bool
	logLevel  string

	cfg      *viper.Viper
	settings settings
	log      *logging.Logger
}

// NewRootCmd builds the command tree. Each call has independent state.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "datagrid",
		Short:         "Filter, sort, page, edit and export tabular records",
		Long:          "datagrid drives the table state engine from the terminal.\nTable state (filters, sort, column layout, paging) persists per table between runs.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.log != nil {
				return a.log.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory for table state (default: platform data dir)")
	root.PersistentFlags().BoolVar(&a.jsonMode, "json", false, "output as JSON")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error, off")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newViewCmd(a),
		newExportCmd(a),
		newEditCmd(a),
		newColumnsCmd(a),
		newStateCmd(a),
	)
	return root
}

// Execute runs the root command and exits with the matching code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "error:", err)
		var se sysError
		if errors.As(err, &se) {
			os.Exit(exitSysError)
		}
		os.Exit(exitUserError)
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	if cmd.Name() == "version" {
		return nil
	}
	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return sysErr("resolve config dir: %w", err)
	}
	a.configDir = configDir
	if err := loadEnv(configDir); err != nil {
		return err
	}
	a.cfg, err = loadConfig(configDir)
	if err != nil {
		return sysError{err: err}
	}
	a.settings, err = decodeSettings(a.cfg)
	if err != nil {
		return err
	}

	level := a.logLevel
	if level == "" {
		level = a.settings.LogLevel
	}
	l, err := logging.ParseLevel(level)
	if err != nil {
		return err
	}
	a.log, err = logging.New().FromWriter(cmd.ErrOrStderr()).Level(l).Console(true).Make()
	if err != nil {
		return sysError{err: err}
	}
	return nil
}

// resolveDataDir applies --data-dir > config.yaml data_dir > env > default.
func (a *app) resolveDataDir() (string, error) {
	return paths.ResolveDataDir(a.dataDir, a.settings.DataDir)
}

// openStore opens the configured state backend.
func (a *app) openStore() (store.Store, error) {
	dir, err := a.resolveDataDir()
	if err != nil {
		return nil, sysErr("resolve data dir: %w", err)
	}
	st, err := store.Open(a.settings.StateBackend, dir)
	if err != nil {
		return nil, sysErr("open state store: %w", err)
	}
	return st, nil
}

// status prints a colored one-line status message.
func status(w io.Writer, attr color.Attribute, format string, args ...any) {
	color.New(attr).Fprintf(w, format+"\n", args...)
}
