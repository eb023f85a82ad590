package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/datagrid/internal/paths"
	"github.com/mesh-intelligence/datagrid/internal/store"
	"github.com/mesh-intelligence/datagrid/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "DATAGRID"

	cfgKeyRowID        = "row_id"
	cfgKeyPageSize     = "page_size"
	cfgKeyStateBackend = "state_backend"
	cfgKeyDataDir      = "data_dir"
	cfgKeyTimezone     = "timezone"
	cfgKeyDateLayout   = "date_layout"
	cfgKeyLogLevel     = "log_level"
	cfgKeyFeatures     = "features"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# datagrid configuration
# Every key can be overridden with a DATAGRID_ environment variable,
# for example DATAGRID_PAGE_SIZE=25 or DATAGRID_FEATURES_EDITING=false.

# Identity field of each record.
row_id: id

# Rows per page.
page_size: 10

# Where table state is kept: sqlite, file or memory.
state_backend: sqlite

# Data directory (optional; overridable by --data-dir).
# data_dir:

# IANA zone for exported dates; empty means local time.
timezone: ""

# Go time layout for exported dates.
date_layout: "Mon, 02 Jan 2006 15:04:05 MST"

log_level: warn

features:
  sorting: true
  multi_sort: true
  filtering: true
  global_search: true
  editing: true
  pagination: true
  selection: true
  column_visibility: true
  column_ordering: true
  export: true
`

// settings is the decoded configuration.
type settings struct {
	RowID        string         `mapstructure:"row_id"`
	PageSize     int            `mapstructure:"page_size"`
	StateBackend string         `mapstructure:"state_backend"`
	DataDir      string         `mapstructure:"data_dir"`
	Timezone     string         `mapstructure:"timezone"`
	DateLayout   string         `mapstructure:"date_layout"`
	LogLevel     string         `mapstructure:"log_level"`
	Features     types.Features `mapstructure:"features"`
}

// loadEnv loads .env from the working directory and the config directory.
// Variables already set win; missing files are ignored.
func loadEnv(configDir string) error {
	for _, p := range []string{paths.EnvFileName, paths.EnvFile(configDir)} {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// loadConfig reads config.yaml from configDir with DATAGRID_ environment
// overrides, creating the directory and a default file on first run.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := writeDefaultConfig(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(cfgKeyRowID, types.DefaultRowID)
	v.SetDefault(cfgKeyPageSize, types.DefaultPageSize)
	v.SetDefault(cfgKeyStateBackend, store.BackendSQLite)
	v.SetDefault(cfgKeyDataDir, "")
	v.SetDefault(cfgKeyTimezone, "")
	v.SetDefault(cfgKeyDateLayout, types.DefaultDateLayout)
	v.SetDefault(cfgKeyLogLevel, "warn")
	for _, k := range []string{"sorting", "multi_sort", "filtering", "global_search", "editing",
		"pagination", "selection", "column_visibility", "column_ordering", "export"} {
		v.SetDefault(cfgKeyFeatures+"."+k, true)
	}
}

// writeDefaultConfig creates config.yaml unless it already exists.
func writeDefaultConfig(configDir string) error {
	path := paths.ConfigFile(configDir)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

func decodeSettings(v *viper.Viper) (settings, error) {
	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("decode config: %w", err)
	}
	return s, nil
}

// options converts settings into table options.
func (s settings) options() (types.Options, error) {
	o := types.Options{
		RowID:      s.RowID,
		PageSize:   s.PageSize,
		DateLayout: s.DateLayout,
		Features:   s.Features,
	}
	if s.Timezone != "" {
		loc, err := time.LoadLocation(s.Timezone)
		if err != nil {
			return o, fmt.Errorf("timezone %q: %w", s.Timezone, err)
		}
		o.Location = loc
	}
	o = o.WithDefaults()
	return o, o.Validate()
}
