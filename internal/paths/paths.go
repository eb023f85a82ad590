// Package paths resolves where datagrid keeps its configuration and its
// persisted table state.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used under the platform base directories.
const AppName = "datagrid"

// File names inside the config directory.
const (
	ConfigFileName = "config.yaml"
	EnvFileName    = ".env"
)

// Environment variable overrides.
const (
	EnvConfigDir = "DATAGRID_CONFIG_DIR"
	EnvDataDir   = "DATAGRID_DATA_DIR"
)

// platform holds lookups that tests can replace.
var platform = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/datagrid (fallback ~/.config/datagrid)
// others:  os.UserConfigDir()/datagrid
func DefaultConfigDir() (string, error) {
	return platformDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform data directory.
//
// Linux:   $XDG_DATA_HOME/datagrid (fallback ~/.local/share/datagrid)
// others:  os.UserConfigDir()/datagrid
func DefaultDataDir() (string, error) {
	return platformDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func platformDir(xdgVar, homeRel string) (string, error) {
	if platform.goos != "linux" {
		dir, err := platform.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platform.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeRel, AppName), nil
}

// ResolveConfigDir applies flag > DATAGRID_CONFIG_DIR > DefaultConfigDir.
// Explicit values are made absolute.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir applies flag > config.yaml data_dir > DATAGRID_DATA_DIR >
// DefaultDataDir.
func ResolveDataDir(flag, configValue string) (string, error) {
	for _, v := range []string{flag, configValue, os.Getenv(EnvDataDir)} {
		if v != "" {
			return filepath.Abs(v)
		}
	}
	return DefaultDataDir()
}

// ConfigFile returns the config.yaml path inside configDir.
func ConfigFile(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}

// EnvFile returns the .env path inside configDir.
func EnvFile(configDir string) string {
	return filepath.Join(configDir, EnvFileName)
}
