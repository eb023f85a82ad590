// Package logging builds the zerolog loggers used by the CLI and tables.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const permission = 0o664

// Build configures a logger. Output defaults to stderr.
type Build struct {
	writer  io.Writer
	path    string
	level   zerolog.Level
	console bool
}

// Logger is a built logger plus the file it writes to, if any.
type Logger struct {
	zerolog.Logger
	File *os.File
}

// New starts a build at info level.
func New() *Build {
	return &Build{level: zerolog.InfoLevel}
}

// FromWriter sends output to w.
func (b *Build) FromWriter(w io.Writer) *Build {
	b.writer = w
	return b
}

// FromPath appends output to the file at path.
func (b *Build) FromPath(path string) *Build {
	b.path = path
	return b
}

// Level sets the minimum level.
func (b *Build) Level(l zerolog.Level) *Build {
	b.level = l
	return b
}

// Console switches to human-readable output.
func (b *Build) Console(on bool) *Build {
	b.console = on
	return b
}

// Make opens the output and returns the logger.
func (b *Build) Make() (*Logger, error) {
	out := &Logger{}
	w := b.writer
	if w == nil {
		w = os.Stderr
	}
	if b.path != "" {
		f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		out.File = f
		w = zerolog.SyncWriter(f)
	}
	if b.console {
		w = zerolog.ConsoleWriter{Out: w, NoColor: b.path != ""}
	}
	out.Logger = zerolog.New(w).Level(b.level).With().Timestamp().Logger()
	return out, nil
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.File == nil {
		return nil
	}
	return l.File.Close()
}

// ParseLevel maps a level name to a zerolog level. "off" disables logging.
func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "off", "none", "disabled":
		return zerolog.Disabled, nil
	}
	l, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}
