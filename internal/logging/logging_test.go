package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogToWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	l, err := New().FromWriter(buf).Level(zerolog.WarnLevel).Make()
	require.NoError(t, err)

	l.Info().Msg("quiet")
	assert.Equal(t, 0, buf.Len())
	l.Warn().Str("table", "people").Msg("save table state")
	assert.Contains(t, buf.String(), `"table":"people"`)
	assert.Contains(t, buf.String(), `"time":`)
	assert.NoError(t, l.Close())
}

func TestLogToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datagrid.log")
	l, err := New().FromPath(path).Make()
	require.NoError(t, err)
	l.Info().Msg("hello")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{in: "", want: zerolog.InfoLevel},
		{in: "debug", want: zerolog.DebugLevel},
		{in: "WARN", want: zerolog.WarnLevel},
		{in: "off", want: zerolog.Disabled},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
