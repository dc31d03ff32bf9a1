package app

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	testCases := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "info", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "verbose", want: slog.LevelInfo, wantErr: true},
		{in: "", want: slog.LevelInfo, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseLogLevel(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid log-level")
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("json at warn drops info", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := DefaultConfig()
		cfg.LogFormat = "json"
		cfg.LogLevel = "warn"
		logger := newLogger(&cfg, &buf)

		logger.Info("hidden")
		logger.Warn("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), `"msg":"shown"`)
		assert.Contains(t, buf.String(), `"component":"bindgraph"`)
	})

	t.Run("text at debug", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := DefaultConfig()
		cfg.LogLevel = "debug"
		newLogger(&cfg, &buf).Debug("details")
		assert.Contains(t, buf.String(), "level=DEBUG msg=details component=bindgraph")
	})
}
