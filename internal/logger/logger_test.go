package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/brizzai/httpmapper/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LoggingConfig
		wantErr bool
	}{
		{name: "defaults", cfg: config.LoggingConfig{}},
		{name: "json", cfg: config.LoggingConfig{Level: "debug", Format: "json", DisableStacktrace: true}},
		{name: "invalid level", cfg: config.LoggingConfig{Level: "loud"}, wantErr: true},
		{name: "invalid format", cfg: config.LoggingConfig{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLogger(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "httpmapper.log")
	l, err := NewLogger(&config.LoggingConfig{
		Level:          "info",
		Format:         "json",
		OutputPath:     path,
		DisableConsole: true,
	})
	require.NoError(t, err)

	l.Info("written to file")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestSetLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	Debug("debug message", zap.String("key", "value"))
	Warn("warn message", zap.Int("n", 1))
	Error("error message")

	require.Equal(t, 3, logs.Len())
	entries := logs.All()
	assert.Equal(t, "debug message", entries[0].Message)
	assert.Equal(t, "value", entries[0].ContextMap()["key"])
	assert.Equal(t, "warn message", entries[1].Message)
	assert.Equal(t, zap.ErrorLevel, entries[2].Level)
	assert.NoError(t, Sync())

	SetLogger(nil)
	Error("dropped")
	assert.Equal(t, 3, logs.Len())
}
