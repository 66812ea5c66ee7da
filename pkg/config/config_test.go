package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "salesdash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	original, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(original)
	})
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{"data/DATA1", "data/DATA2", "data/DATA3"}, cfg.DataDirs)
	assert.Equal(t, 1.2, cfg.EURToUSD)
	assert.Equal(t, 5, cfg.TopN)
	assert.Equal(t, "text", cfg.OutputFormat)
	assert.Equal(t, 3, cfg.MaxParallelRenders)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Development)
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `
data_dirs:
  - fixtures/A
  - " fixtures/B "
eur_to_usd: 1.1
top_n: 3
output_format: JSON
log:
  level: debug
  development: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"fixtures/A", "fixtures/B"}, cfg.DataDirs)
	assert.Equal(t, 1.1, cfg.EURToUSD)
	assert.Equal(t, 3, cfg.TopN)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, 3, cfg.MaxParallelRenders)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, "top_n: 3\nmax_parallel_renders: 1\n")
	t.Setenv("SALESDASH_TOP_N", "10")
	t.Setenv("SALESDASH_DATA_DIRS", "x,y")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.TopN)
	assert.Equal(t, []string{"x", "y"}, cfg.DataDirs)
	assert.Equal(t, 1, cfg.MaxParallelRenders)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "negative rate", content: "eur_to_usd: -1\n", wantErr: "eur_to_usd"},
		{name: "negative top n", content: "top_n: -2\n", wantErr: "top_n"},
		{name: "bad format", content: "output_format: html\n", wantErr: "output_format"},
		{name: "bad level", content: "log:\n  level: loud\n", wantErr: "log.level"},
		{name: "no parallelism", content: "max_parallel_renders: -1\n", wantErr: "max_parallel_renders"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLogConfig_NewLogger(t *testing.T) {
	logger, err := LogConfig{Level: "warn"}.NewLogger()
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))

	_, err = LogConfig{Level: "loud"}.NewLogger()
	assert.Error(t, err)
}
