package cmd

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "constscan", configBaseName)
	assert.Equal(t, "constscan.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "output", outputFlagName)
	assert.Equal(t, "exclude", excludeFlagName)
	assert.Equal(t, "parallel", runParallelFlagName)
	assert.Equal(t, "run.parallel", runParallelConfigKey)
	assert.Equal(t, "paths.exclude", excludeConfigKey)
	assert.Equal(t, "check.languages", languagesConfigKey)
	assert.Equal(t, "check.format", formatConfigKey)
	assert.Equal(t, "check.fail_on_violation", failOnViolationKey)
	assert.Equal(t, "watch.debounce", debounceConfigKey)
	assert.Equal(t, ".constscan-reports", defaultReportsDir)
	assert.Equal(t, 1, defaultRunParallel)
	assert.Equal(t, "CONSTSCAN", envPrefix)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestConfigDefaults(t *testing.T) {
	assert.Equal(t, []string{"java", "kotlin"}, viper.GetStringSlice(languagesConfigKey))
	assert.True(t, viper.GetBool(failOnViolationKey))
	assert.Equal(t, 200, viper.GetInt(debounceConfigKey))
	assert.Equal(t, 10, viper.GetInt(logMaxSizeKey))
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{"", slog.LevelWarn},
		{"debug", slog.LevelDebug},
		{" INFO ", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"-4", slog.LevelDebug},
		{"loud", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelWarn))
		})
	}
}

func TestConfigureLogger_WritesToFile(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	logPath := filepath.Join(t.TempDir(), "constscan.log")

	configureLogger(logPath, true)
	slog.Debug("debug line", "key", "value")

	contents, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "debug line")
	assert.Contains(t, string(contents), "key=value")
	assert.Same(t, globalLogger, slog.Default())
}

func TestConfigureLogger_RespectsLevel(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	logPath := filepath.Join(t.TempDir(), "constscan.log")

	configureLogger(logPath, false)
	slog.Debug("hidden")
	slog.Info("shown")

	contents, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.NotContains(t, string(contents), "hidden")
	assert.Contains(t, string(contents), "shown")
}

func TestReadConfigFile(t *testing.T) {
	resetConfig(t)

	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		viper.SetConfigFile(filepath.Join(dir, "absent.yaml"))
		assert.NoError(t, readConfigFile())
	})

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "good.yaml")
		require.NoError(t, os.WriteFile(path, []byte("check:\n  format: yaml\n"), 0o600))

		viper.SetConfigFile(path)
		require.NoError(t, readConfigFile())
		assert.Equal(t, "yaml", viper.GetString(formatConfigKey))
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("check: [unclosed\n"), 0o600))

		viper.SetConfigFile(path)
		assert.Error(t, readConfigFile())
	})
}

func TestFlagBindingsDoNotLeakBetweenCommands(t *testing.T) {
	t.Run("override", func(t *testing.T) {
		cmd, _, _ := newTestRoot(t, newCheckCmd())
		cmd.SetArgs(withLogFile(t, "check", "--lang", "scala"))
		require.Error(t, cmd.Execute())
	})

	assert.Equal(t, []string{"java", "kotlin"}, viper.GetStringSlice(languagesConfigKey))
}
