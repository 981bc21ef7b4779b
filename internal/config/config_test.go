package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/some/path"},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_LogLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
		cfg := validConfig()
		cfg.Logger.Level = level
		assert.NoError(t, cfg.Validate(), "level %q", level)
	}

	cfg := validConfig()
	cfg.Logger.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestValidate_EmptyDataPath(t *testing.T) {
	cfg := validConfig()
	cfg.Data.BasePath = ""
	assert.Error(t, cfg.Validate())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/books", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "books"), got)

	got, err = expandPath("", "/fallback")
	require.NoError(t, err)
	assert.Equal(t, "/fallback", got)

	got, err = expandPath("/abs/./path", "")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)
}

func TestGetBoolConfigValue(t *testing.T) {
	t.Setenv("SHELFMARK_TEST_BOOL", "yes")
	assert.True(t, getBoolConfigValue("", "SHELFMARK_TEST_BOOL", false))

	t.Setenv("SHELFMARK_TEST_BOOL", "nope")
	assert.False(t, getBoolConfigValue("", "SHELFMARK_TEST_BOOL", true))

	assert.True(t, getBoolConfigValue("", "SHELFMARK_TEST_BOOL_UNSET", true))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("# comment\nSHELFMARK_TEST_ENVFILE=\"from-file\"\n"), 0o600))

	t.Setenv("SHELFMARK_TEST_ENVFILE", "")
	require.NoError(t, os.Unsetenv("SHELFMARK_TEST_ENVFILE"))

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "from-file", os.Getenv("SHELFMARK_TEST_ENVFILE"))
}
