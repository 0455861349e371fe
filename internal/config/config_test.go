package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktrack/internal/task"
)

func TestNew_DefaultsWithoutSettingsFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := New(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, DefaultSettings(), cfg.Settings)
	assert.Equal(t, task.PriorityMedium, cfg.Settings.Priority())
	assert.Equal(t, filepath.Join(dir, "token.json"), cfg.TokenPath())
	assert.Equal(t, filepath.Join(dir, "oauth_client.json"), cfg.OAuthClientPath())
}

func TestNew_ReadsSettingsFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "default_priority: high\ntimezone: UTC\nlisten_addr: \":9000\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFile), []byte(yaml), 0600))

	cfg, err := New(dir)
	require.NoError(t, err)

	assert.Equal(t, task.PriorityHigh, cfg.Settings.Priority())
	assert.Equal(t, ":9000", cfg.Settings.ListenAddr)

	loc, err := cfg.Settings.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadSettings_EnvOverride(t *testing.T) {
	t.Setenv("TASKTRACK_DEFAULT_PRIORITY", "low")

	s, err := LoadSettings(filepath.Join(t.TempDir(), SettingsFile))
	require.NoError(t, err)
	assert.Equal(t, task.PriorityLow, s.Priority())
}

func TestLoadSettings_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad priority": "default_priority: urgent\n",
		"bad timezone": "timezone: Mars/Olympus\n",
		"bad yaml":     "default_priority: [\n",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), SettingsFile)
			require.NoError(t, os.WriteFile(path, []byte(body), 0600))

			_, err := LoadSettings(path)
			assert.Error(t, err)
		})
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", AppName), DefaultConfigDir())
}

func TestTokenLifecycle(t *testing.T) {
	cfg := &Config{Dir: filepath.Join(t.TempDir(), "nested")}

	require.NoError(t, cfg.EnsureDir())
	assert.False(t, cfg.HasToken())

	require.NoError(t, os.WriteFile(cfg.TokenPath(), []byte("{}"), 0600))
	assert.True(t, cfg.HasToken())

	require.NoError(t, cfg.RemoveToken())
	assert.False(t, cfg.HasToken())
}
