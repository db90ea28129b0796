package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_CreatesDefault(t *testing.T) {
	t.Setenv("LOCALCHAT_HOME", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.ActiveProfile)
	assert.Equal(t, DefaultModel, cfg.GetModel())
	assert.Equal(t, DefaultBaseURL, cfg.GetBaseURL())
	assert.Equal(t, DefaultDaemonURL, cfg.GetDaemonURL())
	assert.InDelta(t, 0.7, cfg.GetTemperature(), 0.001)
	assert.Equal(t, 512, cfg.GetMaxTokens())
	assert.True(t, cfg.IsValid())
}

func TestLoadConfig_ReadsExistingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("LOCALCHAT_HOME", home)

	configDir := filepath.Join(home, ".localchat")
	require.NoError(t, os.MkdirAll(configDir, 0755))

	raw := map[string]any{
		"active_profile": "local",
		"profiles": map[string]any{
			"local": map[string]any{
				"api_key":           "secret",
				"base_url":          "http://localhost:9999/v1",
				"daemon_url":        "http://localhost:9998",
				"model":             "llama3",
				"temperature":       0.2,
				"max_tokens":        256,
				"top_p":             0.9,
				"frequency_penalty": 0.5,
			},
		},
	}
	data, err := json.Marshal(raw)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.json"), data, 0600))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.ActiveProfile)
	assert.Equal(t, "llama3", cfg.GetModel())
	assert.Equal(t, "secret", cfg.GetAPIKey())
	assert.Equal(t, "http://localhost:9998", cfg.GetDaemonURL())
	assert.InDelta(t, 0.2, cfg.GetTemperature(), 0.001)
	assert.Equal(t, 256, cfg.GetMaxTokens())
}

func TestLoadConfig_FallsBackToFirstProfile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("LOCALCHAT_HOME", home)

	configDir := filepath.Join(home, ".localchat")
	require.NoError(t, os.MkdirAll(configDir, 0755))

	raw := `{"active_profile": "missing", "profiles": {"only": {"model": "llama3"}}}`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.json"), []byte(raw), 0600))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "only", cfg.ActiveProfile)
	assert.Equal(t, "llama3", cfg.GetModel())
}

func TestConfig_Save(t *testing.T) {
	t.Setenv("LOCALCHAT_HOME", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	cfg.ActiveProfile = "default"
	profile := cfg.Profiles["default"]
	profile.Model = "llama3"
	cfg.Profiles["default"] = profile
	require.NoError(t, cfg.Save())

	reloaded, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "llama3", reloaded.GetModel())
}
