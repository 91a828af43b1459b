package commands

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/geminichat/internal/config"
)

func TestConfigCmd_ShowMasksKey(t *testing.T) {
	e := newTestEnv(t)

	require.NoError(t, e.run("config"))
	out := e.stdout.String()
	for _, key := range config.Keys() {
		assert.Contains(t, out, key)
	}
	assert.Contains(t, out, config.MaskSecret("test-key-1234"))
	assert.NotContains(t, out, "test-key-1234")
}

func TestConfigCmd_ShowSubcommand(t *testing.T) {
	e := newTestEnv(t)

	require.NoError(t, e.run("config", "show"))
	assert.Contains(t, e.stdout.String(), "gemini-2.0-flash")
}

func TestConfigCmd_Path(t *testing.T) {
	e := newTestEnv(t)

	require.NoError(t, e.run("config", "path"))
	assert.Equal(t, e.configPath()+"\n", e.stdout.String())
}

func TestConfigCmd_Set(t *testing.T) {
	e := newTestEnv(t)

	require.NoError(t, e.run("config", "set", "model", "gemini-2.5-pro"))
	require.NoError(t, e.run("config", "set", "api_key", "secret-abcd"))
	assert.Contains(t, e.stderr.String(), "✓ model = gemini-2.5-pro")
	assert.NotContains(t, e.stderr.String(), "secret-abcd")

	cfg, err := config.LoadFile(e.configPath())
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", cfg.Model)
	assert.Equal(t, "secret-abcd", cfg.APIKey)

	info, err := os.Stat(e.configPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestConfigCmd_SetDoesNotPersistOverrides(t *testing.T) {
	e := newTestEnv(t)
	t.Setenv("GEMINICHAT_MODEL", "gemini-2.5-flash")

	require.NoError(t, e.run("config", "set", "copy_to_clipboard", "true", "--provider", "openai"))

	data, err := os.ReadFile(e.configPath())
	require.NoError(t, err)
	var saved map[string]any
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, "gemini-2.0-flash", saved["model"])
	assert.Equal(t, "gemini", saved["provider"])
	assert.Equal(t, true, saved["copy_to_clipboard"])
	assert.NotContains(t, saved, "api_key")
}

func TestConfigCmd_SetErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown key", []string{"config", "set", "colour", "blue"}},
		{"invalid timeout", []string{"config", "set", "request_timeout", "soon"}},
		{"invalid bool", []string{"config", "set", "copy_to_clipboard", "maybe"}},
		{"missing value", []string{"config", "set", "model"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			assert.Error(t, e.run(tt.args...))
			assert.NoFileExists(t, e.configPath())
		})
	}
}
