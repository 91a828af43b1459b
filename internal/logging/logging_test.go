package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/geminichat/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    zerolog.Level
		wantErr bool
	}{
		{"empty defaults to info", "", zerolog.InfoLevel, false},
		{"debug", "debug", zerolog.DebugLevel, false},
		{"case insensitive", "WARN", zerolog.WarnLevel, false},
		{"padded", " error ", zerolog.ErrorLevel, false},
		{"invalid", "loud", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := Component(NewWithWriter(&buf, zerolog.InfoLevel), "pipeline")

	logger.Debug().Msg("hidden")
	logger.Info().Str("kind", "http_status").Msg("gateway failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "debug must be filtered at info level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "pipeline", entry["component"])
	assert.Equal(t, "http_status", entry["kind"])
	assert.Equal(t, "gateway failed", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "chat.log")

	logger, closer, err := New(config.LoggingConfig{Level: "debug", File: path})
	require.NoError(t, err)
	logger.Debug().Msg("written")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, closer, err := New(config.LoggingConfig{Level: "shout"})
	require.Error(t, err)
	assert.NoError(t, closer.Close())
}

func TestNew_Console(t *testing.T) {
	logger, closer, err := New(config.LoggingConfig{Level: "warn", Console: true})
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
	assert.NoError(t, closer.Close())
}
