package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"default warn level", 0, zerolog.WarnLevel},
		{"info level", 1, zerolog.InfoLevel},
		{"debug level", 2, zerolog.DebugLevel},
		{"trace level", 3, zerolog.TraceLevel},
		{"high verbosity defaults to trace", 5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			t.Setenv("XDG_STATE_HOME", tempDir)
			t.Setenv(envStateDir, "")

			var console bytes.Buffer
			setup(tt.verbosity, &console)

			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())

			logPath := filepath.Join(tempDir, "devstrap", "devstrap.log")
			_, err := os.Stat(logPath)
			assert.NoError(t, err, "log file should exist at %s", logPath)
		})
	}
}

func TestGetLogFilePath(t *testing.T) {
	t.Run("state dir override", func(t *testing.T) {
		t.Setenv(envStateDir, "/custom/devstrap-state")
		assert.Equal(t, filepath.Join("/custom/devstrap-state", "devstrap.log"), getLogFilePath())
	})

	t.Run("xdg state home", func(t *testing.T) {
		t.Setenv(envStateDir, "")
		t.Setenv("XDG_STATE_HOME", "/custom/state")
		assert.Equal(t, filepath.Join("/custom/state", "devstrap", "devstrap.log"), getLogFilePath())
	})

	t.Run("home fallback", func(t *testing.T) {
		t.Setenv(envStateDir, "")
		t.Setenv("XDG_STATE_HOME", "")
		got := getLogFilePath()
		assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
		assert.Contains(t, filepath.ToSlash(got), ".local/state/devstrap/devstrap.log")
	})
}

func TestLogCommand(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)

	LogCommand("apt-get", []string{"install", "-y", "git"})

	output := buf.String()
	assert.Contains(t, output, "apt-get")
	assert.Contains(t, output, "install")
	assert.Contains(t, output, "Executing command")
}

func TestLogOperationStart(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	done := LogOperationStart(logger, "sync-dotfiles")
	time.Sleep(time.Millisecond)
	done()

	output := buf.String()
	assert.Contains(t, output, "Operation started")
	assert.Contains(t, output, "Operation completed")
	assert.Contains(t, output, "sync-dotfiles")
}

func TestGetLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	log.Logger = zerolog.New(&buf)

	logger := GetLogger("filesync")
	logger.Info().Msg("hello")

	require.NotEmpty(t, buf.String())
	assert.Contains(t, buf.String(), `"component":"filesync"`)
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	log.Logger = zerolog.New(&buf)

	logger := WithFields(map[string]interface{}{"step": "git", "optional": true})
	logger.Info().Msg("step")

	assert.Contains(t, buf.String(), `"step":"git"`)
	assert.Contains(t, buf.String(), `"optional":true`)
}
