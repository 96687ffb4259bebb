package core

import (
	"bytes"
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	NewLogger("json", &buf).Info("created account", "user", "*****r01")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "created account", entry["msg"])
	assert.Equal(t, "dreamlink", entry["service"])
	assert.Equal(t, "*****r01", entry["user"])
}

func TestSetupLoggingWritesFile(t *testing.T) {
	prevOut, prevErr, prevDefault := gin.DefaultWriter, gin.DefaultErrorWriter, slog.Default()
	t.Cleanup(func() {
		gin.DefaultWriter, gin.DefaultErrorWriter = prevOut, prevErr
		slog.SetDefault(prevDefault)
		log.SetOutput(os.Stderr)
	})

	dir := t.TempDir()
	logger, closer, err := SetupLogging(Config{LogDir: dir, LogFormat: "text"}, "test.log")
	require.NoError(t, err)
	logger.Info("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=hello")
	assert.Contains(t, string(data), "service=dreamlink")
}
