package core

import (
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"
)

// SetupLogging sends log output to both stdout and a file in cfg.LogDir and
// returns a structured logger writing there. The logger is also installed as
// the slog default. Caller should close the returned io.Closer on shutdown.
func SetupLogging(cfg Config, filename string) (*slog.Logger, io.Closer, error) {
	dir := cfg.LogDir
	if dir == "" {
		dir = "./logs"
	}
	if filename == "" {
		filename = "app.log"
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, oops.Code("LOG_DIR_FAILED").With("dir", dir).Wrapf(err, "create log dir")
	}

	path := filepath.Join(dir, filename)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, oops.Code("LOG_FILE_FAILED").With("path", path).Wrapf(err, "open log file")
	}

	mw := io.MultiWriter(os.Stdout, f)
	log.SetOutput(mw)
	gin.DefaultWriter = mw
	gin.DefaultErrorWriter = mw

	logger := NewLogger(cfg.LogFormat, mw)
	slog.SetDefault(logger)
	return logger, f, nil
}

// NewLogger builds a slog logger. format is "json" or "text".
func NewLogger(format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With(slog.String("service", "dreamlink"))
}
