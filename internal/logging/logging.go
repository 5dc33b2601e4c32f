// Package logging builds the application's zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// keepRotated is how many rotated log files survive a rotation.
const keepRotated = 5

// LoggerConfig configures the logger.
type LoggerConfig struct {
	Level    string
	FilePath string
	JSONMode bool
	MaxSize  int // Max file size in MB before rotation (0 = lumberjack default)
}

// ParseLogLevel parses a log level name. An empty name means info.
func ParseLogLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "info", "":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "disabled", "off":
		return zerolog.Disabled, nil
	default:
		return zerolog.InfoLevel, fmt.Errorf("invalid log level: %s", s)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New creates a logger writing to cfg.FilePath, or to stderr when no file is set.
// The returned closer releases the log file.
func New(cfg LoggerConfig, stderr io.Writer) (zerolog.Logger, io.Closer, error) {
	level, err := ParseLogLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	var (
		out    io.Writer = stderr
		closer io.Closer = nopCloser{}
	)
	if cfg.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0700); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize, // MB
			MaxBackups: keepRotated,
		}
		out, closer = f, f
	}

	if !cfg.JSONMode {
		out = zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    cfg.FilePath != "" || !isTerminal(stderr),
			TimeFormat: time.RFC3339,
		}
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return logger, closer, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
