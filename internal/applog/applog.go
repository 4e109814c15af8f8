// Package applog sets up file-backed logging. The TUI owns the terminal,
// so nothing is written to stderr while the program runs.
package applog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Open creates a logger appending to the given file, creating parent
// directories as needed. The returned closer flushes the file handle.
func Open(path string) (zerolog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := zerolog.New(f).With().Timestamp().Logger()
	return logger, f, nil
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
