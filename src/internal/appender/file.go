// FILE: logfan/src/internal/appender/file.go
package appender

import (
	"fmt"
	"io"
	"os"
	"sync"

	"logfan/src/internal/core"
	"logfan/src/internal/format"

	"github.com/lixenwraith/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileAppender writes formatted entries to a single file, with optional
// size/age based rotation through lumberjack.
type FileAppender struct {
	name      string
	mu        sync.Mutex
	writer    io.WriteCloser
	file      *os.File // non-nil only without rotation; Sync target for Flush
	formatter format.Formatter
	logger    *log.Logger
}

// NewFileAppender creates a file appender. Options: "path" (required),
// "max_size_mb", "max_backups", "max_age_days", "compress". Any
// rotation option enables lumberjack; otherwise a plain append-only
// file is used.
func NewFileAppender(name string, options map[string]any, logger *log.Logger, formatter format.Formatter) (*FileAppender, error) {
	path, ok := options["path"].(string)
	if !ok || path == "" {
		return nil, fmt.Errorf("file appender requires a path")
	}

	maxSizeMB, _ := toInt(options["max_size_mb"])
	maxBackups, _ := toInt(options["max_backups"])
	maxAgeDays, _ := toInt(options["max_age_days"])
	compress, _ := options["compress"].(bool)

	a := &FileAppender{
		name:      name,
		formatter: formatter,
		logger:    logger,
	}

	if maxSizeMB > 0 || maxBackups > 0 || maxAgeDays > 0 {
		a.writer = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   compress,
			LocalTime:  false,
		}
		logger.Info("msg", "File appender using rotation",
			"component", "file_appender",
			"appender", name,
			"path", path,
			"max_size_mb", maxSizeMB)
	} else {
		file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
		}
		a.writer = file
		a.file = file
	}

	return a, nil
}

func (a *FileAppender) Name() string {
	return a.name
}

func (a *FileAppender) Log(entry core.Entry) error {
	formatted, err := a.formatter.Format(entry)
	if err != nil {
		return fmt.Errorf("failed to format entry: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.writer == nil {
		return fmt.Errorf("file appender closed")
	}
	if _, err := a.writer.Write(formatted); err != nil {
		return fmt.Errorf("failed to write entry: %w", err)
	}
	return nil
}

// Flush syncs the plain file to disk. Lumberjack writes through an
// unbuffered file handle, so there is nothing extra to do when rotation
// is enabled.
func (a *FileAppender) Flush() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.file != nil {
		return a.file.Sync()
	}
	return nil
}

func (a *FileAppender) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.writer == nil {
		return nil
	}
	err := a.writer.Close()
	a.writer = nil
	a.file = nil
	return err
}

// toInt widens the numeric types TOML options arrive as.
func toInt(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		return int(val), true
	default:
		return 0, false
	}
}
