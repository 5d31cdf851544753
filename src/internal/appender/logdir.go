// FILE: logfan/src/internal/appender/logdir.go
package appender

import (
	"bytes"
	"fmt"
	"time"

	"logfan/src/internal/core"
	"logfan/src/internal/format"

	"github.com/lixenwraith/log"
)

// LogDirAppender writes formatted entries into a managed log directory:
// a dedicated log.Logger instance handles rotation, retention, and disk
// space limits.
type LogDirAppender struct {
	name      string
	writer    *log.Logger // dedicated writer instance, not the operational logger
	formatter format.Formatter
	logger    *log.Logger
}

// NewLogDirAppender creates a directory-backed appender. Options:
// "directory" (required), "filename", "max_size_mb",
// "max_total_size_mb", "retention_hours", "min_disk_free_mb".
func NewLogDirAppender(name string, options map[string]any, logger *log.Logger, formatter format.Formatter) (*LogDirAppender, error) {
	directory, ok := options["directory"].(string)
	if !ok || directory == "" {
		return nil, fmt.Errorf("logdir appender requires a directory")
	}

	filename, ok := options["filename"].(string)
	if !ok || filename == "" {
		filename = "logfan.output"
	}

	writerConfig := log.DefaultConfig()
	writerConfig.Directory = directory
	writerConfig.Name = filename
	writerConfig.EnableConsole = false
	// Entries already carry their own timestamps and levels
	writerConfig.ShowTimestamp = false
	writerConfig.ShowLevel = false

	if maxSize, ok := toInt(options["max_size_mb"]); ok && maxSize > 0 {
		writerConfig.MaxSizeKB = int64(maxSize) * 1000
	}
	if maxTotalSize, ok := toInt(options["max_total_size_mb"]); ok && maxTotalSize >= 0 {
		writerConfig.MaxTotalSizeKB = int64(maxTotalSize) * 1000
	}
	if retention, ok := toInt(options["retention_hours"]); ok && retention > 0 {
		writerConfig.RetentionPeriodHrs = float64(retention)
	}
	if minDiskFree, ok := toInt(options["min_disk_free_mb"]); ok && minDiskFree > 0 {
		writerConfig.MinDiskFreeKB = int64(minDiskFree) * 1000
	}

	writer := log.NewLogger()
	if err := writer.ApplyConfig(writerConfig); err != nil {
		return nil, fmt.Errorf("failed to initialize directory writer: %w", err)
	}
	if err := writer.Start(); err != nil {
		return nil, fmt.Errorf("failed to start directory writer: %w", err)
	}

	return &LogDirAppender{
		name:      name,
		writer:    writer,
		formatter: formatter,
		logger:    logger,
	}, nil
}

func (a *LogDirAppender) Name() string {
	return a.name
}

func (a *LogDirAppender) Log(entry core.Entry) error {
	formatted, err := a.formatter.Format(entry)
	if err != nil {
		return fmt.Errorf("failed to format entry: %w", err)
	}

	// String conversion prevents hex encoding of []byte by the writer;
	// the writer appends the newline itself.
	message := string(bytes.TrimSuffix(formatted, []byte{'\n'}))
	a.writer.Message(message)
	return nil
}

func (a *LogDirAppender) Flush() error {
	return a.writer.Flush(2 * time.Second)
}

func (a *LogDirAppender) Close() error {
	return a.writer.Shutdown(2 * time.Second)
}
