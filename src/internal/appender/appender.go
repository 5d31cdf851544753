// FILE: logfan/src/internal/appender/appender.go
package appender

import (
	"fmt"

	"logfan/src/internal/config"
	"logfan/src/internal/core"
	"logfan/src/internal/format"

	"github.com/lixenwraith/log"
)

// Appender is an output destination for log entries. Implementations
// are called only from the dispatcher's single worker goroutine, but
// Flush and Close may also run from a shutting-down host, so they must
// be safe to call concurrently with Log.
type Appender interface {
	// Name identifies the appender in operational logs. Names carry no
	// uniqueness constraint.
	Name() string

	// Log writes one entry to the destination.
	Log(entry core.Entry) error

	// Flush forces buffered entries to the underlying medium. Whether
	// the data has physically persisted afterwards is the appender's
	// own contract.
	Flush() error

	// Close flushes and releases underlying resources.
	Close() error
}

// New is the factory for configured appenders.
func New(cfg config.AppenderConfig, logger *log.Logger) (Appender, error) {
	formatter, err := format.New(cfg.Format, cfg.Options, logger)
	if err != nil {
		return nil, fmt.Errorf("appender '%s': %w", cfg.Name, err)
	}

	switch cfg.Type {
	case "console":
		return NewConsoleAppender(cfg.Name, cfg.Options, logger, formatter)
	case "file":
		return NewFileAppender(cfg.Name, cfg.Options, logger, formatter)
	case "logdir":
		return NewLogDirAppender(cfg.Name, cfg.Options, logger, formatter)
	case "gelf":
		return NewGelfAppender(cfg.Name, cfg.Options, logger)
	default:
		return nil, fmt.Errorf("unknown appender type: %s", cfg.Type)
	}
}
