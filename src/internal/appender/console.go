// FILE: logfan/src/internal/appender/console.go
package appender

import (
	"fmt"
	"io"
	"os"
	"sync"

	"logfan/src/internal/core"
	"logfan/src/internal/format"

	"github.com/lixenwraith/log"
)

// ConsoleAppender writes formatted entries to stdout or stderr.
type ConsoleAppender struct {
	name      string
	mu        sync.Mutex
	output    io.Writer
	formatter format.Formatter
	logger    *log.Logger
}

// NewConsoleAppender creates a console appender. Options: "target"
// ("stdout" or "stderr", default stdout).
func NewConsoleAppender(name string, options map[string]any, logger *log.Logger, formatter format.Formatter) (*ConsoleAppender, error) {
	output := io.Writer(os.Stdout)
	if target, ok := options["target"].(string); ok {
		switch target {
		case "stdout", "":
			output = os.Stdout
		case "stderr":
			output = os.Stderr
		default:
			return nil, fmt.Errorf("invalid console target: %s", target)
		}
	}

	return &ConsoleAppender{
		name:      name,
		output:    output,
		formatter: formatter,
		logger:    logger,
	}, nil
}

func (a *ConsoleAppender) Name() string {
	return a.name
}

func (a *ConsoleAppender) Log(entry core.Entry) error {
	formatted, err := a.formatter.Format(entry)
	if err != nil {
		return fmt.Errorf("failed to format entry: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, err := a.output.Write(formatted); err != nil {
		return fmt.Errorf("failed to write entry: %w", err)
	}
	return nil
}

// Flush is a no-op: console writes are unbuffered.
func (a *ConsoleAppender) Flush() error {
	return nil
}

func (a *ConsoleAppender) Close() error {
	return nil
}
