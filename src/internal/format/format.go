// FILE: logfan/src/internal/format/format.go
package format

import (
	"fmt"

	"logfan/src/internal/core"

	"github.com/lixenwraith/log"
)

// Formatter transforms an Entry into the byte representation an
// appender writes out.
type Formatter interface {
	// Format returns the formatted entry, newline-terminated.
	Format(entry core.Entry) ([]byte, error)

	// Name returns the formatter type name
	Name() string
}

// New creates a Formatter by type name. An empty name selects raw.
func New(name string, options map[string]any, logger *log.Logger) (Formatter, error) {
	if name == "" {
		name = "raw"
	}

	switch name {
	case "json":
		return NewJSONFormatter(options, logger)
	case "txt", "text":
		return NewTextFormatter(options, logger)
	case "raw":
		return NewRawFormatter(options, logger)
	default:
		return nil, fmt.Errorf("unknown formatter type: %s", name)
	}
}
