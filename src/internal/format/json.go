// FILE: logfan/src/internal/format/json.go
package format

import (
	"encoding/json"
	"fmt"
	"time"

	"logfan/src/internal/core"

	"github.com/lixenwraith/log"
)

// JSONFormatter produces one structured JSON object per entry.
type JSONFormatter struct {
	pretty bool
	logger *log.Logger
}

// NewJSONFormatter creates a new JSON formatter. Options: "pretty".
func NewJSONFormatter(options map[string]any, logger *log.Logger) (*JSONFormatter, error) {
	f := &JSONFormatter{
		logger: logger,
	}

	if pretty, ok := options["pretty"].(bool); ok {
		f.pretty = pretty
	}

	return f, nil
}

// Format transforms a single entry into a JSON byte slice.
func (f *JSONFormatter) Format(entry core.Entry) ([]byte, error) {
	output := map[string]any{
		"time":    entry.Time.Format(time.RFC3339Nano),
		"source":  entry.Source,
		"message": entry.Message,
	}
	if entry.Level != "" {
		output["level"] = entry.Level
	}
	if entry.Error != "" {
		output["error"] = entry.Error
	}

	// Merge structured payload fields without overriding the standard
	// ones.
	if len(entry.Fields) > 0 {
		var fields map[string]any
		if err := json.Unmarshal(entry.Fields, &fields); err == nil {
			for k, v := range fields {
				if _, exists := output[k]; !exists {
					output[k] = v
				}
			}
		} else {
			f.logger.Debug("msg", "Entry fields are not a JSON object, skipping merge",
				"component", "json_formatter",
				"error", err)
		}
	}

	var result []byte
	var err error
	if f.pretty {
		result, err = json.MarshalIndent(output, "", "  ")
	} else {
		result, err = json.Marshal(output)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return append(result, '\n'), nil
}

// Name returns the formatter's type name.
func (f *JSONFormatter) Name() string {
	return "json"
}
