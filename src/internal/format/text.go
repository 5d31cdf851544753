// FILE: logfan/src/internal/format/text.go
package format

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"logfan/src/internal/core"

	"github.com/lixenwraith/log"
)

const (
	defaultTextTemplate    = "[{{FmtTime .Timestamp}}] [{{.Level}}] {{.Source}} - {{.Message}}"
	defaultTimestampFormat = time.RFC3339
)

// Produces human-readable text logs using templates
type TextFormatter struct {
	template        *template.Template
	timestampFormat string
	logger          *log.Logger
}

// Creates a new text formatter. Options: "template", "timestamp_format".
func NewTextFormatter(options map[string]any, logger *log.Logger) (*TextFormatter, error) {
	f := &TextFormatter{
		timestampFormat: defaultTimestampFormat,
		logger:          logger,
	}

	if tsFormat, ok := options["timestamp_format"].(string); ok && tsFormat != "" {
		f.timestampFormat = tsFormat
	}

	templateStr := defaultTextTemplate
	if tmplOpt, ok := options["template"].(string); ok && tmplOpt != "" {
		templateStr = tmplOpt
	}

	funcMap := template.FuncMap{
		"FmtTime": func(t time.Time) string {
			return t.Format(f.timestampFormat)
		},
		"ToUpper":   strings.ToUpper,
		"ToLower":   strings.ToLower,
		"TrimSpace": strings.TrimSpace,
	}

	tmpl, err := template.New("log").Funcs(funcMap).Parse(templateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}

	f.template = tmpl
	return f, nil
}

// Formats the log entry using the template
func (f *TextFormatter) Format(entry core.Entry) ([]byte, error) {
	data := map[string]any{
		"Timestamp": entry.Time,
		"Level":     entry.Level,
		"Source":    entry.Source,
		"Message":   entry.Message,
		"Error":     entry.Error,
	}

	if data["Level"] == "" {
		data["Level"] = "INFO"
	}

	if len(entry.Fields) > 0 {
		data["Fields"] = string(entry.Fields)
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		// Fallback: return a basic formatted message
		f.logger.Debug("msg", "Template execution failed, using fallback",
			"component", "text_formatter",
			"error", err)

		fallback := fmt.Sprintf("[%s] [%s] %s - %s\n",
			entry.Time.Format(f.timestampFormat),
			strings.ToUpper(entry.Level),
			entry.Source,
			entry.Message)
		return []byte(fallback), nil
	}

	result := buf.Bytes()
	if len(result) == 0 || result[len(result)-1] != '\n' {
		result = append(result, '\n')
	}

	return result, nil
}

// Returns the formatter name
func (f *TextFormatter) Name() string {
	return "txt"
}
