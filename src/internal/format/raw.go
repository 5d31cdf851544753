// FILE: logfan/src/internal/format/raw.go
package format

import (
	"strings"

	"logfan/src/internal/core"

	"github.com/lixenwraith/log"
)

// Passes the message through untouched, normalized to exactly one
// trailing newline. Metadata fields are not rendered.
type RawFormatter struct {
	logger *log.Logger
}

func NewRawFormatter(options map[string]any, logger *log.Logger) (*RawFormatter, error) {
	return &RawFormatter{logger: logger}, nil
}

func (f *RawFormatter) Format(entry core.Entry) ([]byte, error) {
	msg := strings.TrimRight(entry.Message, "\n")
	buf := make([]byte, 0, len(msg)+1)
	buf = append(buf, msg...)
	return append(buf, '\n'), nil
}

func (f *RawFormatter) Name() string {
	return "raw"
}
