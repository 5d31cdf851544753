// FILE: logfan/src/internal/core/types.go
package core

import (
	"encoding/json"
	"time"
)

// Entry is a single log record handed to the dispatcher. It is treated
// as immutable once created: the dispatcher shares one value across all
// appenders of a delivery pass and never modifies it.
type Entry struct {
	Time    time.Time       `json:"time"`
	Level   string          `json:"level,omitempty"`
	Source  string          `json:"source"`
	Message string          `json:"message"`
	Fields  json.RawMessage `json:"fields,omitempty"`
	Error   string          `json:"error,omitempty"`
}
