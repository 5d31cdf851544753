// FILE: logfan/src/internal/appender/gelf.go
package appender

import (
	"encoding/json"
	"fmt"
	"os"

	"logfan/src/internal/core"

	"github.com/lixenwraith/log"
	"gopkg.in/Graylog2/go-gelf.v2/gelf"
)

// GelfAppender ships entries to a Graylog server over UDP or TCP. It
// does its own wire encoding and ignores the configured entry format.
type GelfAppender struct {
	name     string
	writer   gelf.Writer
	hostName string
	logger   *log.Logger
}

// NewGelfAppender creates a GELF appender. Options: "host" (required),
// "port" (required), "protocol" ("udp" default, or "tcp"),
// "compression" ("none" default, "gzip", "zlib"; UDP only).
func NewGelfAppender(name string, options map[string]any, logger *log.Logger) (*GelfAppender, error) {
	host, ok := options["host"].(string)
	if !ok || host == "" {
		return nil, fmt.Errorf("gelf appender requires a host")
	}
	port, ok := toInt(options["port"])
	if !ok || port < 1 || port > 65535 {
		return nil, fmt.Errorf("gelf appender requires a valid port")
	}

	hostName, err := os.Hostname()
	if err != nil {
		hostName = "unknown"
		logger.Warn("msg", "Failed to get hostname",
			"component", "gelf_appender",
			"error", err)
	}

	addr := fmt.Sprintf("%s:%d", host, port)

	var writer gelf.Writer
	protocol, _ := options["protocol"].(string)
	if protocol == "tcp" {
		tcpWriter, err := gelf.NewTCPWriter(addr)
		if err != nil {
			return nil, fmt.Errorf("failed to create GELF TCP writer: %w", err)
		}
		writer = tcpWriter
	} else {
		udpWriter, err := gelf.NewUDPWriter(addr)
		if err != nil {
			return nil, fmt.Errorf("failed to create GELF UDP writer: %w", err)
		}
		compression, _ := options["compression"].(string)
		switch compression {
		case "gzip":
			udpWriter.CompressionType = gelf.CompressGzip
		case "zlib":
			udpWriter.CompressionType = gelf.CompressZlib
		default:
			udpWriter.CompressionType = gelf.CompressNone
		}
		writer = udpWriter
	}

	return &GelfAppender{
		name:     name,
		writer:   writer,
		hostName: hostName,
		logger:   logger,
	}, nil
}

func (a *GelfAppender) Name() string {
	return a.name
}

func (a *GelfAppender) Log(entry core.Entry) error {
	msg := &gelf.Message{
		Version:  "1.1",
		Host:     a.hostName,
		Short:    entry.Message,
		TimeUnix: float64(entry.Time.Unix()) + float64(entry.Time.Nanosecond())/1e9,
		Level:    syslogLevel(entry.Level),
		Extra:    map[string]any{},
	}

	if entry.Source != "" {
		msg.Extra["_source"] = entry.Source
	}
	if entry.Error != "" {
		msg.Extra["_error"] = entry.Error
	}

	if len(entry.Fields) > 0 {
		var fields map[string]any
		if err := json.Unmarshal(entry.Fields, &fields); err != nil {
			a.logger.Debug("msg", "Entry fields are not a JSON object, skipping",
				"component", "gelf_appender",
				"error", err)
		} else {
			for k, v := range fields {
				// GELF additional fields must start with an underscore
				extraKey := k
				if extraKey == "" || extraKey[0] != '_' {
					extraKey = "_" + extraKey
				}
				switch v := v.(type) {
				case string, float64, bool:
					msg.Extra[extraKey] = v
				default:
					msg.Extra[extraKey] = fmt.Sprintf("%v", v)
				}
			}
		}
	}

	if err := a.writer.WriteMessage(msg); err != nil {
		return fmt.Errorf("failed to send GELF message: %w", err)
	}
	return nil
}

// Flush is a no-op: messages are sent as they arrive.
func (a *GelfAppender) Flush() error {
	return nil
}

func (a *GelfAppender) Close() error {
	return a.writer.Close()
}

// syslogLevel maps entry level names to syslog severities.
func syslogLevel(level string) int32 {
	switch level {
	case "ERROR", "FATAL":
		return 3
	case "WARN", "WARNING":
		return 4
	case "INFO", "":
		return 6
	case "DEBUG", "TRACE":
		return 7
	default:
		return 6
	}
}
