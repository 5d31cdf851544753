// FILE: logfan/src/cmd/logfan/flags.go
package main

import (
	"flag"
	"fmt"
	"os"
)

// Command-line flags
var (
	configFile  = flag.String("config", "", "Config file path")
	showVersion = flag.Bool("version", false, "Show version information")
	quiet       = flag.Bool("quiet", false, "Suppress all operational logging")
	source      = flag.String("source", "stdin", "Source name attached to dispatched entries")
)

type flagConfig struct {
	configFile  string
	showVersion bool
	quiet       bool
	source      string
}

func init() {
	flag.Usage = customUsage
}

func customUsage() {
	fmt.Fprintf(os.Stderr, "logfan - Asynchronous Multi-Appender Log Dispatcher\n\n")
	fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Reads log lines from stdin and dispatches them to the configured appenders.\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	fmt.Fprintf(os.Stderr, "  -config string\n\tConfig file path\n")
	fmt.Fprintf(os.Stderr, "  -version\n\tShow version information\n")
	fmt.Fprintf(os.Stderr, "  -quiet\n\tSuppress all operational logging\n")
	fmt.Fprintf(os.Stderr, "  -source string\n\tSource name attached to dispatched entries (default \"stdin\")\n")

	fmt.Fprintf(os.Stderr, "\nSignals:\n")
	fmt.Fprintf(os.Stderr, "  SIGHUP\tFlush all appenders\n")
	fmt.Fprintf(os.Stderr, "  SIGINT, SIGTERM\tFlush, then shut down\n")

	fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
	fmt.Fprintf(os.Stderr, "  LOGFAN_CONFIG_FILE  Config file path\n")
	fmt.Fprintf(os.Stderr, "  LOGFAN_CONFIG_DIR   Config directory\n")
}

func parseFlags() (*flagConfig, error) {
	flag.Parse()

	return &flagConfig{
		configFile:  *configFile,
		showVersion: *showVersion,
		quiet:       *quiet,
		source:      *source,
	}, nil
}
