// FILE: logfan/src/cmd/logfan/reader.go
package main

import (
	"bufio"
	"context"
	"os"
	"time"

	"logfan/src/internal/core"
	"logfan/src/internal/dispatch"
)

// runReader feeds stdin lines into the dispatcher until EOF or context
// cancellation. Each line becomes one entry stamped at read time.
func runReader(ctx context.Context, dispatcher *dispatch.Dispatcher, source string) {
	scanner := bufio.NewScanner(os.Stdin)
	// Allow long application log lines
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := scanner.Text()
		if line == "" {
			continue
		}

		dispatcher.Dispatch(core.Entry{
			Time:    time.Now(),
			Source:  source,
			Level:   core.ExtractLevel(line),
			Message: line,
		})
	}

	if err := scanner.Err(); err != nil {
		logger.Error("msg", "Scanner error reading stdin",
			"component", "reader",
			"error", err)
	}
}
