// FILE: logfan/src/cmd/logfan/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"logfan/src/internal/config"
	"logfan/src/internal/version"

	"github.com/lixenwraith/log"
)

var logger *log.Logger

func main() {
	flagCfg, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if flagCfg.showVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	if flagCfg.configFile != "" {
		os.Setenv("LOGFAN_CONFIG_FILE", flagCfg.configFile)
	}

	cfg, err := config.LoadWithCLI(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := initializeLogger(cfg, flagCfg.quiet); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer shutdownLogger()

	logger.Info("msg", "logfan starting",
		"version", version.String(),
		"config_file", flagCfg.configFile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher, appenders, err := bootstrap(cfg)
	if err != nil {
		logger.Error("msg", "Failed to bootstrap", "error", err)
		os.Exit(1)
	}

	// EOF on stdin ends the run without a signal
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		runReader(ctx, dispatcher, flagCfg.source)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

loop:
	for {
		select {
		case sig := <-sigChan:
			switch sig {
			case syscall.SIGHUP:
				logger.Info("msg", "Flush signal received")
				if !dispatcher.Flush() {
					logger.Warn("msg", "Nothing to flush - no worker running")
				}
			default:
				logger.Info("msg", "Shutdown signal received, starting graceful shutdown...",
					"signal", sig)
				break loop
			}
		case <-readerDone:
			logger.Info("msg", "Input closed, shutting down")
			break loop
		}
	}
	cancel()

	// Deliver everything still queued before tearing down
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	done := make(chan struct{})
	go func() {
		dispatcher.Flush()
		dispatcher.Shutdown()
		for _, a := range appenders {
			if err := a.Close(); err != nil {
				logger.Warn("msg", "Error closing appender",
					"appender", a.Name(),
					"error", err)
			}
		}
		close(done)
	}()

	select {
	case <-done:
		logger.Info("msg", "Shutdown complete")
	case <-shutdownCtx.Done():
		logger.Error("msg", "Shutdown timeout exceeded - forcing exit")
		os.Exit(1)
	}
}

func shutdownLogger() {
	if logger != nil {
		if err := logger.Shutdown(2 * time.Second); err != nil {
			fmt.Fprintf(os.Stderr, "Logger shutdown error: %v\n", err)
		}
	}
}
