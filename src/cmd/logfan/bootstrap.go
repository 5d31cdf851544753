// FILE: logfan/src/cmd/logfan/bootstrap.go
package main

import (
	"fmt"
	"strings"
	"time"

	"logfan/src/internal/appender"
	"logfan/src/internal/config"
	"logfan/src/internal/dispatch"

	"github.com/lixenwraith/log"
)

// bootstrap creates the dispatcher and its configured appenders. A
// single failing appender is skipped; startup fails only when nothing
// can be delivered at all.
func bootstrap(cfg *config.Config) (*dispatch.Dispatcher, []appender.Appender, error) {
	dispatcher := dispatch.New(dispatch.Config{
		LagCheckInterval:    cfg.Dispatch.LagCheckInterval,
		LagThreshold:        time.Duration(cfg.Dispatch.LagThresholdSeconds) * time.Second,
		FailureLogPerSecond: cfg.Dispatch.FailureLogPerSecond,
	}, logger)

	var appenders []appender.Appender
	for _, appCfg := range cfg.Appenders {
		if !appCfg.Enabled {
			continue
		}

		a, err := appender.New(appCfg, logger)
		if err != nil {
			logger.Error("msg", "Failed to initialize appender",
				"appender", appCfg.Name,
				"type", appCfg.Type,
				"error", err)
			continue
		}

		dispatcher.AddAppender(a)
		appenders = append(appenders, a)
		logger.Info("msg", "Appender registered",
			"appender", appCfg.Name,
			"type", appCfg.Type)
	}

	if len(appenders) == 0 {
		return nil, nil, fmt.Errorf("no appenders successfully started (attempted %d)", len(cfg.Appenders))
	}

	if err := dispatcher.Start(); err != nil {
		return nil, nil, fmt.Errorf("failed to start dispatch worker: %w", err)
	}

	logger.Info("msg", "logfan started",
		"appenders", len(appenders))

	return dispatcher, appenders, nil
}

// initializeLogger sets up the operational logger based on configuration
func initializeLogger(cfg *config.Config, quiet bool) error {
	logger = log.NewLogger()

	var configArgs []string

	if quiet {
		// In quiet mode, disable ALL operational output
		configArgs = append(configArgs,
			"disable_file=true",
			"enable_stdout=false",
			"level=255")

		if err := logger.ApplyConfigString(configArgs...); err != nil {
			return err
		}
		return logger.Start()
	}

	levelValue, err := parseLogLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	configArgs = append(configArgs, fmt.Sprintf("level=%d", levelValue))

	switch cfg.Logging.Output {
	case "none":
		configArgs = append(configArgs, "disable_file=true", "enable_stdout=false")

	case "stdout":
		configArgs = append(configArgs,
			"disable_file=true",
			"enable_stdout=true",
			"stdout_target=stdout")

	case "stderr":
		configArgs = append(configArgs,
			"disable_file=true",
			"enable_stdout=true",
			"stdout_target=stderr")

	case "file":
		configArgs = append(configArgs, "enable_stdout=false")
		configureFileLogging(&configArgs, cfg)

	case "both":
		configArgs = append(configArgs,
			"enable_stdout=true",
			"stdout_target=stderr")
		configureFileLogging(&configArgs, cfg)

	default:
		return fmt.Errorf("invalid log output mode: %s", cfg.Logging.Output)
	}

	if err := logger.ApplyConfigString(configArgs...); err != nil {
		return err
	}
	return logger.Start()
}

// configureFileLogging sets up file-based logging parameters
func configureFileLogging(configArgs *[]string, cfg *config.Config) {
	if cfg.Logging.File != nil {
		*configArgs = append(*configArgs,
			fmt.Sprintf("directory=%s", cfg.Logging.File.Directory),
			fmt.Sprintf("name=%s", cfg.Logging.File.Name),
			fmt.Sprintf("max_size_mb=%d", cfg.Logging.File.MaxSizeMB),
			fmt.Sprintf("max_total_size_mb=%d", cfg.Logging.File.MaxTotalSizeMB))

		if cfg.Logging.File.RetentionHours > 0 {
			*configArgs = append(*configArgs,
				fmt.Sprintf("retention_period_hrs=%.1f", cfg.Logging.File.RetentionHours))
		}
	}
}

func parseLogLevel(level string) (int, error) {
	switch strings.ToLower(level) {
	case "debug":
		return int(log.LevelDebug), nil
	case "info":
		return int(log.LevelInfo), nil
	case "warn", "warning":
		return int(log.LevelWarn), nil
	case "error":
		return int(log.LevelError), nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", level)
	}
}
