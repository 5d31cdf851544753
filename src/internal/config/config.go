// FILE: logfan/src/internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lconfig "github.com/lixenwraith/config"
)

type Config struct {
	Dispatch  DispatchConfig   `toml:"dispatch"`
	Logging   *LogConfig       `toml:"logging"`
	Appenders []AppenderConfig `toml:"appenders"`
}

// DispatchConfig tunes the delivery worker.
type DispatchConfig struct {
	// Delivered entries between lag checks
	LagCheckInterval int64 `toml:"lag_check_interval"`

	// Delivery delay in seconds that triggers a backlog warning
	LagThresholdSeconds int64 `toml:"lag_threshold_seconds"`

	// Cap on per-appender failure reports to the operational log
	FailureLogPerSecond float64 `toml:"failure_log_per_second"`
}

// AppenderConfig declares one output destination.
type AppenderConfig struct {
	// Appender identifier (used in operational logs)
	Name string `toml:"name"`

	// Appender type: "console", "file", "logdir", "gelf"
	Type string `toml:"type"`

	Enabled bool `toml:"enabled"`

	// Entry format: "raw", "txt", "json" (ignored by gelf)
	Format string `toml:"format"`

	// Type-specific configuration options
	Options map[string]any `toml:"options"`
}

func defaults() *Config {
	return &Config{
		Dispatch: DispatchConfig{
			LagCheckInterval:    5000,
			LagThresholdSeconds: 30,
			FailureLogPerSecond: 1,
		},
		Logging: DefaultLogConfig(),
		Appenders: []AppenderConfig{
			{
				Name:    "console",
				Type:    "console",
				Enabled: true,
				Format:  "txt",
			},
		},
	}
}

func LoadWithCLI(cliArgs []string) (*Config, error) {
	configPath := GetConfigPath()

	cfg, err := lconfig.NewBuilder().
		WithDefaults(defaults()).
		WithEnvPrefix("LOGFAN_").
		WithFile(configPath).
		WithArgs(cliArgs).
		WithSources(
			lconfig.SourceCLI,
			lconfig.SourceEnv,
			lconfig.SourceFile,
			lconfig.SourceDefault,
		).
		Build()

	if err != nil {
		if !strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	finalConfig := &Config{}
	if err := cfg.Scan(finalConfig); err != nil {
		return nil, fmt.Errorf("failed to scan config: %w", err)
	}

	return finalConfig, finalConfig.Validate()
}

func GetConfigPath() string {
	if configFile := os.Getenv("LOGFAN_CONFIG_FILE"); configFile != "" {
		if filepath.IsAbs(configFile) {
			return configFile
		}
		if configDir := os.Getenv("LOGFAN_CONFIG_DIR"); configDir != "" {
			return filepath.Join(configDir, configFile)
		}
		return configFile
	}

	if configDir := os.Getenv("LOGFAN_CONFIG_DIR"); configDir != "" {
		return filepath.Join(configDir, "logfan.toml")
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config", "logfan.toml")
	}

	return "logfan.toml"
}

func (c *Config) Validate() error {
	if c.Dispatch.LagCheckInterval < 1 {
		return fmt.Errorf("lag check interval must be positive: %d", c.Dispatch.LagCheckInterval)
	}

	if c.Dispatch.LagThresholdSeconds < 0 {
		return fmt.Errorf("lag threshold must not be negative: %d", c.Dispatch.LagThresholdSeconds)
	}

	if c.Dispatch.FailureLogPerSecond < 0 {
		return fmt.Errorf("failure log rate must not be negative: %f", c.Dispatch.FailureLogPerSecond)
	}

	if c.Logging != nil {
		if err := validateLogConfig(c.Logging); err != nil {
			return err
		}
	}

	enabled := 0
	for i, app := range c.Appenders {
		if err := validateAppender(i, &app); err != nil {
			return err
		}
		if app.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return fmt.Errorf("no appenders enabled")
	}

	return nil
}

func validateAppender(index int, cfg *AppenderConfig) error {
	if cfg.Name == "" {
		return fmt.Errorf("appender[%d]: missing name", index)
	}

	switch cfg.Type {
	case "console":
		if target, ok := cfg.Options["target"].(string); ok {
			if target != "stdout" && target != "stderr" {
				return fmt.Errorf("appender '%s': invalid console target: %s", cfg.Name, target)
			}
		}
	case "file":
		if _, ok := cfg.Options["path"].(string); !ok {
			return fmt.Errorf("appender '%s': file appender requires a path", cfg.Name)
		}
	case "logdir":
		if _, ok := cfg.Options["directory"].(string); !ok {
			return fmt.Errorf("appender '%s': logdir appender requires a directory", cfg.Name)
		}
	case "gelf":
		host, ok := cfg.Options["host"].(string)
		if !ok || host == "" {
			return fmt.Errorf("appender '%s': gelf appender requires a host", cfg.Name)
		}
		if port, ok := toInt(cfg.Options["port"]); !ok || port < 1 || port > 65535 {
			return fmt.Errorf("appender '%s': gelf appender requires a valid port", cfg.Name)
		}
	case "":
		return fmt.Errorf("appender[%d]: missing type", index)
	default:
		return fmt.Errorf("appender '%s': unknown type: %s", cfg.Name, cfg.Type)
	}

	validFormats := map[string]bool{
		"": true, "raw": true, "txt": true, "text": true, "json": true,
	}
	if !validFormats[cfg.Format] {
		return fmt.Errorf("appender '%s': invalid format: %s", cfg.Name, cfg.Format)
	}

	return nil
}

// toInt widens the numeric types TOML and env values arrive as.
func toInt(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		return int(val), true
	default:
		return 0, false
	}
}
