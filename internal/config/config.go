package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"
)

// Config holds runtime settings for the binaries.
type Config struct {
	Addr            string
	LogLevel        string
	LogFormat       string // "console" or "json"
	LogFile         string // optional file tee'd alongside stderr
	Heartbeat       time.Duration
	ShutdownTimeout time.Duration
}

// Default returns settings for local play.
func Default() Config {
	return Config{
		Addr:            ":8080",
		LogLevel:        "info",
		LogFormat:       "console",
		Heartbeat:       15 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Load parses args on top of Default. Environment variables override the
// defaults and flags override the environment.
func Load(name string, args []string, output io.Writer) (Config, error) {
	return LoadFrom(Default(), name, args, output)
}

// LoadFrom is Load with caller-supplied defaults.
func LoadFrom(base Config, name string, args []string, output io.Writer) (Config, error) {
	cfg := base
	cfg.applyEnv(os.LookupEnv)

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (console, json)")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "also append logs to this file")
	fs.DurationVar(&cfg.Heartbeat, "heartbeat", cfg.Heartbeat, "event stream heartbeat interval")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "graceful shutdown timeout")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("TTT_ADDR"); ok && v != "" {
		c.Addr = v
	}
	if v, ok := lookup("TTT_LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup("TTT_LOG_FORMAT"); ok && v != "" {
		c.LogFormat = v
	}
	if v, ok := lookup("TTT_LOG_FILE"); ok {
		c.LogFile = v
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if c.Heartbeat <= 0 {
		return fmt.Errorf("heartbeat must be positive, got %s", c.Heartbeat)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown timeout must not be negative, got %s", c.ShutdownTimeout)
	}
	return nil
}
