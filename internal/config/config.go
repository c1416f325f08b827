// Package config holds server settings.
//
// Values are layered, each level overriding the previous one:
//  1. built-in defaults (New)
//  2. TOML config file (--config, or taskboard.toml in the working directory)
//  3. .env file (--env-file, or .env in the working directory); it never
//     overrides variables already present in the environment
//  4. TASKBOARD_* environment variables (PORT is honored as well)
//  5. CLI flags, applied by the caller
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	DefaultConfigFile = "taskboard.toml"
	DefaultEnvFile    = ".env"
)

type Config struct {
	HTTPAddr          string
	APIPrefix         string
	DocsPath          string
	TasksFile         string
	CORSOrigin        string
	ServeClient       bool
	LogLevel          string
	LogFormat         string
	ShutdownTimeout   time.Duration
	ReadHeaderTimeout time.Duration
}

func New() Config {
	return Config{
		HTTPAddr:          ":3000",
		APIPrefix:         "/api",
		DocsPath:          "/api-docs",
		TasksFile:         "tasks.json",
		CORSOrigin:        "http://localhost:5173",
		ServeClient:       true,
		LogLevel:          "info",
		LogFormat:         "text",
		ShutdownTimeout:   time.Second * 10,
		ReadHeaderTimeout: time.Second * 5,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return fmt.Errorf("%w: http addr is empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.TasksFile) == "" {
		return fmt.Errorf("%w: tasks file is empty", ErrInvalidConfig)
	}
	if !strings.HasPrefix(c.APIPrefix, "/") {
		return fmt.Errorf("%w: api prefix %q must start with /", ErrInvalidConfig, c.APIPrefix)
	}
	if !strings.HasPrefix(c.DocsPath, "/") || strings.Trim(c.DocsPath, "/") == "" {
		return fmt.Errorf("%w: docs path %q must start with / and name a path", ErrInvalidConfig, c.DocsPath)
	}
	if c.CORSOrigin == "" {
		return fmt.Errorf("%w: cors origin is empty", ErrInvalidConfig)
	}
	if c.CORSOrigin != "*" && !strings.HasPrefix(c.CORSOrigin, "http://") && !strings.HasPrefix(c.CORSOrigin, "https://") {
		return fmt.Errorf("%w: cors origin %q must be * or an http(s) origin", ErrInvalidConfig, c.CORSOrigin)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: shutdown timeout must be positive", ErrInvalidConfig)
	}
	if c.ReadHeaderTimeout <= 0 {
		return fmt.Errorf("%w: read header timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// NormalizedPrefix returns the API prefix without a trailing slash.
// "/" becomes "" so routes mount at the root.
func (c Config) NormalizedPrefix() string {
	return strings.TrimRight(c.APIPrefix, "/")
}
