// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds configuration shared by the doc2pdf packages.
package types

import (
	"runtime"
	"time"
)

// ServerConfig holds settings for the HTTP conversion endpoint.
type ServerConfig struct {
	// Addr is the listen address (default ":3000").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// MaxBodySize caps the serialized JSON request body in bytes (default 50 MB).
	MaxBodySize int64 `json:"max_body_size" yaml:"max_body_size" mapstructure:"max_body_size"`

	// ShutdownTimeout bounds how long in-flight requests may run after a
	// termination signal (default 30s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// ConversionBackend identifies the engine that renders documents to PDF.
type ConversionBackend string

const (
	BackendSoffice   ConversionBackend = "soffice"
	BackendGotenberg ConversionBackend = "gotenberg"
)

// ConversionConfig holds settings for the conversion engine.
type ConversionConfig struct {
	// Backend selects the engine: soffice or gotenberg.
	Backend ConversionBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// WorkDir is the parent of the per-request staging directories (default "tmp").
	WorkDir string `json:"work_dir" yaml:"work_dir" mapstructure:"work_dir"`

	// Timeout bounds a single conversion. Zero disables the bound.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// MaxConcurrent limits simultaneous engine invocations (default NumCPU).
	MaxConcurrent int `json:"max_concurrent" yaml:"max_concurrent" mapstructure:"max_concurrent"`

	// SofficePath overrides soffice binary detection.
	SofficePath string `json:"soffice_path,omitempty" yaml:"soffice_path,omitempty" mapstructure:"soffice_path"`

	// GotenbergURL is the base URL of a Gotenberg instance, used by the
	// gotenberg backend (e.g. "http://localhost:3001").
	GotenbergURL string `json:"gotenberg_url,omitempty" yaml:"gotenberg_url,omitempty" mapstructure:"gotenberg_url"`

	// SecretsDir holds credential files for the gotenberg backend (default ".secrets").
	SecretsDir string `json:"secrets_dir" yaml:"secrets_dir" mapstructure:"secrets_dir"`
}

// LoggingConfig holds settings for the console and file log sinks.
type LoggingConfig struct {
	// Level is the minimum severity for both sinks (default "debug").
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Dir receives the rotated application-YYYY-MM-DD.log files (default "logs").
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MaxSizeMB forces an out-of-cycle rotation once a file exceeds it (default 20).
	MaxSizeMB int `json:"max_size_mb" yaml:"max_size_mb" mapstructure:"max_size_mb"`

	// MaxAgeDays prunes log files older than this many days (default 60).
	MaxAgeDays int `json:"max_age_days" yaml:"max_age_days" mapstructure:"max_age_days"`

	// Compress gzips rotated files (default true).
	Compress bool `json:"compress" yaml:"compress" mapstructure:"compress"`

	// DisableFile turns the file sink off; the console sink is always on.
	DisableFile bool `json:"disable_file" yaml:"disable_file" mapstructure:"disable_file"`
}

// Config groups all settings for the service.
type Config struct {
	Server     ServerConfig     `json:"server" yaml:"server" mapstructure:"server"`
	Conversion ConversionConfig `json:"conversion" yaml:"conversion" mapstructure:"conversion"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging" mapstructure:"logging"`
}

// DefaultConfig returns the configuration used when no file or environment
// override is present.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":3000",
			MaxBodySize:     50 << 20,
			ShutdownTimeout: 30 * time.Second,
		},
		Conversion: ConversionConfig{
			Backend:       BackendSoffice,
			WorkDir:       "tmp",
			Timeout:       5 * time.Minute,
			MaxConcurrent: runtime.NumCPU(),
			SecretsDir:    ".secrets",
		},
		Logging: LoggingConfig{
			Level:      "debug",
			Dir:        "logs",
			MaxSizeMB:  20,
			MaxAgeDays: 60,
			Compress:   true,
		},
	}
}
