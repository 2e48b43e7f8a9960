// Package config provides YAML-based configuration for sprintfang.
package config

import (
	"errors"
	"log/slog"
)

// Config is the top-level configuration struct for sprintfang.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Server    ServerConfig    `mapstructure:"server"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// DataConfig locates the precomputed sprint metrics document.
type DataConfig struct {
	// Source is a filesystem path or an http(s) URL to the document.
	Source string `mapstructure:"source"`

	// Timeout is the HTTP fetch timeout in seconds. Ignored for file sources.
	Timeout int `mapstructure:"timeout"`
}

// ServerConfig holds HTTP server settings for serve mode.
type ServerConfig struct {
	Listen string `mapstructure:"listen"`
	Title  string `mapstructure:"title"`
}

// DashboardConfig holds presentation settings.
type DashboardConfig struct {
	Theme string `mapstructure:"theme"`
}

// TelemetryConfig holds OTel export and logging settings.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	Insecure     bool    `mapstructure:"insecure"`
	Environment  string  `mapstructure:"environment"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	DebugTrace   bool    `mapstructure:"debug_trace"`
	LogLevel     string  `mapstructure:"log_level"`
	LogJSON      bool    `mapstructure:"log_json"`
}

// Valid dashboard themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Valid log levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// sampleRatioMax is the upper bound for the trace sampling ratio.
const sampleRatioMax = 1.0

// Sentinel errors for configuration validation.
var (
	// ErrEmptyDataSource indicates the data source is empty.
	ErrEmptyDataSource = errors.New("data.source must not be empty")
	// ErrInvalidDataTimeout indicates the fetch timeout is negative.
	ErrInvalidDataTimeout = errors.New("data.timeout must be non-negative")
	// ErrEmptyListenAddr indicates the server listen address is empty.
	ErrEmptyListenAddr = errors.New("server.listen must not be empty")
	// ErrInvalidTheme indicates the dashboard theme is unknown.
	ErrInvalidTheme = errors.New("dashboard.theme must be light or dark")
	// ErrInvalidSampleRatio indicates the sampling ratio is out of range.
	ErrInvalidSampleRatio = errors.New("telemetry.sample_ratio must be between 0 and 1")
	// ErrInvalidLogLevel indicates the log level is unknown.
	ErrInvalidLogLevel = errors.New("telemetry.log_level must be debug, info, warn, or error")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	dataErr := c.validateData()
	if dataErr != nil {
		return dataErr
	}

	serverErr := c.validateServer()
	if serverErr != nil {
		return serverErr
	}

	return c.validateTelemetry()
}

func (c *Config) validateData() error {
	if c.Data.Source == "" {
		return ErrEmptyDataSource
	}

	if c.Data.Timeout < 0 {
		return ErrInvalidDataTimeout
	}

	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Listen == "" {
		return ErrEmptyListenAddr
	}

	if c.Dashboard.Theme != ThemeLight && c.Dashboard.Theme != ThemeDark {
		return ErrInvalidTheme
	}

	return nil
}

func (c *Config) validateTelemetry() error {
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > sampleRatioMax {
		return ErrInvalidSampleRatio
	}

	switch c.Telemetry.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	default:
		return ErrInvalidLogLevel
	}
}

// SlogLevel maps the configured log level onto an [slog.Level].
// Unknown values fall back to info.
func (tc TelemetryConfig) SlogLevel() slog.Level {
	switch tc.LogLevel {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
