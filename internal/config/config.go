package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	DefaultRoom     string `mapstructure:"default_room" yaml:"default_room"`
	HistoryLimit    int    `mapstructure:"history_limit" yaml:"history_limit"`
	MaxPageSize     int    `mapstructure:"max_page_size" yaml:"max_page_size"`
	DefaultPageSize int    `mapstructure:"default_page_size" yaml:"default_page_size"`
	MaxTextLength   int    `mapstructure:"max_text_length" yaml:"max_text_length"`
	MaxAttachments  int    `mapstructure:"max_attachments" yaml:"max_attachments"`

	AllowedOrigins  []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	EventsPerSecond float64  `mapstructure:"events_per_second" yaml:"events_per_second"`
	EventsBurst     int      `mapstructure:"events_burst" yaml:"events_burst"`
	ClientBuffer    int      `mapstructure:"client_buffer" yaml:"client_buffer"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		LogFormat:         "console",
		DefaultRoom:       "global",
		HistoryLimit:      500,
		MaxPageSize:       100,
		DefaultPageSize:   20,
		MaxTextLength:     4000,
		MaxAttachments:    10,
		AllowedOrigins:    []string{"*"},
		EventsPerSecond:   20,
		EventsBurst:       40,
		ClientBuffer:      64,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		c.LogFormat = other.LogFormat
	}
	if other.DefaultRoom != "" {
		c.DefaultRoom = other.DefaultRoom
	}
	if other.HistoryLimit != 0 {
		c.HistoryLimit = other.HistoryLimit
	}
	if other.MaxPageSize != 0 {
		c.MaxPageSize = other.MaxPageSize
	}
	if other.DefaultPageSize != 0 {
		c.DefaultPageSize = other.DefaultPageSize
	}
	if other.MaxTextLength != 0 {
		c.MaxTextLength = other.MaxTextLength
	}
	if other.MaxAttachments != 0 {
		c.MaxAttachments = other.MaxAttachments
	}
	if len(other.AllowedOrigins) > 0 {
		c.AllowedOrigins = other.AllowedOrigins
	}
	if other.EventsPerSecond != 0 {
		c.EventsPerSecond = other.EventsPerSecond
	}
	if other.EventsBurst != 0 {
		c.EventsBurst = other.EventsBurst
	}
	if other.ClientBuffer != 0 {
		c.ClientBuffer = other.ClientBuffer
	}
}

// Validate reports every invalid value at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if strings.TrimSpace(c.DefaultRoom) == "" {
		errs = append(errs, errors.New("default_room must not be empty"))
	}
	if c.HistoryLimit <= 0 {
		errs = append(errs, fmt.Errorf("history_limit must be positive, got %d", c.HistoryLimit))
	}
	if c.MaxPageSize <= 0 {
		errs = append(errs, fmt.Errorf("max_page_size must be positive, got %d", c.MaxPageSize))
	}
	if c.DefaultPageSize <= 0 || c.DefaultPageSize > c.MaxPageSize {
		errs = append(errs, fmt.Errorf("default_page_size must be in 1..max_page_size, got %d", c.DefaultPageSize))
	}
	if c.MaxTextLength <= 0 {
		errs = append(errs, fmt.Errorf("max_text_length must be positive, got %d", c.MaxTextLength))
	}
	if c.MaxAttachments <= 0 {
		errs = append(errs, fmt.Errorf("max_attachments must be positive, got %d", c.MaxAttachments))
	}
	if c.EventsPerSecond < 0 || c.EventsBurst < 0 {
		errs = append(errs, errors.New("events_per_second and events_burst must not be negative"))
	}
	if c.ClientBuffer < 0 {
		errs = append(errs, fmt.Errorf("client_buffer must not be negative, got %d", c.ClientBuffer))
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be console or json, got %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// RateLimited reports whether inbound events are throttled per connection.
func (c Config) RateLimited() bool {
	return c.EventsPerSecond > 0
}
