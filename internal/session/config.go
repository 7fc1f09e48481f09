package session

import "strings"

// Config tunes request defaults and limits of the router.
type Config struct {
	DefaultRoom     string
	DefaultPageSize int
	MaxPageSize     int
	MaxTextLength   int
	MaxAttachments  int
}

// DefaultConfig returns the limits used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		DefaultRoom:     "global",
		DefaultPageSize: 20,
		MaxPageSize:     100,
		MaxTextLength:   4000,
		MaxAttachments:  10,
	}
}

// withDefaults fills zero values from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if strings.TrimSpace(c.DefaultRoom) == "" {
		c.DefaultRoom = def.DefaultRoom
	}
	if c.DefaultPageSize <= 0 {
		c.DefaultPageSize = def.DefaultPageSize
	}
	if c.MaxPageSize <= 0 {
		c.MaxPageSize = def.MaxPageSize
	}
	if c.DefaultPageSize > c.MaxPageSize {
		c.DefaultPageSize = c.MaxPageSize
	}
	if c.MaxTextLength <= 0 {
		c.MaxTextLength = def.MaxTextLength
	}
	if c.MaxAttachments <= 0 {
		c.MaxAttachments = def.MaxAttachments
	}
	return c
}
