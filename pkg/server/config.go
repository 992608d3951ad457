package server

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arbor-dev/arbor/pkg/replay"
)

// Config configures a Server.
type Config struct {
	// Addr is the listen address.
	Addr string

	// Logger receives structured logs. Defaults to slog.Default.
	Logger *slog.Logger

	// PageTitle is used by the bootstrap page.
	PageTitle string

	// ReadTimeout bounds websocket reads; a connection idle longer
	// than this (including ping responses) is closed.
	ReadTimeout time.Duration

	// WriteTimeout bounds each websocket write.
	WriteTimeout time.Duration

	// PingInterval is how often the server pings idle clients.
	PingInterval time.Duration

	// MaxEventQueue is the per-session buffer of decoded client
	// events; events beyond it are dropped.
	MaxEventQueue int

	// Registry receives the server's Prometheus collectors.
	// Defaults to the default registerer.
	Registry prometheus.Registerer

	// Replay, when non-nil, records every encoded patch frame per
	// session and archives the recording when the session closes.
	Replay *replay.Archiver
}

// DefaultConfig returns the config used for zero values.
func DefaultConfig() Config {
	return Config{
		Addr:          ":8080",
		PageTitle:     "arbor",
		ReadTimeout:   60 * time.Second,
		WriteTimeout:  10 * time.Second,
		PingInterval:  25 * time.Second,
		MaxEventQueue: 256,
	}
}

func (c *Config) fillDefaults() error {
	def := DefaultConfig()
	if c.Addr == "" {
		c.Addr = def.Addr
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.PageTitle == "" {
		c.PageTitle = def.PageTitle
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = def.ReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = def.WriteTimeout
	}
	if c.PingInterval == 0 {
		c.PingInterval = def.PingInterval
	}
	if c.MaxEventQueue == 0 {
		c.MaxEventQueue = def.MaxEventQueue
	}
	if c.PingInterval >= c.ReadTimeout {
		return fmt.Errorf("server: ping interval %s must be below read timeout %s",
			c.PingInterval, c.ReadTimeout)
	}
	return nil
}
