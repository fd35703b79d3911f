// File: server/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import "time"

// Config holds all reactor configuration parameters.
type Config struct {
	ListenAddr  string        // TCP bind address, e.g. "0.0.0.0:11021"
	MaxConns    int           // registry capacity; exceeding it is fatal
	ReadChunk   int           // bytes per Read call
	EventBatch  int           // events collected per poller wait
	PollTimeout time.Duration // wait bound between context checks (<0 blocks)
	CPU         int           // CPU to pin the reactor thread to (-1 = none)
	MetricsAddr string        // Prometheus /metrics address ("" disables)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:  "0.0.0.0:11021",
		MaxConns:    100_000,
		ReadChunk:   DefaultReadChunk,
		EventBatch:  128,
		PollTimeout: 500 * time.Millisecond,
		CPU:         -1,
		MetricsAddr: "",
	}
}
