// File: server/options.go
// Package server defines functional options for the Reactor.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"github.com/momentics/hioload-echo/api"
	"github.com/momentics/hioload-echo/control"
)

// Option customizes reactor initialization.
type Option func(*Reactor)

// WithConfig replaces the whole configuration.
func WithConfig(cfg *Config) Option {
	return func(r *Reactor) {
		if cfg != nil {
			c := *cfg
			r.cfg = &c
		}
	}
}

// WithLogger routes reactor logging to l.
func WithLogger(l api.Logger) Option {
	return func(r *Reactor) {
		if l != nil {
			r.log = l
		}
	}
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *control.Metrics) Option {
	return func(r *Reactor) {
		r.metrics = m
	}
}

// WithMaxConns overrides the registry capacity.
func WithMaxConns(n int) Option {
	return func(r *Reactor) {
		r.cfg.MaxConns = n
	}
}

// WithEventBatch overrides the number of events taken per wait.
func WithEventBatch(n int) Option {
	return func(r *Reactor) {
		r.cfg.EventBatch = n
	}
}
