// File: server/reactor.go
// Package server implements the single-goroutine echo reactor: listener
// accept loop, per-connection dispatch and the connection registry.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/momentics/hioload-echo/affinity"
	"github.com/momentics/hioload-echo/api"
	"github.com/momentics/hioload-echo/control"
	"github.com/momentics/hioload-echo/pool"
	"github.com/pkg/errors"
)

var defaultLogger = log.New(os.Stdout, "[reactor] ", log.LstdFlags)

// Reactor owns the listener, the poller and every live connection.
// All methods must be called from a single goroutine. Methods returning
// an error only do so for conditions the reactor cannot recover from.
type Reactor struct {
	cfg      *Config
	listener api.Listener
	poller   api.Poller
	conns    *pool.Slab[*Conn]
	events   []api.Event
	log      api.Logger
	metrics  *control.Metrics
}

// NewReactor builds a reactor around ln and p and registers ln for
// edge-triggered readable readiness under api.ListenerToken.
func NewReactor(ln api.Listener, p api.Poller, opts ...Option) (*Reactor, error) {
	r := &Reactor{
		cfg:      DefaultConfig(),
		listener: ln,
		poller:   p,
		log:      defaultLogger,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.cfg.MaxConns <= 0 || uint64(r.cfg.MaxConns) > uint64(api.ListenerToken) {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "registry capacity out of range").
			WithContext("max_conns", r.cfg.MaxConns)
	}
	if r.cfg.EventBatch <= 0 {
		r.cfg.EventBatch = DefaultConfig().EventBatch
	}
	if r.cfg.ReadChunk <= 0 {
		r.cfg.ReadChunk = DefaultReadChunk
	}
	r.conns = pool.NewSlab[*Conn](r.cfg.MaxConns)
	r.events = make([]api.Event, r.cfg.EventBatch)

	if err := p.Register(ln, api.ListenerToken, api.Readable, api.EdgeTriggered); err != nil {
		return nil, api.Wrap(api.ErrCodeRegistration, err, "register listener")
	}
	return r, nil
}

// Addr returns the listener address.
func (r *Reactor) Addr() string { return r.listener.Addr() }

// Len returns the number of live connections.
func (r *Reactor) Len() int { return r.conns.Len() }

// Conn resolves tok to its live connection.
func (r *Reactor) Conn(tok api.Token) (*Conn, bool) {
	if tok == api.ListenerToken || tok > api.Token(r.conns.Cap()) {
		return nil, false
	}
	return r.conns.Get(int(tok))
}

// Accept takes every pending connection until the listener would block.
// Registry exhaustion and registration failures are fatal.
func (r *Reactor) Accept() error {
	for {
		stream, err := r.listener.Accept()
		if err != nil {
			if errors.Is(err, api.ErrWouldBlock) {
				return nil
			}
			r.log.Printf("accept error: %v", err)
			return nil
		}

		c := newConn(stream, r.cfg.ReadChunk, r.log, r.metrics)
		idx, err := r.conns.Insert(c)
		if err != nil {
			stream.Close()
			return api.Wrap(api.ErrCodeResourceExhausted, err, "could not add connection to registry").
				WithContext("capacity", r.conns.Cap())
		}
		c.token = api.Token(idx)

		if err := r.poller.Register(stream, c.token, api.Readable|api.Hangup, api.EdgeTriggered); err != nil {
			r.conns.Remove(idx)
			stream.Close()
			return api.Wrap(api.ErrCodeRegistration, err, "could not register connection").
				WithContext("token", c.token)
		}
		r.metrics.Accepted()
		r.log.Printf("accept conn %d (%s) from %s", c.token, c.id, stream.RemoteAddr())
	}
}

// ConnReadable runs the read pass for tok and removes the connection if
// the pass closed it. Unknown tokens are ignored.
func (r *Reactor) ConnReadable(tok api.Token) error {
	c, ok := r.Conn(tok)
	if !ok {
		return nil
	}
	if err := c.Readable(r.poller); err != nil {
		return err
	}
	if c.IsClosed() {
		r.remove(tok, c.reason)
	}
	return nil
}

// ConnWritable runs the write pass for tok. A write error tears the
// connection down; only a re-registration failure is returned.
func (r *Reactor) ConnWritable(tok api.Token) error {
	c, ok := r.Conn(tok)
	if !ok {
		return nil
	}
	if err := c.Writable(r.poller); err != nil {
		if api.CodeOf(err) == api.ErrCodeRegistration {
			return err
		}
		r.log.Printf("conn %d (%s) write error: %v", tok, c.id, err)
		c.markClosed(control.ReasonWriteError)
	}
	if c.IsClosed() {
		r.remove(tok, c.reason)
	}
	return nil
}

// Ready dispatches one readiness notification.
func (r *Reactor) Ready(tok api.Token, ev api.Readiness) error {
	if ev.Contains(api.Hangup) {
		if tok == api.ListenerToken {
			return api.NewError(api.ErrCodeInternal, "hangup on listener")
		}
		r.remove(tok, control.ReasonHangup)
		return nil
	}

	if ev.Contains(api.Readable) {
		var err error
		if tok == api.ListenerToken {
			err = r.Accept()
		} else {
			err = r.ConnReadable(tok)
		}
		if err != nil {
			return err
		}
	}

	if ev.Contains(api.Writable) {
		if tok == api.ListenerToken {
			return api.Wrap(api.ErrCodeInternal, api.ErrListenerWrite, "received writable for listener token")
		}
		return r.ConnWritable(tok)
	}
	return nil
}

// Poll waits up to timeout for readiness and dispatches every event
// before returning.
func (r *Reactor) Poll(timeout time.Duration) error {
	n, err := r.poller.Wait(r.events, timeout)
	if err != nil {
		return api.Wrap(api.ErrCodeInternal, err, "poller wait")
	}
	for _, ev := range r.events[:n] {
		if err := r.Ready(ev.Token, ev.Readiness); err != nil {
			return err
		}
	}
	return nil
}

// Run pins the calling goroutine to its thread and polls until ctx is done
// or a fatal error occurs. ctx is checked between waits, so cancellation
// is observed within PollTimeout.
func (r *Reactor) Run(ctx context.Context) error {
	unpin, err := affinity.Pin(r.cfg.CPU)
	if err != nil {
		return err
	}
	defer unpin()

	r.log.Printf("server start, addr: %s", r.listener.Addr())
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if err := r.Poll(r.cfg.PollTimeout); err != nil {
			return err
		}
	}
}

// Close releases every connection, the listener and the poller.
// It returns the first error encountered.
func (r *Reactor) Close() error {
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	var toks []api.Token
	r.conns.Range(func(idx int, _ *Conn) bool {
		toks = append(toks, api.Token(idx))
		return true
	})
	for _, tok := range toks {
		r.remove(tok, control.ReasonHangup)
	}
	keep(r.poller.Deregister(r.listener))
	keep(r.listener.Close())
	keep(r.poller.Close())
	return first
}

// remove is the only deallocation path for a connection.
func (r *Reactor) remove(tok api.Token, reason string) {
	if tok == api.ListenerToken || tok > api.Token(r.conns.Cap()) {
		return
	}
	c, ok := r.conns.Remove(int(tok))
	if !ok {
		return
	}
	c.markClosed(reason)
	if err := r.poller.Deregister(c.stream); err != nil {
		r.log.Printf("conn %d (%s) deregister: %v", tok, c.id, err)
	}
	if err := c.close(); err != nil {
		r.log.Printf("conn %d (%s) close: %v", tok, c.id, err)
	}
	r.metrics.Closed(c.reason)
	r.log.Printf("conn %d (%s) removed: %s", tok, c.id, c.reason)
}
