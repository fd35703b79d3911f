// File: server/conn.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Per-connection read/write state machine.

package server

import (
	"github.com/google/uuid"
	"github.com/momentics/hioload-echo/api"
	"github.com/momentics/hioload-echo/control"
	"github.com/momentics/hioload-echo/pool"
	"github.com/pkg/errors"
)

// DefaultReadChunk is the read granularity of one Read call.
const DefaultReadChunk = 1024

// Conn owns one accepted stream and echoes whatever it reads.
// Conn is confined to the reactor goroutine.
type Conn struct {
	id       uuid.UUID
	stream   api.Stream
	recv     []byte
	send     *pool.ByteQueue
	token    api.Token
	interest api.Interest
	closed   bool
	reason   string

	log     api.Logger
	metrics *control.Metrics
}

func newConn(stream api.Stream, readChunk int, log api.Logger, m *control.Metrics) *Conn {
	if readChunk <= 0 {
		readChunk = DefaultReadChunk
	}
	return &Conn{
		id:       uuid.New(),
		stream:   stream,
		recv:     make([]byte, 0, readChunk),
		send:     pool.NewByteQueue(),
		interest: api.Readable | api.Hangup,
		log:      log,
		metrics:  m,
	}
}

// ID returns the connection's log correlation id.
func (c *Conn) ID() uuid.UUID { return c.id }

// Token returns the registry token.
func (c *Conn) Token() api.Token { return c.token }

// Interest returns the interest set last registered with the poller.
func (c *Conn) Interest() api.Interest { return c.interest }

// Pending returns the number of bytes queued for the peer.
func (c *Conn) Pending() int { return c.send.Len() }

// IsClosed reports whether the peer went away or I/O failed.
func (c *Conn) IsClosed() bool { return c.closed }

func (c *Conn) markClosed(reason string) {
	if !c.closed {
		c.closed = true
		c.reason = reason
	}
}

// Readable drains the socket: every chunk read is queued for echo and
// flushed immediately. Edge-triggered delivery will not repeat the
// notification, so the loop runs until would-block or close.
func (c *Conn) Readable(p api.Poller) error {
	for !c.closed {
		c.recv = c.recv[:cap(c.recv)]
		n, err := c.stream.Read(c.recv)
		switch {
		case err == nil && n == 0:
			c.recv = c.recv[:0]
			c.log.Printf("conn %d (%s) closed by peer", c.token, c.id)
			c.markClosed(control.ReasonEOF)
		case err == nil:
			c.recv = c.recv[:n]
			c.metrics.Read(n)
			c.send.Write(c.recv)
			if werr := c.Writable(p); werr != nil {
				if api.CodeOf(werr) == api.ErrCodeRegistration {
					return werr
				}
				c.log.Printf("conn %d (%s) write error: %v", c.token, c.id, werr)
				c.markClosed(control.ReasonWriteError)
			}
		case errors.Is(err, api.ErrWouldBlock):
			c.recv = c.recv[:0]
			return nil
		default:
			c.recv = c.recv[:0]
			c.log.Printf("conn %d (%s) read error: %v", c.token, c.id, err)
			c.markClosed(control.ReasonReadError)
		}
	}
	return nil
}

// Writable flushes the send queue. Partial writes are retried at once;
// a full socket buffer leaves the remainder queued with writable interest
// set. The socket is re-armed on every call. An I/O error is returned
// as-is and the connection is not re-armed; a re-registration failure
// is returned as an *api.Error with ErrCodeRegistration.
func (c *Conn) Writable(p api.Poller) error {
	for c.send.Len() > 0 {
		n, err := c.stream.Write(c.send.Front())
		if n > 0 {
			c.send.Discard(n)
			c.metrics.Written(n)
		}
		if err != nil {
			if errors.Is(err, api.ErrWouldBlock) {
				break
			}
			return err
		}
		if n == 0 {
			break
		}
	}

	if c.send.Len() == 0 {
		c.interest = c.interest.Remove(api.Writable)
	} else {
		c.metrics.Backpressure()
		c.interest = c.interest.Insert(api.Writable)
	}

	c.interest = c.interest.Insert(api.Readable | api.Hangup)
	if err := p.Reregister(c.stream, c.token, c.interest, api.EdgeTriggered); err != nil {
		return api.Wrap(api.ErrCodeRegistration, err, "reregister connection").
			WithContext("token", c.token)
	}
	return nil
}

// close releases the stream and queued bytes.
func (c *Conn) close() error {
	c.send.Reset()
	return c.stream.Close()
}
