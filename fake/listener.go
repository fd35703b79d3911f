// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import (
	"sync"

	"github.com/momentics/hioload-echo/api"
)

// Listener hands out queued streams, then api.ErrWouldBlock.
type Listener struct {
	mu        sync.Mutex
	fd        int
	pending   []api.Stream
	acceptErr error
	closed    bool
}

var _ api.Listener = (*Listener)(nil)

// NewListener creates an empty listener.
func NewListener(fd int) *Listener {
	return &Listener{fd: fd}
}

func (l *Listener) Fd() int      { return l.fd }
func (l *Listener) Addr() string { return "fake:listener" }

// Enqueue makes streams pending for Accept.
func (l *Listener) Enqueue(streams ...api.Stream) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = append(l.pending, streams...)
}

// SetAcceptError makes Accept fail with err while set.
func (l *Listener) SetAcceptError(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.acceptErr = err
}

// Accept implements api.Listener.
func (l *Listener) Accept() (api.Stream, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, api.ErrClosed
	}
	if l.acceptErr != nil {
		return nil, l.acceptErr
	}
	if len(l.pending) == 0 {
		return nil, api.ErrWouldBlock
	}
	s := l.pending[0]
	l.pending = l.pending[1:]
	return s, nil
}

// Pending returns the number of streams not yet accepted.
func (l *Listener) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Close implements api.Listener.
func (l *Listener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}
