// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import (
	"fmt"
	"sync"

	"github.com/momentics/hioload-echo/api"
)

// Stream is a scripted api.Stream. Reads are served from fed chunks, then
// the configured read error, then EOF if CloseWrite was called, otherwise
// api.ErrWouldBlock. Writes are accepted up to a per-call cap and a total
// budget, after which they would block.
type Stream struct {
	mu       sync.Mutex
	fd       int
	remote   string
	inbox    [][]byte
	eof      bool
	readErr  error
	written  []byte
	maxWrite int
	budget   int
	writeErr error
	closed   bool
	reads    int
	writes   int
}

var _ api.Stream = (*Stream)(nil)

// NewStream creates a stream with an unlimited write budget.
func NewStream(fd int) *Stream {
	return &Stream{
		fd:     fd,
		remote: fmt.Sprintf("fake:%d", fd),
		budget: -1,
	}
}

func (s *Stream) Fd() int            { return s.fd }
func (s *Stream) RemoteAddr() string { return s.remote }

// Feed queues p for subsequent reads.
func (s *Stream) Feed(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inbox = append(s.inbox, append([]byte(nil), p...))
}

// CloseWrite makes Read return (0, nil) once fed data is consumed.
func (s *Stream) CloseWrite() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eof = true
}

// SetReadError makes Read fail with err once fed data is consumed.
func (s *Stream) SetReadError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readErr = err
}

// SetMaxWrite caps the bytes accepted by a single Write (0 = no cap).
func (s *Stream) SetMaxWrite(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxWrite = n
}

// SetWriteBudget sets the bytes accepted before Write would block
// (negative = unlimited).
func (s *Stream) SetWriteBudget(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budget = n
}

// Grant adds n bytes to a limited write budget, as if the peer drained
// its receive window.
func (s *Stream) Grant(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.budget >= 0 {
		s.budget += n
	}
}

// SetWriteError makes every Write fail with err.
func (s *Stream) SetWriteError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

// Read implements api.Stream.
func (s *Stream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.closed {
		return 0, api.ErrClosed
	}
	if len(s.inbox) > 0 {
		n := copy(p, s.inbox[0])
		if n < len(s.inbox[0]) {
			s.inbox[0] = s.inbox[0][n:]
		} else {
			s.inbox = s.inbox[1:]
		}
		return n, nil
	}
	if s.readErr != nil {
		return 0, s.readErr
	}
	if s.eof {
		return 0, nil
	}
	return 0, api.ErrWouldBlock
}

// Write implements api.Stream.
func (s *Stream) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.closed {
		return 0, api.ErrClosed
	}
	if s.writeErr != nil {
		return 0, s.writeErr
	}
	if s.budget == 0 {
		return 0, api.ErrWouldBlock
	}
	n := len(p)
	if s.maxWrite > 0 && n > s.maxWrite {
		n = s.maxWrite
	}
	if s.budget > 0 && n > s.budget {
		n = s.budget
	}
	s.written = append(s.written, p[:n]...)
	if s.budget > 0 {
		s.budget -= n
	}
	return n, nil
}

// Close implements api.Stream.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return api.ErrClosed
	}
	s.closed = true
	return nil
}

// Written returns a copy of every byte accepted by Write.
func (s *Stream) Written() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.written...)
}

// Closed reports whether Close was called.
func (s *Stream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Writes returns the number of Write calls.
func (s *Stream) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// ResetWritten drops the recorded output.
func (s *Stream) ResetWritten() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.written = s.written[:0]
}
