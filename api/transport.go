// File: api/transport.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Non-blocking stream and listener contracts.

package api

// Stream is a non-blocking, connected byte stream.
// Read and Write return ErrWouldBlock when the operation cannot progress.
// Read returning (0, nil) means the peer closed its write side.
type Stream interface {
	Source
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
	RemoteAddr() string
}

// Listener accepts non-blocking streams.
// Accept returns ErrWouldBlock once the pending queue is drained.
type Listener interface {
	Source
	Accept() (Stream, error)
	Addr() string
	Close() error
}
