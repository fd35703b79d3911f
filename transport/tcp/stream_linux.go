//go:build linux
// +build linux

// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

package tcp

import (
	"github.com/momentics/hioload-echo/api"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Stream is an accepted non-blocking TCP connection.
type Stream struct {
	fd     int
	remote string
}

var _ api.Stream = (*Stream)(nil)

// Fd returns the connection descriptor.
func (s *Stream) Fd() int { return s.fd }

// RemoteAddr returns the peer "host:port".
func (s *Stream) RemoteAddr() string { return s.remote }

// Read reads into p. (0, nil) means the peer closed its write side.
func (s *Stream) Read(p []byte) (int, error) {
	for {
		n, err := unix.Read(s.fd, p)
		switch err {
		case nil:
			return n, nil
		case unix.EINTR:
			continue
		case unix.EAGAIN:
			return 0, api.ErrWouldBlock
		default:
			return 0, errors.Wrap(err, "read")
		}
	}
}

// Write writes as much of p as the socket buffer accepts.
func (s *Stream) Write(p []byte) (int, error) {
	for {
		n, err := unix.Write(s.fd, p)
		switch err {
		case nil:
			return n, nil
		case unix.EINTR:
			continue
		case unix.EAGAIN:
			return 0, api.ErrWouldBlock
		default:
			return 0, errors.Wrap(err, "write")
		}
	}
}

// Close closes the descriptor; the kernel drops it from any epoll set.
func (s *Stream) Close() error {
	return unix.Close(s.fd)
}
