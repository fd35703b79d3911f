//go:build !linux
// +build !linux

// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

package tcp

import "github.com/momentics/hioload-echo/api"

// Listener is unavailable on this platform.
type Listener struct{}

// Listen returns api.ErrNotSupported on this platform.
func Listen(addr string) (*Listener, error) {
	return nil, api.ErrNotSupported
}

func (l *Listener) Fd() int                     { return -1 }
func (l *Listener) Addr() string                { return "" }
func (l *Listener) Accept() (api.Stream, error) { return nil, api.ErrNotSupported }
func (l *Listener) Close() error                { return nil }
