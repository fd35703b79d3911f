//go:build linux
// +build linux

package tcp_test

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/momentics/hioload-echo/api"
	"github.com/momentics/hioload-echo/transport/tcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listen(t *testing.T) *tcp.Listener {
	t.Helper()
	ln, err := tcp.Listen("127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	return ln
}

// acceptWithin polls the non-blocking listener until a stream arrives.
func acceptWithin(t *testing.T, ln *tcp.Listener, d time.Duration) api.Stream {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		s, err := ln.Accept()
		if err == nil {
			return s
		}
		require.ErrorIs(t, err, api.ErrWouldBlock)
		time.Sleep(time.Millisecond)
	}
	t.Fatal("no connection accepted")
	return nil
}

func readWithin(t *testing.T, s api.Stream, p []byte, d time.Duration) (int, error) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		n, err := s.Read(p)
		if err == api.ErrWouldBlock {
			time.Sleep(time.Millisecond)
			continue
		}
		return n, err
	}
	t.Fatal("read timed out")
	return 0, nil
}

func TestListenReportsBoundAddress(t *testing.T) {
	ln := listen(t)
	host, port, err := net.SplitHostPort(ln.Addr())
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", host)
	assert.NotEqual(t, "0", port)
	assert.Greater(t, ln.Fd(), 0)
}

func TestListenRejectsBadAddress(t *testing.T) {
	_, err := tcp.Listen("not-an-address")
	assert.ErrorIs(t, err, api.ErrInvalidAddress)
}

func TestAcceptWouldBlockWhenIdle(t *testing.T) {
	ln := listen(t)
	_, err := ln.Accept()
	assert.ErrorIs(t, err, api.ErrWouldBlock)
}

func TestStreamRoundTrip(t *testing.T) {
	ln := listen(t)
	client, err := net.Dial("tcp", ln.Addr())
	require.NoError(t, err)
	defer client.Close()

	s := acceptWithin(t, ln, time.Second)
	defer s.Close()
	assert.Equal(t, client.LocalAddr().String(), s.RemoteAddr())

	_, err = s.Read(make([]byte, 16))
	assert.ErrorIs(t, err, api.ErrWouldBlock)

	_, err = client.Write([]byte("ping"))
	require.NoError(t, err)
	buf := make([]byte, 16)
	n, err := readWithin(t, s, buf, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf[:n]))

	n, err = s.Write([]byte("pong"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	got := make([]byte, 4)
	require.NoError(t, client.SetReadDeadline(time.Now().Add(time.Second)))
	_, err = io.ReadFull(client, got)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(got))

	require.NoError(t, client.Close())
	n, err = readWithin(t, s, buf, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "peer close reads as zero bytes")
}

func TestWriteWouldBlockWhenPeerStalls(t *testing.T) {
	ln := listen(t)
	client, err := net.Dial("tcp", ln.Addr())
	require.NoError(t, err)
	defer client.Close()
	s := acceptWithin(t, ln, time.Second)
	defer s.Close()

	chunk := make([]byte, 64*1024)
	var blocked bool
	for i := 0; i < 1024 && !blocked; i++ {
		_, err := s.Write(chunk)
		if err == api.ErrWouldBlock {
			blocked = true
			break
		}
		require.NoError(t, err)
	}
	assert.True(t, blocked, "socket buffers must eventually fill")
}
