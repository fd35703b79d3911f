//go:build linux
// +build linux

package reactor_test

import (
	"testing"
	"time"

	"github.com/momentics/hioload-echo/api"
	"github.com/momentics/hioload-echo/reactor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

type fdSource int

func (f fdSource) Fd() int { return int(f) }

func socketPair(t *testing.T) (fdSource, fdSource) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	require.NoError(t, err)
	t.Cleanup(func() {
		unix.Close(fds[0])
		unix.Close(fds[1])
	})
	return fdSource(fds[0]), fdSource(fds[1])
}

func newPoller(t *testing.T) api.Poller {
	t.Helper()
	p, err := reactor.NewPoller()
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func TestPollerDeliversTokenAndReadable(t *testing.T) {
	p := newPoller(t)
	a, b := socketPair(t)
	const tok api.Token = 1<<33 | 17

	require.NoError(t, p.Register(a, tok, api.Readable|api.Hangup, api.EdgeTriggered))
	_, err := unix.Write(b.Fd(), []byte("ping"))
	require.NoError(t, err)

	events := make([]api.Event, 8)
	n, err := p.Wait(events, time.Second)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	assert.Equal(t, tok, events[0].Token)
	assert.True(t, events[0].Readiness.Contains(api.Readable))
	assert.False(t, events[0].Readiness.Contains(api.Hangup))
}

func TestPollerEdgeTriggeredDoesNotRepeat(t *testing.T) {
	p := newPoller(t)
	a, b := socketPair(t)
	require.NoError(t, p.Register(a, 1, api.Readable, api.EdgeTriggered))
	_, err := unix.Write(b.Fd(), []byte("x"))
	require.NoError(t, err)

	events := make([]api.Event, 8)
	n, err := p.Wait(events, time.Second)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	n, err = p.Wait(events, 20*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "edge-triggered readiness is reported once")

	require.NoError(t, p.Reregister(a, 1, api.Readable, api.EdgeTriggered))
	n, err = p.Wait(events, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "re-arming reports pending data again")
}

func TestPollerWritableInterest(t *testing.T) {
	p := newPoller(t)
	a, _ := socketPair(t)
	require.NoError(t, p.Register(a, 2, api.Readable, api.EdgeTriggered))

	events := make([]api.Event, 8)
	n, err := p.Wait(events, 20*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, p.Reregister(a, 2, api.Readable|api.Writable, api.EdgeTriggered))
	n, err = p.Wait(events, time.Second)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	assert.True(t, events[0].Readiness.Contains(api.Writable))
}

func TestPollerPeerCloseIsReadable(t *testing.T) {
	p := newPoller(t)
	a, b := socketPair(t)
	require.NoError(t, p.Register(a, 3, api.Readable|api.Hangup, api.EdgeTriggered))
	require.NoError(t, unix.Shutdown(b.Fd(), unix.SHUT_WR))

	events := make([]api.Event, 8)
	n, err := p.Wait(events, time.Second)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	assert.True(t, events[0].Readiness.Contains(api.Readable))
}

func TestPollerDeregister(t *testing.T) {
	p := newPoller(t)
	a, b := socketPair(t)
	require.NoError(t, p.Register(a, 4, api.Readable, api.EdgeTriggered))
	require.NoError(t, p.Deregister(a))
	_, err := unix.Write(b.Fd(), []byte("x"))
	require.NoError(t, err)

	events := make([]api.Event, 8)
	n, err := p.Wait(events, 20*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	assert.Error(t, p.Reregister(a, 4, api.Readable, api.EdgeTriggered))
}
