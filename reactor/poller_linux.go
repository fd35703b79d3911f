//go:build linux
// +build linux

// File: reactor/poller_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7)-based poller.

package reactor

import (
	"time"

	"github.com/momentics/hioload-echo/api"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// epollPoller implements api.Poller with epoll. Tokens travel in the
// event's data words (Fd holds the low half, Pad the high half).
type epollPoller struct {
	epfd int
	raw  []unix.EpollEvent
}

// NewPoller constructs the platform poller.
func NewPoller() (api.Poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, errors.Wrap(err, "epoll create")
	}
	return &epollPoller{epfd: epfd}, nil
}

func epollFlags(interest api.Interest, mode api.PollMode) uint32 {
	var ev uint32
	if interest&api.Readable != 0 {
		ev |= unix.EPOLLIN
	}
	if interest&api.Writable != 0 {
		ev |= unix.EPOLLOUT
	}
	if interest&api.Hangup != 0 {
		ev |= unix.EPOLLRDHUP
	}
	if mode == api.EdgeTriggered {
		ev |= unix.EPOLLET
	}
	return ev
}

// readiness translates epoll flags. A read-side hangup is reported as
// readable so the owner drains queued data and observes the zero-byte read;
// only a full hangup or socket error is reported as Hangup.
func readiness(ev uint32) api.Readiness {
	var r api.Readiness
	if ev&(unix.EPOLLIN|unix.EPOLLRDHUP) != 0 {
		r |= api.Readable
	}
	if ev&unix.EPOLLOUT != 0 {
		r |= api.Writable
	}
	if ev&(unix.EPOLLHUP|unix.EPOLLERR) != 0 {
		r |= api.Hangup
	}
	return r
}

func (p *epollPoller) ctl(op int, src api.Source, tok api.Token, interest api.Interest, mode api.PollMode) error {
	ev := &unix.EpollEvent{
		Events: epollFlags(interest, mode),
		Fd:     int32(uint32(tok)),
		Pad:    int32(uint32(tok >> 32)),
	}
	return unix.EpollCtl(p.epfd, op, src.Fd(), ev)
}

// Register adds src to the epoll interest list.
func (p *epollPoller) Register(src api.Source, tok api.Token, interest api.Interest, mode api.PollMode) error {
	if err := p.ctl(unix.EPOLL_CTL_ADD, src, tok, interest, mode); err != nil {
		return errors.Wrapf(err, "epoll ctl add fd=%d", src.Fd())
	}
	return nil
}

// Reregister modifies the interest set of src. With EPOLLET this also
// re-arms the descriptor.
func (p *epollPoller) Reregister(src api.Source, tok api.Token, interest api.Interest, mode api.PollMode) error {
	if err := p.ctl(unix.EPOLL_CTL_MOD, src, tok, interest, mode); err != nil {
		return errors.Wrapf(err, "epoll ctl mod fd=%d", src.Fd())
	}
	return nil
}

// Deregister removes src from the epoll interest list.
func (p *epollPoller) Deregister(src api.Source) error {
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, src.Fd(), nil); err != nil {
		return errors.Wrapf(err, "epoll ctl del fd=%d", src.Fd())
	}
	return nil
}

// Wait blocks until events are available and writes them into events.
func (p *epollPoller) Wait(events []api.Event, timeout time.Duration) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}
	if cap(p.raw) < len(events) {
		p.raw = make([]unix.EpollEvent, len(events))
	}
	raw := p.raw[:len(events)]

	ms := -1
	if timeout >= 0 {
		ms = int(timeout / time.Millisecond)
	}
	n, err := unix.EpollWait(p.epfd, raw, ms)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, errors.Wrap(err, "epoll wait")
	}
	for i := 0; i < n; i++ {
		tok := api.Token(uint32(raw[i].Fd)) | api.Token(uint32(raw[i].Pad))<<32
		events[i] = api.Event{Token: tok, Readiness: readiness(raw[i].Events)}
	}
	return n, nil
}

// Close closes the epoll instance.
func (p *epollPoller) Close() error {
	return unix.Close(p.epfd)
}
