// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import (
	"fmt"
	"sync"
	"time"

	"github.com/momentics/hioload-echo/api"
)

// Registration is the poller state of one descriptor.
type Registration struct {
	Fd       int
	Token    api.Token
	Interest api.Interest
	Mode     api.PollMode
}

// Call records one poller operation.
type Call struct {
	Op string // "register", "reregister" or "deregister"
	Registration
}

// Poller records registrations and replays queued events from Wait.
type Poller struct {
	mu            sync.Mutex
	regs          map[int]Registration
	calls         []Call
	queue         []api.Event
	registerErr   error
	reregisterErr error
	waitErr       error
	closed        bool
}

var _ api.Poller = (*Poller)(nil)

// NewPoller creates an empty poller.
func NewPoller() *Poller {
	return &Poller{regs: make(map[int]Registration)}
}

// Register implements api.Poller.
func (p *Poller) Register(src api.Source, tok api.Token, interest api.Interest, mode api.PollMode) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.registerErr != nil {
		return p.registerErr
	}
	if _, ok := p.regs[src.Fd()]; ok {
		return fmt.Errorf("fd %d already registered", src.Fd())
	}
	r := Registration{Fd: src.Fd(), Token: tok, Interest: interest, Mode: mode}
	p.regs[src.Fd()] = r
	p.calls = append(p.calls, Call{Op: "register", Registration: r})
	return nil
}

// Reregister implements api.Poller.
func (p *Poller) Reregister(src api.Source, tok api.Token, interest api.Interest, mode api.PollMode) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.reregisterErr != nil {
		return p.reregisterErr
	}
	if _, ok := p.regs[src.Fd()]; !ok {
		return fmt.Errorf("fd %d not registered", src.Fd())
	}
	r := Registration{Fd: src.Fd(), Token: tok, Interest: interest, Mode: mode}
	p.regs[src.Fd()] = r
	p.calls = append(p.calls, Call{Op: "reregister", Registration: r})
	return nil
}

// Deregister implements api.Poller.
func (p *Poller) Deregister(src api.Source) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.regs[src.Fd()]
	if !ok {
		return fmt.Errorf("fd %d not registered", src.Fd())
	}
	delete(p.regs, src.Fd())
	p.calls = append(p.calls, Call{Op: "deregister", Registration: r})
	return nil
}

// Push queues events for the next Wait calls.
func (p *Poller) Push(events ...api.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue = append(p.queue, events...)
}

// Wait implements api.Poller. It never blocks: with nothing queued it
// returns zero events.
func (p *Poller) Wait(events []api.Event, _ time.Duration) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.waitErr != nil {
		return 0, p.waitErr
	}
	n := copy(events, p.queue)
	p.queue = p.queue[n:]
	return n, nil
}

// Close implements api.Poller.
func (p *Poller) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// SetRegisterError makes Register fail with err.
func (p *Poller) SetRegisterError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.registerErr = err
}

// SetReregisterError makes Reregister fail with err.
func (p *Poller) SetReregisterError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reregisterErr = err
}

// SetWaitError makes Wait fail with err.
func (p *Poller) SetWaitError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.waitErr = err
}

// Registration returns the current registration of fd.
func (p *Poller) Registration(fd int) (Registration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.regs[fd]
	return r, ok
}

// Calls returns every recorded operation in order.
func (p *Poller) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Call(nil), p.calls...)
}

// Closed reports whether Close was called.
func (p *Poller) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
