// File: api/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Defines the readiness-notification contract consumed by the connection
// reactor: tokens, interest sets, readiness flags and the Poller itself.

package api

import (
	"strings"
	"time"
)

// Token identifies a registered socket to the Poller and to the registry.
type Token uint64

// ListenerToken is reserved for the listening socket. It lies above any
// registry capacity so it never collides with a connection token.
const ListenerToken Token = 10_000_000

// Interest is the set of readiness conditions a socket is registered for.
type Interest uint8

const (
	Readable Interest = 1 << iota
	Writable
	Hangup
)

// Contains reports whether every flag of o is present in i.
func (i Interest) Contains(o Interest) bool { return i&o == o }

// Insert returns i with the flags of o added.
func (i Interest) Insert(o Interest) Interest { return i | o }

// Remove returns i with the flags of o cleared.
func (i Interest) Remove(o Interest) Interest { return i &^ o }

func (i Interest) String() string {
	if i == 0 {
		return "none"
	}
	var parts []string
	if i&Readable != 0 {
		parts = append(parts, "readable")
	}
	if i&Writable != 0 {
		parts = append(parts, "writable")
	}
	if i&Hangup != 0 {
		parts = append(parts, "hup")
	}
	return strings.Join(parts, "|")
}

// Readiness is the set of conditions reported by one notification.
// It reuses the Interest flag values.
type Readiness = Interest

// PollMode selects level- or edge-triggered delivery.
type PollMode uint8

const (
	LevelTriggered PollMode = iota
	EdgeTriggered
)

// Event is one readiness notification.
type Event struct {
	Token     Token
	Readiness Readiness
}

// Source is anything backed by a pollable file descriptor.
type Source interface {
	Fd() int
}

// Poller is the OS readiness-polling primitive (epoll on Linux).
type Poller interface {
	// Register adds src to the interest list under tok.
	Register(src Source, tok Token, interest Interest, mode PollMode) error

	// Reregister replaces the interest set of an already registered src.
	// Edge-triggered sources must be re-armed this way even when the
	// interest value is unchanged.
	Reregister(src Source, tok Token, interest Interest, mode PollMode) error

	// Deregister removes src from the interest list.
	Deregister(src Source) error

	// Wait blocks until at least one event is ready or timeout elapses
	// (negative timeout blocks indefinitely) and fills events.
	Wait(events []Event, timeout time.Duration) (int, error)

	// Close releases the poller.
	Close() error
}
