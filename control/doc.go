// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime telemetry for the echo reactor: Prometheus collectors for
// connection lifecycle and traffic, safe to scrape from another goroutine
// while the reactor goroutine updates them.
package control
