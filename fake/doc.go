// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development.
// Provides predictable, controllable behavior for the poller, listener and
// stream contracts so the reactor can be driven event by event.
package fake
