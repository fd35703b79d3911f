// Package pool
// Author: momentics <momentics@gmail.com>
//
// Memory layer for the echo reactor: the slab-style connection registry
// (stable indices, free-slot reuse) and the chunked FIFO send queue.
// Neither type is safe for concurrent use; both live on the reactor goroutine.
package pool
