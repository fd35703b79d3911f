// File: pool/byte_queue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import "github.com/eapache/queue"

// ByteQueue is a FIFO of byte chunks. Bytes leave the front only through
// Discard, so a caller can write Front() and drop exactly what the kernel
// accepted.
type ByteQueue struct {
	chunks *queue.Queue // []byte
	off    int          // consumed prefix of the front chunk
	size   int
}

// NewByteQueue returns an empty queue.
func NewByteQueue() *ByteQueue {
	return &ByteQueue{chunks: queue.New()}
}

// Write appends a copy of p.
func (b *ByteQueue) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	chunk := make([]byte, len(p))
	copy(chunk, p)
	b.chunks.Add(chunk)
	b.size += len(p)
	return len(p), nil
}

// Len returns the number of queued bytes.
func (b *ByteQueue) Len() int { return b.size }

// Front returns the unconsumed part of the oldest chunk, or nil when empty.
// The slice is only valid until the next Discard.
func (b *ByteQueue) Front() []byte {
	if b.chunks.Length() == 0 {
		return nil
	}
	return b.chunks.Peek().([]byte)[b.off:]
}

// Discard drops the first n queued bytes.
func (b *ByteQueue) Discard(n int) {
	if n > b.size {
		n = b.size
	}
	b.size -= n
	for n > 0 {
		rest := len(b.chunks.Peek().([]byte)) - b.off
		if n < rest {
			b.off += n
			return
		}
		n -= rest
		b.chunks.Remove()
		b.off = 0
	}
}

// Reset drops everything.
func (b *ByteQueue) Reset() {
	for b.chunks.Length() > 0 {
		b.chunks.Remove()
	}
	b.off = 0
	b.size = 0
}

// Bytes returns a copy of all queued bytes in order.
func (b *ByteQueue) Bytes() []byte {
	out := make([]byte, 0, b.size)
	for i := 0; i < b.chunks.Length(); i++ {
		chunk := b.chunks.Get(i).([]byte)
		if i == 0 {
			chunk = chunk[b.off:]
		}
		out = append(out, chunk...)
	}
	return out
}
