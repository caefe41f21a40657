// SPDX-License-Identifier: EPL-2.0

package decode

// Buffer is a channel's conversion buffer: the most recent chunk of
// device-format bytes and how much of it has been consumed. Its capacity
// only ever grows, so it is reused across plays.
type Buffer struct {
	data []byte
	n    int // valid bytes
	off  int // consumed bytes
}

// Grow makes sure the buffer can hold size bytes without reallocating.
func (b *Buffer) Grow(size int) {
	if cap(b.data) >= size {
		return
	}

	data := make([]byte, size)
	copy(data, b.data[:b.n])
	b.data = data
}

// Unread returns the bytes not yet consumed.
func (b *Buffer) Unread() []byte { return b.data[b.off:b.n] }

func (b *Buffer) Len() int { return b.n - b.off }

func (b *Buffer) Cap() int { return cap(b.data) }

// Consume marks n unread bytes as used.
func (b *Buffer) Consume(n int) { b.off = min(b.off+n, b.n) }

// Reset drops the content and keeps the capacity.
func (b *Buffer) Reset() { b.n, b.off = 0, 0 }

// fill replaces the content with size bytes the caller writes into the
// returned slice.
func (b *Buffer) fill(size int) []byte {
	b.Grow(size)
	b.data = b.data[:cap(b.data)]
	b.n, b.off = size, 0
	return b.data[:size]
}
