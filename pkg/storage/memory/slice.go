// Package memory provides a Provider/Writer backed by an in-memory byte
// slice, used by tests to build and read volumes entirely in memory.
package memory

import "github.com/ostafen/storagefs/pkg/storage"

// Slice is a storage.Writer backed by a growable byte slice.
type Slice struct {
	data []byte
}

// New wraps an existing buffer. The buffer is used as-is; Grow extends it.
func New(data []byte) *Slice { return &Slice{data: data} }

// NewSize allocates a zeroed buffer of the given size.
func NewSize(n int) *Slice { return &Slice{data: make([]byte, n)} }

// Bytes returns the underlying buffer.
func (s *Slice) Bytes() []byte { return s.data }

// Grow extends the buffer to at least n bytes, zero-filling the new tail.
func (s *Slice) Grow(n int) {
	if n <= len(s.data) {
		return
	}
	grown := make([]byte, n)
	copy(grown, s.data)
	s.data = grown
}

func (s *Slice) ReadBytes(off uint64, buf []byte) (int, error) {
	if off >= uint64(len(s.data)) {
		return 0, nil
	}
	n := copy(buf, s.data[off:])
	return n, nil
}

func (s *Slice) WriteBytes(off uint64, buf []byte) (int, error) {
	end := off + uint64(len(buf))
	if end > uint64(len(s.data)) {
		s.Grow(int(end))
	}
	n := copy(s.data[off:], buf)
	return n, nil
}

func (s *Slice) Discard(off uint64, n uint64) (uint64, error) {
	end := off + n
	if end > uint64(len(s.data)) {
		s.Grow(int(end))
	}
	for i := off; i < end; i++ {
		s.data[i] = 0
	}
	return n, nil
}

var _ storage.Writer = (*Slice)(nil)
