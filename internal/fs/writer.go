package fs

import (
	"io"
	"os"

	"github.com/ostafen/storagefs/pkg/storage"
)

// discardChunkSize bounds how much zero-fill Discard buffers at once.
const discardChunkSize = 1 << 20

// Writer adapts an *os.File opened read-write to storage.Writer, the
// only write-side consumer in the module (internal/fat/mkfs).
type Writer struct {
	f *os.File
}

var _ storage.Writer = (*Writer)(nil)

// CreateWriter creates (or truncates) path and wraps it for mkfs.
func CreateWriter(path string, size int64) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, storage.Wrapf(err, "fs: create %q", path)
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, storage.Wrapf(err, "fs: truncate %q", path)
	}
	return &Writer{f: f}, nil
}

func (w *Writer) ReadBytes(off uint64, buf []byte) (int, error) {
	n, err := w.f.ReadAt(buf, int64(off))
	if err != nil && err != io.EOF {
		return n, storage.Wrap("fs: read", err)
	}
	return n, nil
}

func (w *Writer) WriteBytes(off uint64, buf []byte) (int, error) {
	n, err := w.f.WriteAt(buf, int64(off))
	if err != nil {
		return n, storage.Wrap("fs: write", err)
	}
	return n, nil
}

// Discard zero-fills n bytes starting at off.
func (w *Writer) Discard(off uint64, n uint64) (uint64, error) {
	zero := make([]byte, min(n, discardChunkSize))
	var done uint64
	for done < n {
		chunk := zero
		if rem := n - done; rem < uint64(len(chunk)) {
			chunk = chunk[:rem]
		}
		wn, err := w.f.WriteAt(chunk, int64(off+done))
		if err != nil {
			return done, storage.Wrap("fs: discard", err)
		}
		done += uint64(wn)
	}
	return done, nil
}

func (w *Writer) Close() error {
	return w.f.Close()
}
