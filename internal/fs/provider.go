package fs

import (
	"io"

	"github.com/ostafen/storagefs/pkg/storage"
)

// Provider adapts a fs.File (the platform-specific raw device/file
// handle opened by Open) to storage.Provider, translating Go's
// io.ReaderAt EOF convention (io.EOF on a short final read) into
// storage's "return what you got, nil error, next read
// returns 0" convention.
type Provider struct {
	f File
}

var _ storage.Provider = (*Provider)(nil)

// NewProvider wraps an already-open fs.File.
func NewProvider(f File) *Provider {
	return &Provider{f: f}
}

// OpenProvider opens path (a raw device or a regular file) and wraps it.
func OpenProvider(path string) (*Provider, error) {
	f, err := Open(path)
	if err != nil {
		return nil, storage.Wrap("fs: open", err)
	}
	return NewProvider(f), nil
}

func (p *Provider) ReadBytes(off uint64, buf []byte) (int, error) {
	n, err := p.f.ReadAt(buf, int64(off))
	if err != nil && err != io.EOF {
		return n, storage.Wrap("fs: read", err)
	}
	return n, nil
}

// Close releases the underlying handle.
func (p *Provider) Close() error {
	return p.f.Close()
}

// DeviceInfo reports the sector size and total size of the wrapped
// handle.
func (p *Provider) DeviceInfo() (DeviceInfo, error) {
	return StatDevice(p.f)
}
