package cmd

import (
	"io"

	"github.com/ostafen/storagefs/internal/fs"
	"github.com/ostafen/storagefs/internal/mmap"
	"github.com/ostafen/storagefs/internal/unified"
	"github.com/ostafen/storagefs/pkg/storage"
)

// openMount opens imagePath and probes it against every backend via
// unified.MountAny. It prefers the zero-copy mmap.Provider (4.15's
// common-case path for a regular disk image); when that fails — a
// non-seekable device, a platform without a usable syscall.Mmap, or a
// raw Windows volume path — it falls back to the ReaderAt-based
// fs.Provider, which every platform supports. The returned io.Closer
// must be closed once the caller is done navigating root.
func openMount(imagePath string) (*unified.Mounted, io.Closer, error) {
	imagePath = fs.NormalizeVolumePath(imagePath)

	var (
		provider storage.Provider
		closer   io.Closer
	)

	if mf, err := mmap.Open(imagePath); err == nil {
		provider, closer = mf, mf
	} else {
		pf, ferr := fs.OpenProvider(imagePath)
		if ferr != nil {
			return nil, nil, storage.Wrapf(err, "open %q", imagePath)
		}
		provider, closer = pf, pf
	}

	m, err := unified.MountAny(provider)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return m, closer, nil
}
