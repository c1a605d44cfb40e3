package mbr

import "github.com/ostafen/storagefs/pkg/storage"

// PartitionProvider is a storage.Provider windowed onto one partition's
// byte range of the underlying device, so it can be handed to any other
// backend's mount function as if it were a whole device.
type PartitionProvider struct {
	base   storage.Provider
	offset uint64
	size   uint64
}

var _ storage.Provider = (*PartitionProvider)(nil)

// NewPartitionProvider windows base to [offset, offset+size).
func NewPartitionProvider(base storage.Provider, offset, size uint64) *PartitionProvider {
	return &PartitionProvider{base: base, offset: offset, size: size}
}

func (w *PartitionProvider) ReadBytes(off uint64, buf []byte) (int, error) {
	if off >= w.size {
		return 0, nil
	}
	if remaining := w.size - off; uint64(len(buf)) > remaining {
		buf = buf[:remaining]
	}
	return w.base.ReadBytes(w.offset+off, buf)
}

// partitionFile is the storage.File exposing a partition's raw bytes.
// It does not mount the partition's contents as ext4 or FAT, and
// internal/unified probes only the whole device; but when the
// partition's own first sector carries an MBR signature, it is itself a
// nested partition table, and partitionFile mounts it directly so the
// synthetic directory can recurse.
type partitionFile struct {
	p     *PartitionProvider
	size  uint64
	isDir bool
}

var _ storage.File = (*partitionFile)(nil)

func (f *partitionFile) Type() storage.FileType {
	if f.isDir {
		return storage.FTDirectory
	}
	return storage.FTFile
}

func (f *partitionFile) Attr() storage.Attributes {
	b := storage.NewBag()
	b.Add(storage.KeySize, storage.ValueU64(f.size))
	return b
}

func (f *partitionFile) ReadBytes(off uint64, buf []byte) (int, error) {
	return f.p.ReadBytes(off, buf)
}

func (f *partitionFile) Dir() (storage.Dir, error) {
	if !f.isDir {
		return nil, storage.ErrInvalidFormatf("mbr: partition alias is not a directory")
	}
	root, err := f.nestedRoot()
	if err != nil {
		return nil, err
	}
	return root.Dir()
}

func (f *partitionFile) Open(childOffset uint64) (storage.File, error) {
	if !f.isDir {
		return nil, storage.ErrInvalidFormatf("mbr: partition alias has no children")
	}
	root, err := f.nestedRoot()
	if err != nil {
		return nil, err
	}
	return root.Open(childOffset)
}

func (f *partitionFile) nestedRoot() (storage.File, error) {
	nested, err := Open(f.p)
	if err != nil {
		return nil, err
	}
	return nested.Root()
}
