package mbr

import (
	"github.com/ostafen/storagefs/pkg/storage"
)

// Mount is a read-only view of a disk's MBR partition table.
type Mount struct {
	p     storage.Provider
	table *Table
}

// Open reads and validates the MBR at sector 0.
func Open(p storage.Provider) (*Mount, error) {
	t, err := Read(p)
	if err != nil {
		return nil, err
	}
	return &Mount{p: p, table: t}, nil
}

// Root returns the synthetic aliasing directory over non-empty
// partitions.
func (m *Mount) Root() (storage.File, error) {
	return &rootDir{m: m}, nil
}

// Partition returns the i'th partition table entry's byte-range
// provider, for callers that want to probe it as a nested filesystem
// directly without going through the File contract.
func (m *Mount) Partition(i int) (*PartitionProvider, *PartitionEntry, error) {
	if i < 0 || i >= len(m.table.Entries) {
		return nil, nil, storage.ErrInvalidFormatf("mbr: partition index out of range")
	}
	e := &m.table.Entries[i]
	if e.Empty() {
		return nil, nil, storage.ErrInvalidFormatf("mbr: partition %d is empty", i)
	}
	sectorSize := uint64(512)
	return NewPartitionProvider(m.p, uint64(e.StartLBA)*sectorSize, uint64(e.TotalSectors)*sectorSize), e, nil
}

// rootDir is the storage.File for the MBR's synthetic root: a directory
// whose children are generated aliases rather than decoded entries, so
// it has no Open(childOffset) in the usual dirent-lookup sense — it
// decodes the childOffset as a partition index directly.
type rootDir struct {
	m *Mount
}

var _ storage.File = (*rootDir)(nil)

func (d *rootDir) Type() storage.FileType { return storage.FTDirectory }

func (d *rootDir) Attr() storage.Attributes { return storage.NewBag() }

func (d *rootDir) ReadBytes(uint64, []byte) (int, error) {
	return 0, storage.ErrInvalidFormatf("mbr: root is a directory")
}

func (d *rootDir) Dir() (storage.Dir, error) {
	return newAliasIterator(d.m), nil
}

func (d *rootDir) Open(childOffset uint64) (storage.File, error) {
	idx := int(childOffset)
	provider, e, err := d.m.Partition(idx)
	if err != nil {
		return nil, err
	}
	// A failed nested-signature probe just means "treat it as a plain
	// file", not an Open failure: the partition bytes are still valid.
	isDir, _ := hasNestedSignature(provider)
	return &partitionFile{p: provider, size: uint64(e.TotalSectors) * 512, isDir: isDir}, nil
}

// partitionType reports the File type an alias for partition idx should
// report without actually opening it: Directory when the partition's
// first sector carries a nested MBR signature, File otherwise. Any error
// along the way (index out of range, empty slot, read failure) is
// swallowed to Unknown rather than propagated, per spec: a synthetic
// directory listing must not fail just because one child couldn't be
// typed.
func partitionType(m *Mount, idx int) storage.FileType {
	provider, _, err := m.Partition(idx)
	if err != nil {
		return storage.FTUnknown
	}
	nested, err := hasNestedSignature(provider)
	if err != nil {
		return storage.FTUnknown
	}
	if nested {
		return storage.FTDirectory
	}
	return storage.FTFile
}
