package fat

import "github.com/ostafen/storagefs/pkg/storage"

// Mount is a read-only FAT12/16/32 mount over a storage.Provider.
type Mount struct {
	p   storage.Provider
	bs  *BootSector
	fat *fatTable
}

// Open reads the boot sector and the active FAT, returning a Mount.
func Open(p storage.Provider) (*Mount, error) {
	bs, err := ReadBootSector(p)
	if err != nil {
		return nil, err
	}
	fat, err := readFATTable(p, bs)
	if err != nil {
		return nil, err
	}
	return &Mount{p: p, bs: bs, fat: fat}, nil
}

// Root returns the filesystem root directory.
func (m *Mount) Root() (storage.File, error) {
	if m.bs.Variant == VariantFAT32 {
		return m.newChainFile(m.bs.Ext32.RootCluster, rawShortEntry{Attr: AttrDir}, true), nil
	}

	off := uint64(m.bs.rootDirSector()) * uint64(m.bs.BPB.SectorSize)
	size := uint64(m.bs.RootDirSectors()) * uint64(m.bs.BPB.SectorSize)
	return &file{
		m:         m,
		isDir:     true,
		fixedRoot: true,
		fixedOff:  off,
		fixedSize: size,
	}, nil
}

func (m *Mount) newChainFile(firstCluster uint32, entry rawShortEntry, isDir bool) *file {
	return &file{
		m:            m,
		entry:        entry,
		firstCluster: firstCluster,
		isDir:        isDir,
		cachedIdx:    -1,
	}
}
