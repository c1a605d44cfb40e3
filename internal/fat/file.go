package fat

import "github.com/ostafen/storagefs/pkg/storage"

// file is the storage.File implementation for a FAT entry. A file is
// either the fixed FAT12/16 root directory region (fixedRoot) or a
// cluster-chain-backed file/directory (everything else, including the
// FAT32 root).
type file struct {
	m *Mount

	entry        rawShortEntry
	firstCluster uint32
	isDir        bool

	fixedRoot bool
	fixedOff  uint64
	fixedSize uint64

	clusters  []uint32 // lazily resolved cluster chain
	cachedIdx int      // index into clusters of cachedData, -1 if none
	cachedData []byte
}

var _ storage.File = (*file)(nil)

func (f *file) Type() storage.FileType {
	if f.isDir {
		return storage.FTDirectory
	}
	return storage.FTFile
}

func (f *file) Attr() storage.Attributes {
	b := storage.NewBag()
	if !f.isDir {
		b.Add(storage.KeySize, storage.ValueU64(f.entry.size()))
	}
	if !f.fixedRoot {
		b.Add(storage.KeyMTime, storage.ValueI64(storage.DOSDateTime(f.entry.WrtDate, f.entry.WrtTime, 0).UnixNano()))
	}
	return b
}

// resolveClusters lazily walks this file's cluster chain.
func (f *file) resolveClusters() error {
	if f.fixedRoot || f.clusters != nil {
		return nil
	}
	if f.firstCluster < 2 {
		f.clusters = []uint32{}
		return nil
	}
	clusters, err := f.m.fat.chain(f.firstCluster)
	if err != nil {
		return err
	}
	f.clusters = clusters
	return nil
}

// dataLen returns the number of readable bytes: the dirent's recorded
// size for files, or the full cluster-chain span for directories (which
// carry no meaningful FileSize field).
func (f *file) dataLen() uint64 {
	if f.fixedRoot {
		return f.fixedSize
	}
	if !f.isDir {
		return f.entry.size()
	}
	return uint64(len(f.clusters)) * uint64(f.m.bs.clusterSize())
}

func (f *file) ReadBytes(off uint64, buf []byte) (int, error) {
	if f.fixedRoot {
		if off >= f.fixedSize {
			return 0, nil
		}
		n := len(buf)
		if remaining := f.fixedSize - off; uint64(n) > remaining {
			n = int(remaining)
		}
		if err := storage.ReadExact(f.m.p, f.fixedOff+off, buf[:n]); err != nil {
			return 0, err
		}
		return n, nil
	}

	if err := f.resolveClusters(); err != nil {
		return 0, err
	}
	total := f.dataLen()
	if off >= total {
		return 0, nil
	}

	clusterSize := uint64(f.m.bs.clusterSize())
	n := 0
	for uint64(n) < uint64(len(buf)) {
		curOff := off + uint64(n)
		if curOff >= total {
			break
		}
		idx := int(curOff / clusterSize)
		within := curOff % clusterSize
		if idx >= len(f.clusters) {
			break
		}

		data, err := f.readCluster(idx)
		if err != nil {
			return n, err
		}

		avail := clusterSize - within
		remaining := uint64(len(buf) - n)
		want := avail
		if remaining < want {
			want = remaining
		}
		if left := total - curOff; left < want {
			want = left
		}
		copy(buf[n:], data[within:within+want])
		n += int(want)
	}
	return n, nil
}

func (f *file) readCluster(idx int) ([]byte, error) {
	if idx == f.cachedIdx {
		return f.cachedData, nil
	}
	size := f.m.bs.clusterSize()
	buf := make([]byte, size)
	if err := storage.ReadExact(f.m.p, f.m.bs.clusterOffset(f.clusters[idx]), buf); err != nil {
		return nil, storage.Wrap("fat: read cluster", err)
	}
	f.cachedIdx = idx
	f.cachedData = buf
	return buf, nil
}

func (f *file) Dir() (storage.Dir, error) {
	if !f.isDir {
		return nil, storage.ErrInvalidFormatf("fat: not a directory")
	}
	return newDirIterator(f), nil
}

func (f *file) Open(childOffset uint64) (storage.File, error) {
	buf := make([]byte, dirEntrySize)
	n, err := f.ReadBytes(childOffset, buf)
	if err != nil {
		return nil, err
	}
	if n < dirEntrySize {
		return nil, storage.ErrInvalidFormatf("fat: short entry truncated at offset %d", childOffset)
	}
	e, err := decodeShortEntry(buf)
	if err != nil {
		return nil, storage.Wrap("fat: decode short entry", err)
	}
	return f.m.newChainFile(e.firstCluster(), e, e.Attr&AttrDir != 0), nil
}
