package ext4

import "github.com/ostafen/storagefs/pkg/storage"

// dirIterator implements storage.Dir over an ext4 directory file's data
// blocks, decoding one block of entries at a time.
type dirIterator struct {
	f *file

	blockIdx    uint64
	blockTotal  uint64
	entries     []DirEntry
	entryCursor int
}

func newDirIterator(f *file) *dirIterator {
	blockSize := uint64(f.m.sb.BlockSize)
	total := (f.in.Size + blockSize - 1) / blockSize
	return &dirIterator{f: f, blockTotal: total}
}

// fillBlock decodes the directory entries of the current blockIdx, skipping
// "." and ".." at the top level since storage.Dir exposes a flat child
// namespace (storage.FTParent is reserved for backends that want to
// surface an explicit ".." entry; ext4 does not need to, LookupPath walks
// via the parent's own Dir).
func (it *dirIterator) fillBlock() error {
	blockSize := uint64(it.f.m.sb.BlockSize)
	buf := make([]byte, blockSize)
	n, err := it.f.ReadBytes(it.blockIdx*blockSize, buf)
	if err != nil {
		return err
	}
	buf = buf[:n]

	it.entries = it.entries[:0]
	it.entryCursor = 0
	err = parseDirBlock(buf, func(e DirEntry) bool {
		if len(e.Name) == 1 && e.Name[0] == '.' {
			return false
		}
		if len(e.Name) == 2 && e.Name[0] == '.' && e.Name[1] == '.' {
			return false
		}
		it.entries = append(it.entries, e)
		return false
	})
	return err
}

func (it *dirIterator) Next(name []byte) (storage.DirEntry, bool, error) {
	for {
		if it.entryCursor >= len(it.entries) {
			if it.blockIdx >= it.blockTotal {
				return storage.DirEntry{}, false, nil
			}
			if err := it.fillBlock(); err != nil {
				return storage.DirEntry{}, false, err
			}
			it.blockIdx++
			continue
		}

		e := it.entries[it.entryCursor]
		it.entryCursor++

		copy(name, e.Name)
		return storage.DirEntry{
			Offset: uint64(e.Inode),
			ID:     uint64(e.Inode),
			Nlen:   len(e.Name),
			Type:   fileTypeFromDirent(e.FType),
		}, true, nil
	}
}

var _ storage.Dir = (*dirIterator)(nil)
