package ext4

import (
	"github.com/ostafen/storagefs/pkg/storage"
)

// rootInode is the well-known inode number of the filesystem root.
const rootInode = 2

// Mount is a read-only ext2/3/4 mount over a storage.Provider.
type Mount struct {
	p  storage.Provider
	sb *Superblock
}

// Open validates the superblock at p and returns a Mount.
func Open(p storage.Provider) (*Mount, error) {
	sb, err := ReadSuperblock(p)
	if err != nil {
		return nil, err
	}
	return &Mount{p: p, sb: sb}, nil
}

// Root returns the filesystem root directory.
func (m *Mount) Root() (storage.File, error) {
	return m.openInode(rootInode)
}

func (m *Mount) openInode(ino uint32) (storage.File, error) {
	in, err := ReadInode(m.p, m.sb, ino)
	if err != nil {
		return nil, storage.Wrap("ext4: open inode", err)
	}
	return &file{m: m, ino: ino, in: in, cachedBlock: -1}, nil
}

// file is the storage.File implementation backed by a single ext4 inode.
type file struct {
	m   *Mount
	ino uint32
	in  *Inode

	extents []Extent // extent-mapped files: lazily loaded, sorted, bounded by the tree's own entry count
	blocks  []uint64 // indirect-mapped files: lazily resolved, bounded by wantBlocks

	cachedBlock int64
	cachedData  []byte

	// Single-entry lookup_block cache (spec §4.4): {last_logical_block,
	// last_physical_block, last_span}.
	haveLast     bool
	lastLogical  uint64
	lastPhysical uint64
	lastSpan     uint64
}

var _ storage.File = (*file)(nil)

func (f *file) Type() storage.FileType {
	return f.in.FileType()
}

func (f *file) Attr() storage.Attributes {
	b := storage.NewBag()
	b.Add(storage.KeySize, storage.ValueU64(f.in.Size))
	b.Add(storage.KeyID, storage.ValueU64(uint64(f.ino)))
	b.Add(storage.KeyMTime, storage.ValueI64(f.in.Mtime))
	b.Add(storage.KeyCTime, storage.ValueI64(f.in.Ctime))
	if f.in.Crtime != 0 {
		b.Add(storage.KeyBTime, storage.ValueI64(f.in.Crtime))
	}
	return b
}

// lookupBlock resolves logical to (physical, span) per spec §4.4, serving
// the single-entry cache first and otherwise dispatching to the extent or
// classical indirect-block path depending on the inode's flags.
func (f *file) lookupBlock(logical uint64) (uint64, uint64, error) {
	if f.haveLast && logical >= f.lastLogical && logical-f.lastLogical < f.lastSpan {
		delta := logical - f.lastLogical
		phys := f.lastPhysical
		if phys != 0 {
			phys += delta
		}
		return phys, f.lastSpan - delta, nil
	}

	var (
		physical, span uint64
		err            error
	)
	if f.in.UsesExtents() {
		physical, span, err = f.lookupExtentBlock(logical)
	} else {
		physical, span, err = f.lookupIndirectBlock(logical)
	}
	if err != nil {
		return 0, 0, err
	}

	f.haveLast = true
	f.lastLogical, f.lastPhysical, f.lastSpan = logical, physical, span
	return physical, span, nil
}

// lookupExtentBlock loads the inode's extent array on first use (bounded by
// the tree's own entry count, never by the file's logical block count) and
// binary-searches it via lookupExtent.
func (f *file) lookupExtentBlock(logical uint64) (uint64, uint64, error) {
	if f.extents == nil {
		extents, err := ExtentsOf(f.m.p, f.m.sb, f.in)
		if err != nil {
			return 0, 0, err
		}
		f.extents = extents
	}
	physical, span := lookupExtent(f.extents, logical)
	return physical, span, nil
}

// lookupIndirectBlock loads the classical indirect block list on first use,
// bounded by the inode's declared size, then answers from it directly,
// widening the span to cover the run of contiguous blocks (or contiguous
// hole) that follows logical.
func (f *file) lookupIndirectBlock(logical uint64) (uint64, uint64, error) {
	if f.blocks == nil {
		blockSize := uint64(f.m.sb.BlockSize)
		wantBlocks := (f.in.Size + blockSize - 1) / blockSize
		blocks, err := indirectBlocks(f.m.p, f.m.sb, f.in, wantBlocks)
		if err != nil {
			return 0, 0, err
		}
		f.blocks = blocks
	}
	if logical >= uint64(len(f.blocks)) {
		return 0, 1, nil
	}

	phys := f.blocks[logical]
	span := uint64(1)
	for logical+span < uint64(len(f.blocks)) {
		next := f.blocks[logical+span]
		if phys == 0 {
			if next != 0 {
				break
			}
		} else if next != phys+span {
			break
		}
		span++
	}
	return phys, span, nil
}

func (f *file) readBlock(physical uint64) ([]byte, error) {
	if int64(physical) == f.cachedBlock {
		return f.cachedData, nil
	}
	buf := make([]byte, f.m.sb.BlockSize)
	if physical != 0 {
		if err := storage.ReadExact(f.m.p, physical*uint64(f.m.sb.BlockSize), buf); err != nil {
			return nil, storage.Wrap("ext4: read data block", err)
		}
	}
	f.cachedBlock = int64(physical)
	f.cachedData = buf
	return buf, nil
}

func (f *file) ReadBytes(off uint64, buf []byte) (int, error) {
	if f.in.HasInlineData() || f.isFastSymlink() {
		return f.readInline(off, buf)
	}
	if off >= f.in.Size {
		return 0, nil
	}

	blockSize := uint64(f.m.sb.BlockSize)
	total := 0
	for total < len(buf) {
		curOff := off + uint64(total)
		if curOff >= f.in.Size {
			break
		}
		blockIdx := curOff / blockSize
		withinBlock := curOff % blockSize

		physical, _, err := f.lookupBlock(blockIdx)
		if err != nil {
			return total, err
		}
		data, err := f.readBlock(physical)
		if err != nil {
			return total, err
		}

		avail := blockSize - withinBlock
		remaining := uint64(len(buf) - total)
		n := avail
		if remaining < n {
			n = remaining
		}
		if fileRemaining := f.in.Size - curOff; fileRemaining < n {
			n = fileRemaining
		}
		copy(buf[total:], data[withinBlock:withinBlock+n])
		total += int(n)
	}
	return total, nil
}

// readInline serves data stored directly in i_block (EXT4_INLINE_DATA),
// skipping block resolution entirely.
func (f *file) readInline(off uint64, buf []byte) (int, error) {
	data := f.in.Block[:]
	if uint64(len(data)) < f.in.Size {
		// inline data never exceeds i_block's capacity; a larger
		// recorded size means the format invariant was violated
		return 0, storage.ErrInvalidFormatf("ext4: inline data exceeds i_block capacity")
	}
	data = data[:f.in.Size]
	if off >= uint64(len(data)) {
		return 0, nil
	}
	n := copy(buf, data[off:])
	return n, nil
}

// isFastSymlink reports whether this is a symlink short enough that ext4
// stored its target directly in i_block instead of a data block. Unlike
// EXT4_INLINE_DATA regular files, fast symlinks carry no explicit flag;
// the convention is a target length of at most the 60-byte i_block capacity.
func (f *file) isFastSymlink() bool {
	return f.in.FileType() == storage.FTSymLink && f.in.Size <= uint64(len(f.in.Block)) && !f.in.UsesExtents()
}

func (f *file) Dir() (storage.Dir, error) {
	if f.Type() != storage.FTDirectory {
		return nil, storage.ErrInvalidFormatf("ext4: not a directory")
	}
	return newDirIterator(f), nil
}

func (f *file) Open(childOffset uint64) (storage.File, error) {
	return f.m.openInode(uint32(childOffset))
}
