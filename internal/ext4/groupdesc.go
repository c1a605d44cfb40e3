package ext4

import "github.com/ostafen/storagefs/pkg/storage"

// RawGroupDesc32 is the 32-byte (pre-64BIT) block group descriptor.
type RawGroupDesc32 struct {
	BlockBitmapLo     uint32
	InodeBitmapLo     uint32
	InodeTableLo      uint32
	FreeBlocksCountLo uint16
	FreeInodesCountLo uint16
	UsedDirsCountLo   uint16
	Flags             uint16
	ExcludeBitmapLo   uint32
	BlockBitmapCsumLo uint16
	InodeBitmapCsumLo uint16
	ItableUnusedLo    uint16
	Checksum          uint16
}

// RawGroupDesc64 is the 64-byte descriptor used when FeatureIncompat64Bit
// is set: the 32-byte record followed by the hi halves.
type RawGroupDesc64 struct {
	RawGroupDesc32
	BlockBitmapHi     uint32
	InodeBitmapHi     uint32
	InodeTableHi      uint32
	FreeBlocksCountHi uint16
	FreeInodesCountHi uint16
	UsedDirsCountHi   uint16
	ItableUnusedHi    uint16
	ExcludeBitmapHi   uint32
	BlockBitmapCsumHi uint16
	InodeBitmapCsumHi uint16
	Reserved          uint32
}

// GroupDesc is the combined, width-normalized view of a block group
// descriptor, regardless of whether the on-disk record was 32 or 64 bytes.
type GroupDesc struct {
	InodeTable uint64
	InodeCount uint32 // 0 means "use sb.InodesPerGroup"; non-zero only matters for the last group
}

// groupDescTableOffset returns the byte offset of the group descriptor
// table, which immediately follows the block containing the superblock.
func groupDescTableOffset(sb *Superblock) uint64 {
	if sb.BlockSize == 1024 {
		return 2048
	}
	return uint64(sb.BlockSize)
}

// ReadGroupDesc reads the descriptor for block group g.
func ReadGroupDesc(p storage.Provider, sb *Superblock, g uint32) (*GroupDesc, error) {
	descSize := sb.DescSize()
	off := groupDescTableOffset(sb) + uint64(g)*uint64(descSize)

	if descSize >= 64 {
		raw, err := storage.ReadObject[RawGroupDesc64](p, off)
		if err != nil {
			return nil, storage.Wrap("ext4: read group desc", err)
		}
		return &GroupDesc{
			InodeTable: uint64(raw.InodeTableLo) | uint64(raw.InodeTableHi)<<32,
		}, nil
	}

	raw, err := storage.ReadObject[RawGroupDesc32](p, off)
	if err != nil {
		return nil, storage.Wrap("ext4: read group desc", err)
	}
	return &GroupDesc{
		InodeTable: uint64(raw.InodeTableLo),
	}, nil
}

// locateInode returns the byte offset of inode number ino (1-based).
func locateInode(p storage.Provider, sb *Superblock, ino uint32) (uint64, error) {
	if ino == 0 {
		return 0, storage.ErrInvalidFormatf("ext4: inode 0 is not valid")
	}
	ipg := sb.Raw.InodesPerGroup
	if ipg == 0 {
		return 0, storage.ErrInvalidFormatf("ext4: inodes_per_group is zero")
	}
	group := (ino - 1) / ipg
	index := (ino - 1) % ipg

	gd, err := ReadGroupDesc(p, sb, group)
	if err != nil {
		return 0, err
	}
	isize := sb.InodeSize()
	return gd.InodeTable*uint64(sb.BlockSize) + uint64(index)*uint64(isize), nil
}
