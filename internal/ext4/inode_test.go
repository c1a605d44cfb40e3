package ext4_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/storagefs/internal/ext4"
	"github.com/ostafen/storagefs/pkg/storage"
	"github.com/ostafen/storagefs/pkg/storage/memory"
)

func TestReadInodeDecodesCoreFields(t *testing.T) {
	s := memory.NewSize(16384)

	sb := &ext4.Superblock{
		BlockSize: 1024,
		Raw:       ext4.RawSuperblock{InodesPerGroup: 8192, InodeSize: 128},
	}
	// group 0 descriptor table at block 2 (byte 2048), inode table at block 10.
	require.NoError(t, writeObj(s, 2048, ext4.RawGroupDesc32{InodeTableLo: 10}))

	// inode 2 (root) sits at index 1: offset 10*1024 + 1*128 = 10368.
	core := rawInodeBytes(t, 0x4000|0755, 4096, 2)
	_, err := s.WriteBytes(10368, core)
	require.NoError(t, err)

	in, err := ext4.ReadInode(s, sb, 2)
	require.NoError(t, err)
	require.Equal(t, storage.FTDirectory, in.FileType())
	require.Equal(t, uint64(4096), in.Size)
	require.Equal(t, uint16(2), in.Links)
}

func TestReadInodeUsesExtentsFlag(t *testing.T) {
	s := memory.NewSize(16384)
	sb := &ext4.Superblock{
		BlockSize: 1024,
		Raw:       ext4.RawSuperblock{InodesPerGroup: 8192, InodeSize: 128},
	}
	require.NoError(t, writeObj(s, 2048, ext4.RawGroupDesc32{InodeTableLo: 10}))

	core := rawInodeBytes(t, 0x8000|0644, 10, 1)
	// Flags field at offset 32 within the 128-byte core; set inodeFlagExtents (0x80000).
	core[32] = 0x00
	core[33] = 0x00
	core[34] = 0x08
	core[35] = 0x00

	off := 10*1024 + 0*128
	_, err := s.WriteBytes(uint64(off), core)
	require.NoError(t, err)

	in, err := ext4.ReadInode(s, sb, 1)
	require.NoError(t, err)
	require.True(t, in.UsesExtents())
}

// rawInodeBytes builds a 128-byte inode core with the given mode, size and
// link count, matching rawInodeCore's field layout.
func rawInodeBytes(t *testing.T, mode uint16, size uint32, links uint16) []byte {
	t.Helper()
	buf := make([]byte, 128)
	putU16 := func(off int, v uint16) { buf[off], buf[off+1] = byte(v), byte(v>>8) }
	putU32 := func(off int, v uint32) {
		buf[off] = byte(v)
		buf[off+1] = byte(v >> 8)
		buf[off+2] = byte(v >> 16)
		buf[off+3] = byte(v >> 24)
	}
	putU16(0, mode)   // Mode
	putU32(4, size)   // SizeLo
	putU16(26, links) // LinksCount
	return buf
}

func writeObj(s *memory.Slice, off uint64, v ext4.RawGroupDesc32) error {
	return storage.WriteObject(s, off, v)
}
