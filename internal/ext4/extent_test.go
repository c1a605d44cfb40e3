package ext4_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/storagefs/internal/ext4"
	"github.com/ostafen/storagefs/pkg/storage/memory"
)

func putExtentHeader(buf []byte, entries, max, depth uint16) {
	binary.LittleEndian.PutUint16(buf[0:], 0xF30A)
	binary.LittleEndian.PutUint16(buf[2:], entries)
	binary.LittleEndian.PutUint16(buf[4:], max)
	binary.LittleEndian.PutUint16(buf[6:], depth)
}

func putExtentLeaf(buf []byte, block uint32, length uint16, startLo uint32, startHi uint16) {
	binary.LittleEndian.PutUint32(buf[0:], block)
	binary.LittleEndian.PutUint16(buf[4:], length)
	binary.LittleEndian.PutUint16(buf[6:], startHi)
	binary.LittleEndian.PutUint32(buf[8:], startLo)
}

func putExtentIndex(buf []byte, block uint32, leafLo uint32, leafHi uint16) {
	binary.LittleEndian.PutUint32(buf[0:], block)
	binary.LittleEndian.PutUint32(buf[4:], leafLo)
	binary.LittleEndian.PutUint16(buf[8:], leafHi)
}

func TestExtentsOfResolvesInlineLeaves(t *testing.T) {
	in := &ext4.Inode{Flags: 0x80000} // inodeFlagExtents

	putExtentHeader(in.Block[:12], 2, 4, 0)
	putExtentLeaf(in.Block[12:24], 0, 10, 1000, 0)
	putExtentLeaf(in.Block[24:36], 10, 5, 2000, 0)

	sb := &ext4.Superblock{BlockSize: 1024}
	extents, err := ext4.ExtentsOf(nil, sb, in)
	require.NoError(t, err)
	require.Len(t, extents, 2)

	require.Equal(t, ext4.Extent{LogicalBlock: 0, PhysicalBlock: 1000, Length: 10}, extents[0])
	require.Equal(t, ext4.Extent{LogicalBlock: 10, PhysicalBlock: 2000, Length: 5}, extents[1])
}

func TestExtentsOfSplitsUninitializedFlag(t *testing.T) {
	in := &ext4.Inode{Flags: 0x80000}

	putExtentHeader(in.Block[:12], 1, 4, 0)
	// Len > 32768 marks an uninitialized extent of length Len-32768.
	putExtentLeaf(in.Block[12:24], 0, 32768+7, 500, 0)

	sb := &ext4.Superblock{BlockSize: 1024}
	extents, err := ext4.ExtentsOf(nil, sb, in)
	require.NoError(t, err)
	require.Len(t, extents, 1)
	require.Equal(t, uint32(7), extents[0].Length)
	require.True(t, extents[0].Uninitialized)
}

func TestExtentsOfRejectsNonExtentInode(t *testing.T) {
	in := &ext4.Inode{Flags: 0}
	sb := &ext4.Superblock{BlockSize: 1024}
	_, err := ext4.ExtentsOf(nil, sb, in)
	require.Error(t, err)
}

func TestExtentsOfRecursesIntoChildNode(t *testing.T) {
	s := memory.NewSize(4096)

	// Child node lives at block 2 (byte offset 2048) and holds the real leaf.
	child := make([]byte, 1024)
	putExtentHeader(child[:12], 1, 4, 0)
	putExtentLeaf(child[12:24], 100, 3, 9000, 0)
	_, err := s.WriteBytes(2048, child)
	require.NoError(t, err)

	in := &ext4.Inode{Flags: 0x80000}
	putExtentHeader(in.Block[:12], 1, 4, 1) // depth 1: root holds an index record
	putExtentIndex(in.Block[12:24], 100, 2, 0)

	sb := &ext4.Superblock{BlockSize: 1024}
	extents, err := ext4.ExtentsOf(s, sb, in)
	require.NoError(t, err)
	require.Len(t, extents, 1)
	require.Equal(t, ext4.Extent{LogicalBlock: 100, PhysicalBlock: 9000, Length: 3}, extents[0])
}

func TestExtentsOfRejectsBadMagic(t *testing.T) {
	in := &ext4.Inode{Flags: 0x80000}
	// Leave Block zeroed: magic field is 0, not 0xF30A.
	sb := &ext4.Superblock{BlockSize: 1024}
	_, err := ext4.ExtentsOf(nil, sb, in)
	require.Error(t, err)
}

func TestExtentsOfRejectsDepthBeyondLimit(t *testing.T) {
	in := &ext4.Inode{Flags: 0x80000}
	putExtentHeader(in.Block[:12], 0, 4, 6) // depth 6 > maxExtentDepth (5)

	sb := &ext4.Superblock{BlockSize: 1024}
	_, err := ext4.ExtentsOf(nil, sb, in)
	require.Error(t, err)
}
