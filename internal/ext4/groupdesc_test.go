package ext4_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/storagefs/internal/ext4"
	"github.com/ostafen/storagefs/pkg/storage"
	"github.com/ostafen/storagefs/pkg/storage/memory"
)

func TestReadGroupDesc32Bit(t *testing.T) {
	s := memory.NewSize(4096)
	// BlockSize 1024 -> table at byte 2048 (the block after the superblock's).
	require.NoError(t, storage.WriteObject(s, 2048, ext4.RawGroupDesc32{
		InodeTableLo: 10,
	}))

	sb := &ext4.Superblock{BlockSize: 1024}
	gd, err := ext4.ReadGroupDesc(s, sb, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(10), gd.InodeTable)
}

func TestReadGroupDesc64Bit(t *testing.T) {
	s := memory.NewSize(4096)
	require.NoError(t, storage.WriteObject(s, 2048, ext4.RawGroupDesc64{
		RawGroupDesc32: ext4.RawGroupDesc32{InodeTableLo: 0xAABBCCDD},
		InodeTableHi:   0x1,
	}))

	sb := &ext4.Superblock{
		BlockSize: 2048,
		Is64Bit:   true,
		Raw:       ext4.RawSuperblock{DescSize: 64},
	}
	gd, err := ext4.ReadGroupDesc(s, sb, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(0x1)<<32|uint64(0xAABBCCDD), gd.InodeTable)
}

func TestReadGroupDescSecondGroupOffset(t *testing.T) {
	s := memory.NewSize(8192)
	// BlockSize 1024 -> table at byte 2048; 32-byte descriptors.
	require.NoError(t, storage.WriteObject(s, 2048+32, ext4.RawGroupDesc32{InodeTableLo: 42}))

	sb := &ext4.Superblock{BlockSize: 1024}
	gd, err := ext4.ReadGroupDesc(s, sb, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(42), gd.InodeTable)
}
