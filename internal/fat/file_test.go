package fat

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/storagefs/pkg/storage"
)

func TestFileReadBytesSpansMultipleClusters(t *testing.T) {
	m, s := newTestFAT16Mount(t)

	// cluster 2 -> cluster 4 -> EOC.
	binary.LittleEndian.PutUint16(m.fat.data[2*2:], 4)
	binary.LittleEndian.PutUint16(m.fat.data[4*2:], 0xFFFF)

	cluster2 := bytes.Repeat([]byte{'A'}, 512)
	cluster4 := bytes.Repeat([]byte{'B'}, 512)
	_, err := s.WriteBytes(m.bs.clusterOffset(2), cluster2)
	require.NoError(t, err)
	_, err = s.WriteBytes(m.bs.clusterOffset(4), cluster4)
	require.NoError(t, err)

	f := m.newChainFile(2, rawShortEntry{FileSize: 600}, false)
	buf := make([]byte, 600)
	n, err := f.ReadBytes(0, buf)
	require.NoError(t, err)
	require.Equal(t, 600, n)
	require.Equal(t, bytes.Repeat([]byte{'A'}, 512), buf[:512])
	require.Equal(t, bytes.Repeat([]byte{'B'}, 88), buf[512:600])
}

func TestFileReadBytesPastEndReturnsZero(t *testing.T) {
	m, _ := newTestFAT16Mount(t)
	binary.LittleEndian.PutUint16(m.fat.data[2*2:], 0xFFFF)

	f := m.newChainFile(2, rawShortEntry{FileSize: 10}, false)
	buf := make([]byte, 10)
	n, err := f.ReadBytes(10, buf)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestFileDirRejectsNonDirectory(t *testing.T) {
	m, _ := newTestFAT16Mount(t)
	f := m.newChainFile(2, rawShortEntry{FileSize: 10}, false)
	_, err := f.Dir()
	require.Error(t, err)
}

func TestFileOpenResolvesChildFromDirentBytes(t *testing.T) {
	m, s := newTestFAT16Mount(t)
	binary.LittleEndian.PutUint16(m.fat.data[2*2:], 0xFFFF)

	rootOff := uint64(m.bs.rootDirSector()) * 512
	buf := make([]byte, 32)
	putShortEntry(buf, dosName("ATXT"), 0, 2, 5)
	_, err := s.WriteBytes(rootOff, buf)
	require.NoError(t, err)

	root := &file{m: m, isDir: true, fixedRoot: true, fixedOff: rootOff, fixedSize: 512}
	child, err := root.Open(0)
	require.NoError(t, err)
	require.Equal(t, storage.FTFile, child.Type())

	v, ok := child.Attr().Get(storage.KeySize, nil)
	require.True(t, ok)
	require.Equal(t, uint64(5), v.U64())
}
