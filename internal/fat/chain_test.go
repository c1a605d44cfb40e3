package fat

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/storagefs/pkg/storage/memory"
)

func fat16BootSector(fatSizeSectors uint16) *BootSector {
	return &BootSector{
		Variant: VariantFAT16,
		BPB: BPB{
			SectorSize:        512,
			SectorsPerCluster: 4,
			ReservedSectors:   1,
			NumFATs:           1,
			FATSize16:         fatSizeSectors,
		},
	}
}

func TestReadFATTableReadsExpectedRegion(t *testing.T) {
	bs := fat16BootSector(1)
	raw := make([]byte, 512+512)
	binary.LittleEndian.PutUint16(raw[512+2*5:], 0xFFFF) // entry for cluster 5: EOC
	s := memory.New(raw)

	tbl, err := readFATTable(s, bs)
	require.NoError(t, err)
	entry, err := tbl.entryAt(5)
	require.NoError(t, err)
	require.Equal(t, uint32(0xFFFF), entry)
}

func TestFAT16EntryAtOutOfRange(t *testing.T) {
	bs := fat16BootSector(1)
	tbl := &fatTable{bs: bs, data: make([]byte, 512)}
	_, err := tbl.entryAt(1000)
	require.Error(t, err)
}

func TestFAT12EntryAtPacksTwoEntriesPerThreeBytes(t *testing.T) {
	bs := &BootSector{Variant: VariantFAT12}
	// cluster 0 low 12 bits = 0xABC, cluster 1 high 12 bits = 0xDEF.
	data := []byte{0xBC, 0xFA, 0xDE}
	tbl := &fatTable{bs: bs, data: data}

	e0, err := tbl.entryAt(0)
	require.NoError(t, err)
	require.Equal(t, uint32(0xABC), e0)

	e1, err := tbl.entryAt(1)
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEF), e1)
}

func TestFAT32EntryAtMasksReservedBits(t *testing.T) {
	bs := &BootSector{Variant: VariantFAT32}
	data := make([]byte, 8)
	binary.LittleEndian.PutUint32(data[4:], 0xF0000005)
	tbl := &fatTable{bs: bs, data: data}

	e, err := tbl.entryAt(1)
	require.NoError(t, err)
	require.Equal(t, uint32(0x00000005), e)
}

func TestIsEOCAndIsBadPerVariant(t *testing.T) {
	tbl16 := &fatTable{bs: &BootSector{Variant: VariantFAT16}}
	require.True(t, tbl16.isEOC(0xFFF8))
	require.False(t, tbl16.isEOC(0x0005))
	require.True(t, tbl16.isBad(0xFFF7))

	tbl32 := &fatTable{bs: &BootSector{Variant: VariantFAT32}}
	require.True(t, tbl32.isEOC(0x0FFFFFF8))
	require.True(t, tbl32.isBad(0x0FFFFFF7))
}

func TestChainFollowsLinksToEOC(t *testing.T) {
	bs := &BootSector{Variant: VariantFAT16}
	data := make([]byte, 16*2)
	binary.LittleEndian.PutUint16(data[2*2:], 3)      // cluster 2 -> 3
	binary.LittleEndian.PutUint16(data[3*2:], 4)      // cluster 3 -> 4
	binary.LittleEndian.PutUint16(data[4*2:], 0xFFFF)  // cluster 4 -> EOC
	tbl := &fatTable{bs: bs, data: data}

	clusters, err := tbl.chain(2)
	require.NoError(t, err)
	require.Equal(t, []uint32{2, 3, 4}, clusters)
}

func TestChainDetectsCycle(t *testing.T) {
	bs := &BootSector{Variant: VariantFAT16}
	data := make([]byte, 16*2)
	binary.LittleEndian.PutUint16(data[2*2:], 3)
	binary.LittleEndian.PutUint16(data[3*2:], 2) // cycles back to 2
	tbl := &fatTable{bs: bs, data: data}

	_, err := tbl.chain(2)
	require.Error(t, err)
}

func TestChainRejectsBadCluster(t *testing.T) {
	bs := &BootSector{Variant: VariantFAT16}
	data := make([]byte, 16*2)
	binary.LittleEndian.PutUint16(data[2*2:], fat16Bad)
	tbl := &fatTable{bs: bs, data: data}

	_, err := tbl.chain(2)
	require.Error(t, err)
}

func TestChainStopsImmediatelyBelowCluster2(t *testing.T) {
	bs := &BootSector{Variant: VariantFAT16}
	tbl := &fatTable{bs: bs, data: make([]byte, 16)}
	clusters, err := tbl.chain(0)
	require.NoError(t, err)
	require.Empty(t, clusters)
}

func TestClusterOffsetAndSize(t *testing.T) {
	bs := &BootSector{
		BPB: BPB{
			SectorSize:        512,
			SectorsPerCluster: 4,
			ReservedSectors:   1,
			NumFATs:           1,
			FATSize16:         1,
		},
	}
	require.Equal(t, uint32(2048), bs.clusterSize())
	// firstDataSector = 1 + 1*1 + 0 = 2; cluster 2 starts there.
	require.Equal(t, uint64(2*512), bs.clusterOffset(2))
	require.Equal(t, uint64(2*512+2048), bs.clusterOffset(3))
}
