package fat

import "testing"

import "github.com/stretchr/testify/require"

func TestRootDirSectorAndFirstDataSector(t *testing.T) {
	bs := &BootSector{
		BPB: BPB{
			SectorSize:      512,
			ReservedSectors: 1,
			NumFATs:         2,
			RootDirEntries:  512,
			FATSize16:       40,
		},
	}
	require.Equal(t, uint32(81), bs.rootDirSector())      // 1 + 2*40
	require.Equal(t, uint32(113), bs.firstDataSector())   // 81 + 32 (root dir sectors)
}

func TestClusterCountZeroWhenSectorsPerClusterZero(t *testing.T) {
	bs := &BootSector{BPB: BPB{TotalSectors32: 1000}}
	require.Equal(t, uint32(0), bs.ClusterCount())
}

func TestRootDirSectorsZeroWhenSectorSizeZero(t *testing.T) {
	bs := &BootSector{BPB: BPB{RootDirEntries: 512}}
	require.Equal(t, uint32(0), bs.RootDirSectors())
}
