package fat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/storagefs/pkg/storage"
)

func TestDosNameToStringWithExtension(t *testing.T) {
	raw := [11]byte{'R', 'E', 'A', 'D', 'M', 'E', ' ', ' ', 'T', 'X', 'T'}
	require.Equal(t, "README.TXT", dosNameToString(raw))
}

func TestDosNameToStringNoExtension(t *testing.T) {
	raw := [11]byte{'N', 'O', 'E', 'X', 'T', ' ', ' ', ' ', ' ', ' ', ' '}
	require.Equal(t, "NOEXT", dosNameToString(raw))
}

func TestDosNameToStringKanjiEscape(t *testing.T) {
	raw := [11]byte{dirEntryKanji, 'O', 'O', ' ', ' ', ' ', ' ', ' ', 'T', 'X', 'T'}
	require.Equal(t, "\xe5OO.TXT", dosNameToString(raw))
}

func TestShortEntryFirstCluster(t *testing.T) {
	e := rawShortEntry{FstClusHI: 0x0001, FstClusLO: 0x0002}
	require.Equal(t, uint32(0x00010002), e.firstCluster())
}

func TestShortEntryFileType(t *testing.T) {
	dir := rawShortEntry{Attr: AttrDir}
	require.Equal(t, storage.FTDirectory, dir.fileType())

	file := rawShortEntry{Attr: AttrArchive}
	require.Equal(t, storage.FTFile, file.fileType())
}

func TestShortEntrySizePlainFAT(t *testing.T) {
	e := rawShortEntry{FileSize: 1234}
	require.Equal(t, uint64(1234), e.size())
}

func TestShortEntrySizeFATPlusExtension(t *testing.T) {
	e := rawShortEntry{
		FileSize: 0x00000001,
		NTRes:    fatPlusReservedBit,
		CrtTime:  0x0002,
		CrtDate:  0x0000,
	}
	require.Equal(t, uint64(0x0000000200000001), e.size())
}

func TestShortNameChecksumMatchesKnownValue(t *testing.T) {
	// "README  TXT" packed 8.3 form; 0x73 is the rotate-right-and-add sum
	// of its 11 bytes, worked out by hand.
	name := [11]byte{'R', 'E', 'A', 'D', 'M', 'E', ' ', ' ', 'T', 'X', 'T'}
	sum := shortNameChecksum(name)
	require.Equal(t, uint8(0x73), sum)

	// The result is deterministic and differs for a different name.
	require.Equal(t, sum, shortNameChecksum(name))

	other := [11]byte{'O', 'T', 'H', 'E', 'R', ' ', ' ', ' ', 'T', 'X', 'T'}
	require.NotEqual(t, sum, shortNameChecksum(other))
}
