package fat

import (
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/require"
)

// buildLFNEntries splits name into 13-UTF16-codeunit chunks (NUL-terminated
// and 0xFFFF-padded per the VFAT convention) and returns them in on-disk
// order: highest ordinal first.
func buildLFNEntries(name string, checksum uint8) []rawLongEntry {
	units := utf16.Encode([]rune(name))
	units = append(units, 0)
	for len(units)%13 != 0 {
		units = append(units, 0xFFFF)
	}

	n := len(units) / 13
	entries := make([]rawLongEntry, n)
	for i := 0; i < n; i++ {
		ord := i + 1
		chunk := units[i*13 : i*13+13]
		e := rawLongEntry{Ord: uint8(ord), Checksum: checksum}
		if ord == n {
			e.Ord |= lfnLastEntryBit
		}
		packUnits(chunk[0:5], e.Name1[:])
		packUnits(chunk[5:11], e.Name2[:])
		packUnits(chunk[11:13], e.Name3[:])
		entries[n-1-i] = e // highest ordinal first, on-disk order
	}
	return entries
}

func packUnits(units []uint16, dst []byte) {
	for i, u := range units {
		dst[i*2] = byte(u)
		dst[i*2+1] = byte(u >> 8)
	}
}

func TestLFNAssemblerResolvesShortName(t *testing.T) {
	const name = "a-long-filename.txt"
	short := rawShortEntry{Name: [11]byte{'A', 'L', 'O', 'N', 'G', '~', '1', ' ', 'T', 'X', 'T'}}
	checksum := shortNameChecksum(short.Name)

	a := newLFNAssembler()
	for _, e := range buildLFNEntries(name, checksum) {
		a.add(e)
	}

	resolved, ok := a.resolve(short)
	require.True(t, ok)
	require.Equal(t, name, resolved)
}

func TestLFNAssemblerChecksumMismatchFails(t *testing.T) {
	short := rawShortEntry{Name: [11]byte{'A', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' '}}
	wrongShort := rawShortEntry{Name: [11]byte{'B', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' '}}
	checksum := shortNameChecksum(wrongShort.Name)

	a := newLFNAssembler()
	for _, e := range buildLFNEntries("mismatched.txt", checksum) {
		a.add(e)
	}

	_, ok := a.resolve(short)
	require.False(t, ok)
}

func TestLFNAssemblerResetsOnOutOfSequenceEntry(t *testing.T) {
	short := rawShortEntry{Name: [11]byte{'A', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' '}}
	checksum := shortNameChecksum(short.Name)

	entries := buildLFNEntries("needs-two-entries-of-thirteen-units.txt", checksum)
	require.Greater(t, len(entries), 1)

	a := newLFNAssembler()
	a.add(entries[0]) // opener: starts a run of len(entries) entries
	a.add(entries[0]) // a second opener resets and restarts the run, leaving one entry pending

	_, ok := a.resolve(short)
	require.False(t, ok)
}

func TestLFNAssemblerResolvesFourEntryRun(t *testing.T) {
	// 40+ characters forces 4 LFN entries (13 UTF-16 units each), well past
	// the two-entry case that could accidentally pass a miscounted ordinal
	// check.
	const name = "a-rather-long-descriptive-filename-indeed.txt"
	short := rawShortEntry{Name: [11]byte{'A', 'R', 'A', 'T', 'H', '~', '1', ' ', 'T', 'X', 'T'}}
	checksum := shortNameChecksum(short.Name)

	entries := buildLFNEntries(name, checksum)
	require.GreaterOrEqual(t, len(entries), 3)

	a := newLFNAssembler()
	for _, e := range entries {
		a.add(e)
	}

	resolved, ok := a.resolve(short)
	require.True(t, ok)
	require.Equal(t, name, resolved)
}

func TestLFNAssemblerSingleEntryShortName(t *testing.T) {
	const name = "short.txt"
	short := rawShortEntry{Name: [11]byte{'S', 'H', 'O', 'R', 'T', ' ', ' ', ' ', 'T', 'X', 'T'}}
	checksum := shortNameChecksum(short.Name)

	entries := buildLFNEntries(name, checksum)
	require.Len(t, entries, 1)

	a := newLFNAssembler()
	a.add(entries[0])

	resolved, ok := a.resolve(short)
	require.True(t, ok)
	require.Equal(t, name, resolved)
}
