package fat

import (
	"bytes"
	"encoding/binary"

	"github.com/ostafen/storagefs/pkg/storage"
)

// Short (8.3) directory entry attribute bits, named the way the teacher
// names them in internal/disk/fat.go.
const (
	AttrReadOnly = 0x01
	AttrHidden   = 0x02
	AttrSystem   = 0x04
	AttrVolumeID = 0x08
	AttrDir      = 0x10
	AttrArchive  = 0x20
	AttrLongName = AttrReadOnly | AttrHidden | AttrSystem | AttrVolumeID

	// fatPlusReservedBit is NT_Res bit 4 (0x10), FAT+'s reuse of a
	// reserved byte to flag a 32-bit size extension.
	fatPlusReservedBit = 0x10
)

const (
	dirEntryFree     = 0x00
	dirEntryDeleted  = 0xE5
	dirEntryKanji    = 0x05 // 0xE5 escaped as the first name byte
)

// rawShortEntry is the 32-byte 8.3 short directory entry.
type rawShortEntry struct {
	Name       [11]byte
	Attr       uint8
	NTRes      uint8
	CrtTimeT   uint8
	CrtTime    uint16
	CrtDate    uint16
	LastAccDate uint16
	FstClusHI  uint16
	WrtTime    uint16
	WrtDate    uint16
	FstClusLO  uint16
	FileSize   uint32
}

// rawLongEntry is the 32-byte VFAT long-name entry.
type rawLongEntry struct {
	Ord       uint8
	Name1     [10]byte
	Attr      uint8
	Type      uint8
	Checksum  uint8
	Name2     [12]byte
	FstClusLO uint16
	Name3     [4]byte
}

const dirEntrySize = 32

// lfnLastEntryBit marks the highest-ordinal LFN entry of a run: it holds
// the last part of the name but is stored first on disk, so it opens the
// run in reading order.
const lfnLastEntryBit = 0x40

func decodeShortEntry(buf []byte) (rawShortEntry, error) {
	var e rawShortEntry
	err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &e)
	return e, err
}

func decodeLongEntry(buf []byte) (rawLongEntry, error) {
	var e rawLongEntry
	err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &e)
	return e, err
}

// shortNameChecksum computes the VFAT checksum of the 11-byte 8.3 name,
// used to validate a long-name run belongs to the short entry it precedes.
func shortNameChecksum(name [11]byte) uint8 {
	var sum uint8
	for _, b := range name {
		sum = ((sum & 1) << 7) + (sum >> 1) + b
	}
	return sum
}

// firstCluster returns the entry's starting cluster number.
func (e *rawShortEntry) firstCluster() uint32 {
	return uint32(e.FstClusHI)<<16 | uint32(e.FstClusLO)
}

// fileType classifies a short entry.
func (e *rawShortEntry) fileType() storage.FileType {
	if e.Attr&AttrDir != 0 {
		return storage.FTDirectory
	}
	return storage.FTFile
}

// size returns the entry's byte size, folding in the FAT+ large-file
// extension: when NTRes bit 0x10 is set, the normally-reserved
// CrtTime/CrtDate fields carry the high 32 bits of a 64-bit size, per
// spec.md's FAT+ supplement. The extension is self-describing per entry,
// there is no volume-wide FAT+ toggle to consult.
func (e *rawShortEntry) size() uint64 {
	lo := uint64(e.FileSize)
	if e.NTRes&fatPlusReservedBit == 0 {
		return lo
	}
	hi := uint64(e.CrtTime) | uint64(e.CrtDate)<<16
	return lo | hi<<32
}

// dosNameToString renders an 8.3 name's 11-byte packed form as "NAME.EXT"
// (or "NAME" with no extension), trimming the space-padding.
func dosNameToString(raw [11]byte) string {
	name := bytes.TrimRight(raw[:8], " ")
	ext := bytes.TrimRight(raw[8:11], " ")
	if raw[0] == dirEntryKanji {
		name = append([]byte{0xE5}, name[1:]...)
	}
	if len(ext) == 0 {
		return string(name)
	}
	return string(name) + "." + string(ext)
}
