package ext4

import (
	"encoding/binary"

	"github.com/ostafen/storagefs/pkg/storage"
)

// Directory entry file-type byte (present when FeatureIncompatFiletype is
// set; otherwise the byte is the high byte of a 16-bit name length and
// the type must be derived from the target inode's mode instead).
const (
	directFTUnknown  = 0
	directFTRegular  = 1
	directFTDir      = 2
	directFTChar     = 3
	directFTBlock    = 4
	directFTFIFO     = 5
	directFTSock     = 6
	directFTSymlink  = 7
)

// rawDirent is the fixed 8-byte prefix of an ext4 directory entry, the
// Name bytes (NameLen of them) following immediately after in the block.
type rawDirent struct {
	Inode   uint32
	RecLen  uint16
	NameLen uint8
	FType   uint8
}

// DirEntry is a single decoded directory entry.
type DirEntry struct {
	Inode uint32
	Name  []byte
	FType uint8
}

// parseDirBlock walks one block's worth of directory entries, calling fn
// for each live entry (Inode != 0). RecLen chains entries together and a
// zero Inode marks a deleted/padding slot to be skipped, not a
// terminator: the chain continues until the block is exhausted.
func parseDirBlock(buf []byte, fn func(DirEntry) (stop bool)) error {
	off := 0
	for off+8 <= len(buf) {
		var d rawDirent
		d.Inode = binary.LittleEndian.Uint32(buf[off:])
		d.RecLen = binary.LittleEndian.Uint16(buf[off+4:])
		d.NameLen = buf[off+6]
		d.FType = buf[off+7]

		if d.RecLen < 8 {
			return storage.ErrInvalidFormatf("ext4: directory entry rec_len %d too small", d.RecLen)
		}
		if off+int(d.RecLen) > len(buf) {
			return storage.ErrInvalidFormatf("ext4: directory entry overruns block")
		}

		if d.Inode != 0 {
			nameEnd := off + 8 + int(d.NameLen)
			if nameEnd > len(buf) {
				return storage.ErrInvalidFormatf("ext4: directory entry name overruns block")
			}
			entry := DirEntry{
				Inode: d.Inode,
				Name:  buf[off+8 : nameEnd],
				FType: d.FType,
			}
			if fn(entry) {
				return nil
			}
		}
		off += int(d.RecLen)
	}
	return nil
}

// fileTypeFromDirent converts the on-disk dirent file-type byte to a
// storage.FileType. Any other value, including the 0 written by
// filesystems without the FILETYPE feature, yields storage.FTUnknown; the
// target inode is not consulted.
func fileTypeFromDirent(ft uint8) storage.FileType {
	switch ft {
	case directFTDir:
		return storage.FTDirectory
	case directFTRegular:
		return storage.FTFile
	case directFTSymlink:
		return storage.FTSymLink
	default:
		return storage.FTUnknown
	}
}
