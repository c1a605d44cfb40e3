package ext4

import (
	"bytes"
	"encoding/binary"

	"github.com/ostafen/storagefs/pkg/storage"
)

// inode mode bits (the S_IF* family).
const (
	modeFmt    = 0xF000
	modeFIFO   = 0x1000
	modeChar   = 0x2000
	modeDir    = 0x4000
	modeBlock  = 0x6000
	modeRegular = 0x8000
	modeLink   = 0xA000
	modeSocket = 0xC000
)

// inodeFlagExtents marks an inode as using the extent tree rather than
// classical indirect blocks for block mapping.
const inodeFlagExtents = 0x80000

// inodeFlagInlineData marks an inode whose data lives directly in
// i_block/extra space rather than in data blocks.
const inodeFlagInlineData = 0x10000000

// rawInodeCore is the fixed 128-byte inode prefix common to every ext2/3/4
// on-disk revision.
type rawInodeCore struct {
	Mode       uint16
	UIDLo      uint16
	SizeLo     uint32
	Atime      uint32
	Ctime      uint32
	Mtime      uint32
	Dtime      uint32
	GIDLo      uint16
	LinksCount uint16
	BlocksLo   uint32
	Flags      uint32
	Version    uint32 // osd1, linux: l_i_version
	Block      [60]byte
	Generation uint32
	FileACLLo  uint32
	SizeHi     uint32
	FragAddr   uint32
	OSD2       [12]byte
}

// Inode is the decoded, revision-normalized view of an ext4 inode.
type Inode struct {
	Mode       uint16
	UID        uint32
	GID        uint32
	Size       uint64
	Links      uint16
	Flags      uint32
	Block      [60]byte // raw i_block: either 15 le32 pointers, or an extent header+nodes
	Atime      int64
	Mtime      int64
	Ctime      int64
	Crtime     int64 // 0 if the inode has no extra_isize/crtime
	Checksum   uint32
}

// UsesExtents reports whether this inode's block mapping is an extent
// tree rather than classical indirect blocks.
func (in *Inode) UsesExtents() bool { return in.Flags&inodeFlagExtents != 0 }

// HasInlineData reports whether file data is stored inline in i_block.
func (in *Inode) HasInlineData() bool { return in.Flags&inodeFlagInlineData != 0 }

// FileType maps the inode's mode bits to a storage.FileType.
func (in *Inode) FileType() storage.FileType {
	switch in.Mode & modeFmt {
	case modeDir:
		return storage.FTDirectory
	case modeLink:
		return storage.FTSymLink
	case modeRegular:
		return storage.FTFile
	default:
		return storage.FTUnknown
	}
}

// ReadInode reads and decodes inode number ino.
func ReadInode(p storage.Provider, sb *Superblock, ino uint32) (*Inode, error) {
	off, err := locateInode(p, sb, ino)
	if err != nil {
		return nil, err
	}
	isize := sb.InodeSize()
	buf := make([]byte, isize)
	if err := storage.ReadExact(p, off, buf); err != nil {
		return nil, storage.Wrap("ext4: read inode", err)
	}

	var core rawInodeCore
	if err := binary.Read(bytes.NewReader(buf[:128]), binary.LittleEndian, &core); err != nil {
		return nil, storage.Wrap("ext4: decode inode", err)
	}

	in := &Inode{
		Mode:  core.Mode,
		UID:   uint32(core.UIDLo),
		GID:   uint32(core.GIDLo),
		Size:  uint64(core.SizeLo) | uint64(core.SizeHi)<<32,
		Links: core.LinksCount,
		Flags: core.Flags,
		Block: core.Block,
		Atime: int64(core.Atime),
		Mtime: int64(core.Mtime),
		Ctime: int64(core.Ctime),
	}

	// Extra fields (extra_isize, nsec/hi extensions, crtime) live past the
	// 128-byte core and are only present when the inode record is large
	// enough to hold them.
	if isize > 128 {
		extra := buf[128:]
		readU16 := func(o int) uint16 {
			if o+2 > len(extra) {
				return 0
			}
			return binary.LittleEndian.Uint16(extra[o:])
		}
		extraIsize := readU16(0)
		avail := int(extraIsize) - 2 // extra_isize itself is 2 bytes
		readU32 := func(o int) uint32 {
			if o+4 > len(extra) || o >= avail+2 {
				return 0
			}
			return binary.LittleEndian.Uint32(extra[o:])
		}

		in.Ctime = Ext4Timestamp(int32(core.Ctime), readU32(4))
		in.Mtime = Ext4Timestamp(int32(core.Mtime), readU32(8))
		in.Atime = Ext4Timestamp(int32(core.Atime), readU32(12))
		if crtimeSec := readU32(16); crtimeSec != 0 || readU32(20) != 0 {
			in.Crtime = Ext4Timestamp(int32(crtimeSec), readU32(20))
		}
		in.Checksum = uint32(readU16(2))
	}

	return in, nil
}

// Ext4Timestamp combines a 32-bit on-disk second count with its 32-bit
// nsec/epoch-extension word into nanoseconds since the Unix epoch.
func Ext4Timestamp(sec int32, extra uint32) int64 {
	return storage.Ext4Timestamp(sec, extra)
}
