// Package ext4 decodes the ext2/3/4 on-disk format (superblock, group
// descriptors, inodes, extent trees, classical indirect blocks, directory
// entries) and exposes it through the storage.File contract.
package ext4

import (
	"github.com/ostafen/storagefs/pkg/storage"
)

// SuperblockOffset is the fixed byte offset of the ext4 superblock.
const SuperblockOffset = 0x400

// Magic is the expected value of RawSuperblock.Magic.
const Magic = 0xEF53

// Incompatible feature bits. Anything outside featureIncompatWhitelist
// refuses the mount.
const (
	FeatureIncompatCompression = 0x1
	FeatureIncompatFiletype    = 0x2
	FeatureIncompatRecover     = 0x4
	FeatureIncompatJournalDev  = 0x8
	FeatureIncompatMetaBG      = 0x10
	FeatureIncompatExtents     = 0x40
	FeatureIncompat64Bit       = 0x80
	FeatureIncompatMMP         = 0x100
	FeatureIncompatFlexBG      = 0x200
)

// featureIncompatWhitelist is the set of incompat bits this read-only
// mount understands (or safely ignores). Anything else is refused per
// spec §4.3.
const featureIncompatWhitelist = FeatureIncompatFiletype |
	FeatureIncompatMetaBG |
	FeatureIncompatExtents |
	FeatureIncompat64Bit |
	FeatureIncompatRecover |
	FeatureIncompatJournalDev |
	FeatureIncompatFlexBG

// RawSuperblock is the bit-exact 1024-byte ext4 superblock layout. Decoded
// with storage.ReadObject, which walks fields in declaration order rather
// than reinterpreting Go's (padded) in-memory layout.
type RawSuperblock struct {
	InodesCount          uint32
	BlocksCountLo        uint32
	RBlocksCountLo       uint32
	FreeBlocksCountLo    uint32
	FreeInodesCount      uint32
	FirstDataBlock       uint32
	LogBlockSize         uint32
	LogClusterSize       uint32
	BlocksPerGroup       uint32
	ClustersPerGroup     uint32
	InodesPerGroup       uint32
	Mtime                uint32
	Wtime                uint32
	MntCount             uint16
	MaxMntCount          uint16
	Magic                uint16
	State                uint16
	Errors               uint16
	MinorRevLevel        uint16
	LastCheck            uint32
	CheckInterval        uint32
	CreatorOS            uint32
	RevLevel             uint32
	DefResuid            uint16
	DefResgid            uint16
	FirstIno             uint32
	InodeSize            uint16
	BlockGroupNr         uint16
	FeatureCompat        uint32
	FeatureIncompat      uint32
	FeatureRoCompat      uint32
	UUID                 [16]byte
	VolumeName           [16]byte
	LastMounted          [64]byte
	AlgorithmUsageBitmap uint32
	PreallocBlocks       uint8
	PreallocDirBlocks    uint8
	ReservedGdtBlocks    uint16
	JournalUUID          [16]byte
	JournalInum          uint32
	JournalDev           uint32
	LastOrphan           uint32
	HashSeed             [4]uint32
	DefHashVersion       uint8
	JnlBackupType        uint8
	DescSize             uint16
	DefaultMountOpts     uint32
	FirstMetaBg          uint32
	MkfsTime             uint32
	JnlBlocks            [17]uint32
	BlocksCountHi        uint32
	RBlocksCountHi       uint32
	FreeBlocksCountHi    uint32
	MinExtraIsize        uint16
	WantExtraIsize       uint16
	Flags                uint32
	RaidStride           uint16
	MmpInterval          uint16
	MmpBlock             uint64
	RaidStripeWidth      uint32
	LogGroupsPerFlex     uint8
	ChecksumType         uint8
	ReservedPad          uint16
	KbytesWritten        uint64
	SnapshotInum         uint32
	SnapshotID           uint32
	SnapshotRBlocksCount uint64
	SnapshotList         uint32
	ErrorCount           uint32
	FirstErrorTime       uint32
	FirstErrorIno        uint32
	FirstErrorBlock      uint64
	FirstErrorFunc       [32]byte
	FirstErrorLine       uint32
	LastErrorTime        uint32
	LastErrorIno         uint32
	LastErrorLine        uint32
	LastErrorBlock       uint64
	LastErrorFunc        [32]byte
	MountOpts            [64]byte
	UsrQuotaInum         uint32
	GrpQuotaInum         uint32
	OverheadClusters     uint32
	BackupBgs            [2]uint32
	EncryptAlgos         [4]uint8
	EncryptPwSalt        [16]byte
	LpfIno               uint32
	ProjQuotaInum        uint32
	ChecksumSeed         uint32
	WtimeHi              uint8
	MtimeHi              uint8
	MkfsTimeHi           uint8
	LastcheckHi          uint8
	FirstErrorTimeHi     uint8
	LastErrorTimeHi      uint8
	Pad                  [2]byte
	Encoding             uint16
	EncodingFlags        uint16
	OrphanFileInum       uint32
	Reserved             [94]uint32
	Checksum             uint32
}

// Superblock is the decoded, derived view of RawSuperblock used by the
// rest of the package.
type Superblock struct {
	Raw       RawSuperblock
	BlockSize uint32
	Is64Bit   bool
	HasFlex   bool
	HasMetaBG bool
	HasExtent bool
}

// BlocksCount returns the total block count, combining the hi/lo halves
// when the 64BIT feature is set.
func (sb *Superblock) BlocksCount() uint64 {
	n := uint64(sb.Raw.BlocksCountLo)
	if sb.Is64Bit {
		n |= uint64(sb.Raw.BlocksCountHi) << 32
	}
	return n
}

// GroupCount returns the number of block groups in the filesystem.
func (sb *Superblock) GroupCount() uint32 {
	bpg := sb.Raw.BlocksPerGroup
	if bpg == 0 {
		return 0
	}
	total := sb.BlocksCount()
	return uint32((total + uint64(bpg) - 1) / uint64(bpg))
}

// DescSize returns the on-disk group-descriptor record size: 64 bytes
// when 64BIT is set and Raw.DescSize says so, 32 bytes otherwise.
func (sb *Superblock) DescSize() uint32 {
	if sb.Is64Bit && sb.Raw.DescSize >= 64 {
		return uint32(sb.Raw.DescSize)
	}
	return 32
}

// InodeSize returns the on-disk inode record size, defaulting to the
// ext2-era 128 bytes when the superblock predates EXT4_DYNAMIC_REV.
func (sb *Superblock) InodeSize() uint32 {
	if sb.Raw.InodeSize == 0 {
		return 128
	}
	return uint32(sb.Raw.InodeSize)
}

// ReadSuperblock reads and validates the superblock at SuperblockOffset.
func ReadSuperblock(p storage.Provider) (*Superblock, error) {
	raw, err := storage.ReadObject[RawSuperblock](p, SuperblockOffset)
	if err != nil {
		return nil, storage.Wrap("ext4: read superblock", err)
	}
	if raw.Magic != Magic {
		return nil, storage.ErrInvalidFormatf("ext4: bad magic 0x%04x", raw.Magic)
	}
	if unknown := raw.FeatureIncompat &^ uint32(featureIncompatWhitelist); unknown != 0 {
		return nil, storage.ErrInvalidFormatf("ext4: unsupported incompat features 0x%x", unknown)
	}

	sb := &Superblock{
		Raw:       raw,
		BlockSize: 1 << (10 + raw.LogBlockSize),
		Is64Bit:   raw.FeatureIncompat&FeatureIncompat64Bit != 0,
		HasFlex:   raw.FeatureIncompat&FeatureIncompatFlexBG != 0,
		HasMetaBG: raw.FeatureIncompat&FeatureIncompatMetaBG != 0,
		HasExtent: raw.FeatureIncompat&FeatureIncompatExtents != 0,
	}
	return sb, nil
}
