// Package mkfs builds a fresh FAT12/16/32 filesystem image on a
// storage.Writer. It is the only writer in the module: every other
// package is read-only, per spec.md's scope.
package mkfs

import (
	"github.com/google/uuid"

	"github.com/ostafen/storagefs/internal/fat"
	"github.com/ostafen/storagefs/pkg/storage"
)

// Plan is the fully computed geometry for a new FAT filesystem, derived
// from a requested size and a set of BPB-shaping Params. Planning is
// pure: it touches no Writer, so it can be previewed (size-vfat CLI
// subcommand) without committing to disk.
type Plan struct {
	TotalSize         uint64
	SectorSize        uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	RootDirEntries    uint16 // 0 for FAT32
	Variant           fat.Variant
	FATSize           uint32 // sectors per FAT
	VolumeID          uint32
	VolumeLabel       string
	Drive             uint8
	Media             uint8
	OEM               string
}

// Params configures Plan computation. Every field's zero value picks the
// mkfs.fat default named in spec.md §6: 512-byte sectors, 8 sectors per
// cluster, a single FAT, 1 reserved sector, 512 root entries, drive
// 0x80, media 0xF8, alignment on. Align defaults to true, so the Go
// field is inverted (NoAlign) to keep the zero-value-is-default idiom.
type Params struct {
	TotalSize   uint64
	SectorSize  uint16 // defaults to 512
	PerCluster  uint8  // sectors per cluster, defaults to 8
	NumFATs     uint8  // defaults to 1
	Reserved    uint16 // defaults to 1
	RootEntries uint16 // defaults to 512; ignored for FAT32
	NoAlign     bool   // defaults to false (aligned)
	Drive       uint8  // defaults to 0x80
	Media       uint8  // defaults to 0xF8
	OEM         string // defaults to " alpico "
	VolumeLabel string
	ForceFAT16  bool // force FAT16 even if FAT12 would fit; never promote to FAT32
	ForceFAT32  bool // force FAT32 even if FAT12/16 would fit
}

const (
	defaultSectorSize  = 512
	defaultPerCluster  = 8
	defaultNumFATs     = 1
	defaultReserved    = 1
	defaultRootEntries = 512
	defaultDrive       = 0x80
	defaultMedia       = 0xF8
	defaultOEM         = " alpico "

	fat12ClusterCeiling = 4085
	fat16ClusterCeiling = 65525
	fat32ClusterCeiling = 0x0FFF_FFF6
)

// withDefaults fills every zero-valued field of params with the spec's
// named default, leaving explicit overrides (including any profile
// already merged in by ApplyProfile) untouched.
func withDefaults(params Params) Params {
	if params.SectorSize == 0 {
		params.SectorSize = defaultSectorSize
	}
	if params.PerCluster == 0 {
		params.PerCluster = defaultPerCluster
	}
	if params.NumFATs == 0 {
		params.NumFATs = defaultNumFATs
	}
	if params.Reserved == 0 {
		params.Reserved = defaultReserved
	}
	if params.RootEntries == 0 {
		params.RootEntries = defaultRootEntries
	}
	if params.Drive == 0 {
		params.Drive = defaultDrive
	}
	if params.Media == 0 {
		params.Media = defaultMedia
	}
	if params.OEM == "" {
		params.OEM = defaultOEM
	}
	return params
}

// ceilDiv returns ceil(a/b) for non-negative integers, b != 0.
func ceilDiv(a, b uint64) uint64 {
	return (a + b - 1) / b
}

func rootDirSectors(entries uint16, sectorSize uint16) uint64 {
	if entries == 0 {
		return 0
	}
	return ceilDiv(uint64(entries)*32, uint64(sectorSize))
}

// fatCandidate is the result of trying one variant's fat_sizeNN formula
// from spec.md §4.9.
type fatCandidate struct {
	variant      fat.Variant
	fatSize      uint64
	clusterCount uint64
	ok           bool
}

// tryFAT12 implements fat_size12 = ceil(avail / (pc*(S*2/3) + nf)),
// accepting when the resulting cluster count stays below the FAT12
// ceiling — one sector holds S*2/3 FAT12 entries, since each entry is
// 12 bits (1.5 bytes).
func tryFAT12(avail uint64, sectorSize uint16, perCluster, numFATs uint64) fatCandidate {
	denom := perCluster*(uint64(sectorSize)*2/3) + numFATs
	fatSize := ceilDiv(avail, denom)
	used := numFATs * fatSize
	if used > avail {
		return fatCandidate{variant: fat.VariantFAT12}
	}
	clusters := (avail - used) / perCluster
	return fatCandidate{
		variant:      fat.VariantFAT12,
		fatSize:      fatSize,
		clusterCount: clusters,
		ok:           clusters < fat12ClusterCeiling,
	}
}

// tryFAT16 implements fat_size16 = ceil(avail / ((S/2)*pc + nf)) — one
// sector holds S/2 FAT16 entries, since each entry is 2 bytes.
func tryFAT16(avail uint64, sectorSize uint16, perCluster, numFATs uint64) fatCandidate {
	denom := (uint64(sectorSize)/2)*perCluster + numFATs
	fatSize := ceilDiv(avail, denom)
	used := numFATs * fatSize
	if used >= avail {
		return fatCandidate{variant: fat.VariantFAT16}
	}
	clusters := (avail - used) / perCluster
	return fatCandidate{
		variant:      fat.VariantFAT16,
		fatSize:      fatSize,
		clusterCount: clusters,
		ok:           clusters < fat16ClusterCeiling,
	}
}

// tryFAT32 implements epc = S*pc/4 (FAT32 entries addressable by one
// cluster's worth of FAT sectors, since each entry is 4 bytes) and
// fat_size32 = ceil((avail32 + pc*nf) / (epc + nf)).
func tryFAT32(avail32 uint64, sectorSize uint16, perCluster, numFATs uint64) fatCandidate {
	epc := uint64(sectorSize) * perCluster / 4
	denom := epc + numFATs
	fatSize := ceilDiv(avail32+perCluster*numFATs, denom)
	used := numFATs * fatSize
	if used >= avail32 {
		return fatCandidate{variant: fat.VariantFAT32}
	}
	clusters := (avail32 - used) / perCluster
	return fatCandidate{
		variant:      fat.VariantFAT32,
		fatSize:      fatSize,
		clusterCount: clusters,
		ok:           clusters < fat32ClusterCeiling,
	}
}

// selectVariant runs the spec's first-fit search: try FAT12, then
// FAT16, then FAT32 in order, picking the first whose cluster count
// fits that variant's addressing ceiling.
func selectVariant(totalSectors uint64, params Params) (fatCandidate, error) {
	perCluster := uint64(params.PerCluster)
	numFATs := uint64(params.NumFATs)
	rootSectors := rootDirSectors(params.RootEntries, params.SectorSize)

	if totalSectors <= uint64(params.Reserved)+rootSectors {
		return fatCandidate{}, storage.ErrInvalidFormatf("mkfs: volume too small to format")
	}
	avail := totalSectors - uint64(params.Reserved) - rootSectors
	avail32 := totalSectors - uint64(params.Reserved)

	if !params.ForceFAT16 && !params.ForceFAT32 {
		if c := tryFAT12(avail, params.SectorSize, perCluster, numFATs); c.ok {
			return c, nil
		}
	}
	if !params.ForceFAT32 {
		if c := tryFAT16(avail, params.SectorSize, perCluster, numFATs); c.ok {
			return c, nil
		}
		if params.ForceFAT16 {
			return fatCandidate{}, storage.ErrInvalidFormatf("mkfs: volume does not fit in FAT16")
		}
	}
	if c := tryFAT32(avail32, params.SectorSize, perCluster, numFATs); c.ok {
		return c, nil
	}
	return fatCandidate{}, storage.ErrInvalidFormatf("mkfs: volume too large for any FAT variant")
}

// ComputePlan derives a FAT layout for the requested size via the
// spec's try-FAT12-then-16-then-32 first-fit search over the fat_sizeNN
// formulas, then (unless NoAlign) pads ReservedSectors so the data
// region starts on a cluster-aligned sector.
func ComputePlan(params Params) (*Plan, error) {
	params = withDefaults(params)

	if params.TotalSize < uint64(params.SectorSize) {
		return nil, storage.ErrInvalidFormatf("mkfs: volume too small to format")
	}
	totalSectors := params.TotalSize / uint64(params.SectorSize)

	candidate, err := selectVariant(totalSectors, params)
	if err != nil {
		return nil, err
	}

	rootEntries := params.RootEntries
	if candidate.variant == fat.VariantFAT32 {
		rootEntries = 0
	}
	reserved := params.Reserved

	if !params.NoAlign {
		rootSectors := rootDirSectors(rootEntries, params.SectorSize)
		for {
			dataStart := uint64(reserved) + uint64(params.NumFATs)*candidate.fatSize + rootSectors
			if dataStart%uint64(params.PerCluster) == 0 {
				break
			}
			reserved++
		}
	}

	return &Plan{
		TotalSize:         params.TotalSize,
		SectorSize:        params.SectorSize,
		SectorsPerCluster: params.PerCluster,
		ReservedSectors:   reserved,
		NumFATs:           params.NumFATs,
		RootDirEntries:    rootEntries,
		Variant:           candidate.variant,
		FATSize:           uint32(candidate.fatSize),
		VolumeID:          uuidBasedVolumeID(),
		VolumeLabel:       params.VolumeLabel,
		Drive:             params.Drive,
		Media:             params.Media,
		OEM:               params.OEM,
	}, nil
}

// ClusterCount recomputes the data-region cluster count from a planned
// layout, used by the size-vfat CLI subcommand to preview a plan
// without writing anything.
func (p *Plan) ClusterCount() uint32 {
	totalSectors := uint32(p.TotalSize / uint64(p.SectorSize))
	rootSectors := uint32(rootDirSectors(p.RootDirEntries, p.SectorSize))
	used := uint32(p.ReservedSectors) + uint32(p.NumFATs)*p.FATSize + rootSectors
	if used >= totalSectors {
		return 0
	}
	return (totalSectors - used) / uint32(p.SectorsPerCluster)
}

// uuidBasedVolumeID derives a 32-bit volume serial from a fresh random
// UUID, the way the teacher's volume-tagging code would reach for
// google/uuid rather than hand-rolling entropy collection.
func uuidBasedVolumeID() uint32 {
	id := uuid.New()
	b := id[:]
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
