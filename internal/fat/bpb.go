// Package fat decodes FAT12/16/32 (including VFAT long names and the
// FAT+ large-file extension) and exposes it through the storage.File
// contract.
package fat

import (
	"bytes"
	"encoding/binary"

	"github.com/ostafen/storagefs/pkg/storage"
)

// BootSectorSize is the fixed size of sector 0 on any FAT volume.
const BootSectorSize = 512

// bootSectorMarker is the mandatory 0xAA55 signature at the end of the
// boot sector.
const bootSectorMarker = 0xAA55

// BPB is the common BIOS Parameter Block prefix shared by FAT12, FAT16
// and FAT32, decoded field-by-field the way the teacher's
// ReadFatBootSectorFrom decodes its own FatBootSector.
type BPB struct {
	Jump              [3]byte
	OEMName           [8]byte
	SectorSize        uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	RootDirEntries    uint16
	TotalSectors16    uint16
	Media             uint8
	FATSize16         uint16
	SectorsPerTrack   uint16
	NumHeads          uint16
	HiddenSectors     uint32
	TotalSectors32    uint32
}

// bpbSize is binary.Size(BPB{}): 3+8+2+1+2+1+2+2+1+2+2+2+4+4 = 36.
const bpbSize = 36

// ExtBPB16 is the FAT12/16 extended BPB, immediately following BPB.
type ExtBPB16 struct {
	DriveNumber    uint8
	Reserved1      uint8
	BootSignature  uint8
	VolumeID       uint32
	VolumeLabel    [11]byte
	FileSystemType [8]byte
}

// ExtBPB32 is the FAT32 extended BPB, immediately following BPB.
type ExtBPB32 struct {
	FATSize32      uint32
	Flags          uint16
	Version        uint16
	RootCluster    uint32
	InfoSector     uint16
	BackupBoot     uint16
	Reserved       [12]byte
	DriveNumber    uint8
	Reserved1      uint8
	BootSignature  uint8
	VolumeID       uint32
	VolumeLabel    [11]byte
	FileSystemType [8]byte
}

// Variant identifies the FAT width, decided from cluster count per
// spec.md, never from the FileSystemType string (which is cosmetic).
type Variant int

const (
	VariantFAT12 Variant = iota
	VariantFAT16
	VariantFAT32
)

func (v Variant) String() string {
	switch v {
	case VariantFAT12:
		return "FAT12"
	case VariantFAT16:
		return "FAT16"
	case VariantFAT32:
		return "FAT32"
	default:
		return "unknown"
	}
}

// BootSector is the fully decoded, variant-resolved boot sector.
type BootSector struct {
	BPB      BPB
	Ext16    *ExtBPB16
	Ext32    *ExtBPB32
	Variant  Variant
}

// FATSize returns the size in sectors of one FAT.
func (bs *BootSector) FATSize() uint32 {
	if bs.BPB.FATSize16 != 0 {
		return uint32(bs.BPB.FATSize16)
	}
	if bs.Ext32 != nil {
		return bs.Ext32.FATSize32
	}
	return 0
}

// TotalSectors returns the volume's total sector count.
func (bs *BootSector) TotalSectors() uint32 {
	if bs.BPB.TotalSectors16 != 0 {
		return uint32(bs.BPB.TotalSectors16)
	}
	return bs.BPB.TotalSectors32
}

// RootDirSectors returns the number of sectors occupied by the fixed-size
// FAT12/16 root directory region (zero for FAT32, whose root lives in a
// normal cluster chain).
func (bs *BootSector) RootDirSectors() uint32 {
	bytesPerSector := uint32(bs.BPB.SectorSize)
	if bytesPerSector == 0 {
		return 0
	}
	entries := uint32(bs.BPB.RootDirEntries)
	return (entries*32 + bytesPerSector - 1) / bytesPerSector
}

// firstDataSector returns the sector number where cluster 2 begins.
func (bs *BootSector) firstDataSector() uint32 {
	return uint32(bs.BPB.ReservedSectors) + uint32(bs.BPB.NumFATs)*bs.FATSize() + bs.RootDirSectors()
}

// rootDirSector returns the sector number of the fixed FAT12/16 root
// directory region.
func (bs *BootSector) rootDirSector() uint32 {
	return uint32(bs.BPB.ReservedSectors) + uint32(bs.BPB.NumFATs)*bs.FATSize()
}

// ClusterCount returns the number of data clusters, the sole authority
// for deciding the FAT variant per spec.md.
func (bs *BootSector) ClusterCount() uint32 {
	total := bs.TotalSectors()
	dataSectors := total - bs.firstDataSector()
	spc := uint32(bs.BPB.SectorsPerCluster)
	if spc == 0 {
		return 0
	}
	return dataSectors / spc
}

// Cluster-count thresholds ReadBootSector decides the variant from: <4085
// is FAT12, <65525 is FAT16, otherwise FAT32. RootDirEntries == 0 (FAT32's
// cluster-chained root) only selects which extended BPB is decoded; it
// never decides the variant.
const (
	maxFAT12Clusters = 4085
	maxFAT16Clusters = 65525
)

// ReadBootSector reads and decodes sector 0, resolving the FAT variant
// from cluster count.
func ReadBootSector(p storage.Provider) (*BootSector, error) {
	buf := make([]byte, BootSectorSize)
	if err := storage.ReadExact(p, 0, buf); err != nil {
		return nil, storage.Wrap("fat: read boot sector", err)
	}

	var bpb BPB
	if err := binary.Read(bytes.NewReader(buf[:bpbSize]), binary.LittleEndian, &bpb); err != nil {
		return nil, storage.Wrap("fat: decode bpb", err)
	}
	marker := binary.LittleEndian.Uint16(buf[510:512])
	if marker != bootSectorMarker {
		return nil, storage.ErrInvalidFormatf("fat: bad boot sector marker 0x%04x", marker)
	}

	bs := &BootSector{BPB: bpb}

	// Tentatively decide the variant from RootDirEntries (0 implies
	// FAT32) to know which extended BPB to parse, then confirm/override
	// from the authoritative cluster count once TotalSectors is known.
	if bpb.RootDirEntries == 0 {
		var ext32 ExtBPB32
		if err := binary.Read(bytes.NewReader(buf[bpbSize:bpbSize+binary.Size(ext32)]), binary.LittleEndian, &ext32); err != nil {
			return nil, storage.Wrap("fat: decode fat32 ext bpb", err)
		}
		bs.Ext32 = &ext32
	} else {
		var ext16 ExtBPB16
		if err := binary.Read(bytes.NewReader(buf[bpbSize:bpbSize+binary.Size(ext16)]), binary.LittleEndian, &ext16); err != nil {
			return nil, storage.Wrap("fat: decode fat1x ext bpb", err)
		}
		bs.Ext16 = &ext16
	}

	clusters := bs.ClusterCount()
	switch {
	case clusters < maxFAT12Clusters:
		bs.Variant = VariantFAT12
	case clusters < maxFAT16Clusters:
		bs.Variant = VariantFAT16
	default:
		bs.Variant = VariantFAT32
	}

	return bs, nil
}
