package fat

import (
	"encoding/binary"

	"github.com/ostafen/storagefs/pkg/storage"
)

// End-of-chain and bad-cluster markers, one set per variant width.
const (
	fat12EOCMin = 0x0FF8
	fat12Bad    = 0x0FF7
	fat16EOCMin = 0xFFF8
	fat16Bad    = 0xFFF7
	fat32EOCMin = 0x0FFFFFF8
	fat32Bad    = 0x0FFFFFF7
	fat32Mask   = 0x0FFFFFFF // top 4 bits of a FAT32 entry are reserved
)

// maxChainLength bounds cluster-chain walks against a corrupt FAT that
// cycles back on itself.
const maxChainLength = 1 << 24

// fatTable reads and caches the active FAT's raw bytes (there may be
// multiple identical copies; only FAT #0 is consulted, per spec.md).
type fatTable struct {
	bs   *BootSector
	data []byte
}

func readFATTable(p storage.Provider, bs *BootSector) (*fatTable, error) {
	size := uint64(bs.FATSize()) * uint64(bs.BPB.SectorSize)
	off := uint64(bs.BPB.ReservedSectors) * uint64(bs.BPB.SectorSize)
	buf := make([]byte, size)
	if err := storage.ReadExact(p, off, buf); err != nil {
		return nil, storage.Wrap("fat: read fat table", err)
	}
	return &fatTable{bs: bs, data: buf}, nil
}

// entryAt returns the raw cluster-chain entry for cluster n.
func (t *fatTable) entryAt(n uint32) (uint32, error) {
	switch t.bs.Variant {
	case VariantFAT12:
		byteOff := n + n/2
		if int(byteOff)+2 > len(t.data) {
			return 0, storage.ErrInvalidFormatf("fat: fat12 entry out of range")
		}
		v := binary.LittleEndian.Uint16(t.data[byteOff:])
		if n%2 == 0 {
			return uint32(v & 0x0FFF), nil
		}
		return uint32(v >> 4), nil

	case VariantFAT16:
		byteOff := n * 2
		if int(byteOff)+2 > len(t.data) {
			return 0, storage.ErrInvalidFormatf("fat: fat16 entry out of range")
		}
		return uint32(binary.LittleEndian.Uint16(t.data[byteOff:])), nil

	default: // VariantFAT32
		byteOff := n * 4
		if int(byteOff)+4 > len(t.data) {
			return 0, storage.ErrInvalidFormatf("fat: fat32 entry out of range")
		}
		return binary.LittleEndian.Uint32(t.data[byteOff:]) & fat32Mask, nil
	}
}

// isEOC reports whether entry marks the end of a cluster chain.
func (t *fatTable) isEOC(entry uint32) bool {
	switch t.bs.Variant {
	case VariantFAT12:
		return entry >= fat12EOCMin
	case VariantFAT16:
		return entry >= fat16EOCMin
	default:
		return entry >= fat32EOCMin
	}
}

// isBad reports whether entry marks a bad cluster.
func (t *fatTable) isBad(entry uint32) bool {
	switch t.bs.Variant {
	case VariantFAT12:
		return entry == fat12Bad
	case VariantFAT16:
		return entry == fat16Bad
	default:
		return entry == fat32Bad
	}
}

// chain walks the cluster chain starting at first, returning the ordered
// list of cluster numbers. A bad cluster or a cycle aborts with
// ErrInvalidFormat rather than looping or silently truncating.
func (t *fatTable) chain(first uint32) ([]uint32, error) {
	var out []uint32
	seen := make(map[uint32]bool)
	cur := first
	for {
		if cur < 2 {
			break
		}
		if seen[cur] {
			return nil, storage.ErrInvalidFormatf("fat: cluster chain cycles at %d", cur)
		}
		if len(out) > maxChainLength {
			return nil, storage.ErrInvalidFormatf("fat: cluster chain exceeds sane length")
		}
		seen[cur] = true
		out = append(out, cur)

		entry, err := t.entryAt(cur)
		if err != nil {
			return nil, err
		}
		if t.isBad(entry) {
			return nil, storage.ErrInvalidFormatf("fat: chain references bad cluster %d", cur)
		}
		if t.isEOC(entry) {
			break
		}
		cur = entry
	}
	return out, nil
}

// clusterOffset returns the byte offset of the start of cluster n's data.
func (bs *BootSector) clusterOffset(n uint32) uint64 {
	sector := bs.firstDataSector() + (n-2)*uint32(bs.BPB.SectorsPerCluster)
	return uint64(sector) * uint64(bs.BPB.SectorSize)
}

// clusterSize returns the byte size of one cluster.
func (bs *BootSector) clusterSize() uint32 {
	return uint32(bs.BPB.SectorsPerCluster) * uint32(bs.BPB.SectorSize)
}
