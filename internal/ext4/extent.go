package ext4

import (
	"encoding/binary"
	"sort"

	"github.com/ostafen/storagefs/pkg/storage"
)

const extentMagic = 0xF30A

// maxExtentDepth bounds extent tree traversal against corrupt/cyclic
// depth fields that would otherwise loop forever.
const maxExtentDepth = 5

// extentHeader is the 12-byte header at the start of every extent tree
// node (whether stored inline in i_block or in a separate block).
type extentHeader struct {
	Magic      uint16
	Entries    uint16
	Max        uint16
	Depth      uint16
	Generation uint32
}

// extentLeaf maps a run of logical blocks to physical blocks.
type extentLeaf struct {
	Block   uint32 // first logical block covered
	Len     uint16 // block count; values > 32768 mark an uninitialized extent
	StartHi uint16
	StartLo uint32
}

// extentIndex points to a child node for logical blocks >= Block.
type extentIndex struct {
	Block  uint32
	LeafLo uint32
	LeafHi uint16
	Unused uint16
}

// Extent is a resolved, normalized (logical block, physical block, length)
// triple, with the uninitialized flag split out of Len.
type Extent struct {
	LogicalBlock  uint32
	PhysicalBlock uint64
	Length        uint32
	Uninitialized bool
}

func decodeExtentHeader(buf []byte) (extentHeader, error) {
	var h extentHeader
	if len(buf) < 12 {
		return h, storage.ErrInvalidFormatf("ext4: extent node truncated")
	}
	h.Magic = binary.LittleEndian.Uint16(buf[0:])
	h.Entries = binary.LittleEndian.Uint16(buf[2:])
	h.Max = binary.LittleEndian.Uint16(buf[4:])
	h.Depth = binary.LittleEndian.Uint16(buf[6:])
	h.Generation = binary.LittleEndian.Uint32(buf[8:])
	if h.Magic != extentMagic {
		return h, storage.ErrInvalidFormatf("ext4: bad extent magic 0x%04x", h.Magic)
	}
	return h, nil
}

func decodeExtentLeaf(buf []byte) extentLeaf {
	var l extentLeaf
	l.Block = binary.LittleEndian.Uint32(buf[0:])
	l.Len = binary.LittleEndian.Uint16(buf[4:])
	l.StartHi = binary.LittleEndian.Uint16(buf[6:])
	l.StartLo = binary.LittleEndian.Uint32(buf[8:])
	return l
}

func decodeExtentIndex(buf []byte) extentIndex {
	var ix extentIndex
	ix.Block = binary.LittleEndian.Uint32(buf[0:])
	ix.LeafLo = binary.LittleEndian.Uint32(buf[4:])
	ix.LeafHi = binary.LittleEndian.Uint16(buf[8:])
	ix.Unused = binary.LittleEndian.Uint16(buf[10:])
	return ix
}

// walkExtentNode resolves a single extent tree node (12-byte header
// followed by Entries records of 12 bytes each) into zero or more Extents,
// recursing into child index nodes up to maxExtentDepth.
func walkExtentNode(p storage.Provider, sb *Superblock, buf []byte, depth int, out *[]Extent) error {
	if depth > maxExtentDepth {
		return storage.ErrInvalidFormatf("ext4: extent tree too deep")
	}
	h, err := decodeExtentHeader(buf)
	if err != nil {
		return err
	}
	if int(h.Depth) > maxExtentDepth {
		return storage.ErrInvalidFormatf("ext4: extent header depth %d exceeds limit", h.Depth)
	}

	recordsOff := 12
	for i := 0; i < int(h.Entries); i++ {
		recOff := recordsOff + i*12
		if recOff+12 > len(buf) {
			return storage.ErrInvalidFormatf("ext4: extent node entries overrun buffer")
		}
		rec := buf[recOff : recOff+12]

		if h.Depth == 0 {
			l := decodeExtentLeaf(rec)
			length := uint32(l.Len)
			uninit := false
			if length > 32768 {
				length -= 32768
				uninit = true
			}
			*out = append(*out, Extent{
				LogicalBlock:  l.Block,
				PhysicalBlock: uint64(l.StartLo) | uint64(l.StartHi)<<32,
				Length:        length,
				Uninitialized: uninit,
			})
			continue
		}

		ix := decodeExtentIndex(rec)
		childBlock := uint64(ix.LeafLo) | uint64(ix.LeafHi)<<32
		child := make([]byte, sb.BlockSize)
		if err := storage.ReadExact(p, childBlock*uint64(sb.BlockSize), child); err != nil {
			return storage.Wrap("ext4: read extent child node", err)
		}
		if err := walkExtentNode(p, sb, child, depth+1, out); err != nil {
			return err
		}
	}
	return nil
}

// ExtentsOf resolves an inode's full extent list, sorted by LogicalBlock so
// lookupExtent can binary-search it. in.Block is the 60-byte i_block field,
// which for extent-mapped inodes is itself a valid root extent node (12-byte
// header + up to 4 inline leaf/index records).
func ExtentsOf(p storage.Provider, sb *Superblock, in *Inode) ([]Extent, error) {
	if !in.UsesExtents() {
		return nil, storage.ErrInvalidFormatf("ext4: inode does not use extents")
	}
	var out []Extent
	if err := walkExtentNode(p, sb, in.Block[:], 0, &out); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LogicalBlock < out[j].LogicalBlock })
	return out, nil
}

// lookupExtent resolves a single logical block against a sorted extent
// array via binary search for the greatest entry with LogicalBlock <=
// logical, per spec §4.4's lookup_block operation. physical==0 marks a
// hole of length span; span is sized to the next extent's start when one
// is known, so callers can skip the whole gap in one step rather than
// re-querying block by block.
func lookupExtent(extents []Extent, logical uint64) (physical uint64, span uint64) {
	if len(extents) == 0 {
		return 0, 1
	}

	lo, hi, best := 0, len(extents)-1, -1
	for lo <= hi {
		mid := (lo + hi) / 2
		if uint64(extents[mid].LogicalBlock) <= logical {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	if best == -1 {
		return 0, uint64(extents[0].LogicalBlock) - logical
	}

	e := extents[best]
	end := uint64(e.LogicalBlock) + uint64(e.Length)
	if logical < end {
		offset := logical - uint64(e.LogicalBlock)
		if e.Uninitialized {
			return 0, uint64(e.Length) - offset
		}
		return e.PhysicalBlock + offset, uint64(e.Length) - offset
	}

	// Beyond this extent: a hole. Size it to the next extent's start so
	// the caller can skip it in one step, falling back to the minimal
	// "re-query on next miss" span when there is no next extent.
	if best+1 < len(extents) {
		return 0, uint64(extents[best+1].LogicalBlock) - logical
	}
	return 0, 1
}
