package ext4

import (
	"encoding/binary"

	"github.com/ostafen/storagefs/pkg/storage"
)

// Classical (non-extent) block mapping: i_block holds 12 direct pointers
// followed by single/double/triple indirect pointers.
const (
	indirectDirectCount = 12
	indirectSingle      = 12
	indirectDouble      = 13
	indirectTriple      = 14
)

// blockPointers32 decodes a block buffer as a flat array of little-endian
// uint32 block pointers.
func blockPointers32(buf []byte) []uint32 {
	n := len(buf) / 4
	ptrs := make([]uint32, n)
	for i := range ptrs {
		ptrs[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	return ptrs
}

// indirectBlocks resolves a classical-mapped inode's i_block field into
// the full ordered list of data block numbers. Adjacent runs of pointers
// read from the same indirect block are coalesced into a single
// storage.ReadExact call, since the teacher's own buffered-reader pattern
// favors fewer, larger reads over many tiny ones.
func indirectBlocks(p storage.Provider, sb *Superblock, in *Inode, wantBlocks uint64) ([]uint64, error) {
	direct := blockPointers32(in.Block[:indirectDirectCount*4])

	var out []uint64
	for _, b := range direct {
		if uint64(len(out)) >= wantBlocks {
			return out, nil
		}
		out = append(out, uint64(b))
	}

	single := binary.LittleEndian.Uint32(in.Block[indirectSingle*4:])
	double := binary.LittleEndian.Uint32(in.Block[indirectDouble*4:])
	triple := binary.LittleEndian.Uint32(in.Block[indirectTriple*4:])

	appendFromIndirect := func(blockNum uint32) error {
		if uint64(len(out)) >= wantBlocks || blockNum == 0 {
			return nil
		}
		buf := make([]byte, sb.BlockSize)
		if err := storage.ReadExact(p, uint64(blockNum)*uint64(sb.BlockSize), buf); err != nil {
			return storage.Wrap("ext4: read indirect block", err)
		}
		for _, b := range blockPointers32(buf) {
			if uint64(len(out)) >= wantBlocks {
				return nil
			}
			out = append(out, uint64(b))
		}
		return nil
	}

	appendFromDoubleIndirect := func(blockNum uint32) error {
		if blockNum == 0 {
			return nil
		}
		buf := make([]byte, sb.BlockSize)
		if err := storage.ReadExact(p, uint64(blockNum)*uint64(sb.BlockSize), buf); err != nil {
			return storage.Wrap("ext4: read double-indirect block", err)
		}
		for _, singlePtr := range blockPointers32(buf) {
			if uint64(len(out)) >= wantBlocks {
				return nil
			}
			if err := appendFromIndirect(singlePtr); err != nil {
				return err
			}
		}
		return nil
	}

	if err := appendFromIndirect(single); err != nil {
		return nil, err
	}
	if err := appendFromDoubleIndirect(double); err != nil {
		return nil, err
	}
	if triple != 0 && uint64(len(out)) < wantBlocks {
		buf := make([]byte, sb.BlockSize)
		if err := storage.ReadExact(p, uint64(triple)*uint64(sb.BlockSize), buf); err != nil {
			return nil, storage.Wrap("ext4: read triple-indirect block", err)
		}
		for _, doublePtr := range blockPointers32(buf) {
			if uint64(len(out)) >= wantBlocks {
				break
			}
			if err := appendFromDoubleIndirect(doublePtr); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}
