package mbr

import (
	"github.com/ostafen/storagefs/pkg/storage"
)

// aliasIterator walks the (at most 4) partition slots, yielding one or
// more synthetic directory entries per non-empty partition: an always
// present "raw-N", a "boot-N" alias when the active flag is set, and a
// "type-XX-N" alias naming the partition type byte in hex. All aliases
// for the same partition resolve to an equivalent File, since they are
// just different names for the same byte range.
type aliasIterator struct {
	m       *Mount
	partIdx int
	pending []string
}

func newAliasIterator(m *Mount) *aliasIterator {
	return &aliasIterator{m: m}
}

func namesFor(idx int, e *PartitionEntry) []string {
	raw := storage.NewNameBuilder(make([]byte, 0, 16)).String("raw-").Uint(uint64(idx)).Result()
	names := []string{raw}
	if e.Bootable() {
		boot := storage.NewNameBuilder(make([]byte, 0, 16)).String("boot-").Uint(uint64(idx)).Result()
		names = append(names, boot)
	}
	typ := storage.NewNameBuilder(make([]byte, 0, 16)).
		String("type-").HexByte(uint8(e.PartitionType)).Byte('-').Uint(uint64(idx)).Result()
	names = append(names, typ)
	return names
}

func (it *aliasIterator) Next(name []byte) (storage.DirEntry, bool, error) {
	for len(it.pending) == 0 {
		if it.partIdx >= len(it.m.table.Entries) {
			return storage.DirEntry{}, false, nil
		}
		e := &it.m.table.Entries[it.partIdx]
		if !e.Empty() {
			it.pending = namesFor(it.partIdx, e)
		}
		it.partIdx++
	}

	n := it.pending[0]
	it.pending = it.pending[1:]
	copy(name, n)

	idx := it.partIdx - 1
	return storage.DirEntry{
		Offset: uint64(idx),
		ID:     uint64(idx),
		Nlen:   len(n),
		Type:   partitionType(it.m, idx),
	}, true, nil
}

var _ storage.Dir = (*aliasIterator)(nil)
