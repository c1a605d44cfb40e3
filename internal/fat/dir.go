package fat

import "github.com/ostafen/storagefs/pkg/storage"

// dirIterator implements storage.Dir over a FAT directory's flat
// 32-byte-record byte stream (fixed root region or cluster chain,
// f.ReadBytes hides the difference), reassembling VFAT long names as it
// scans.
type dirIterator struct {
	f      *file
	offset uint64
	lfn    *lfnAssembler
	done   bool
}

func newDirIterator(f *file) *dirIterator {
	return &dirIterator{f: f, lfn: newLFNAssembler()}
}

func (it *dirIterator) Next(name []byte) (storage.DirEntry, bool, error) {
	if it.done {
		return storage.DirEntry{}, false, nil
	}

	var buf [dirEntrySize]byte
	for {
		shortOff := it.offset
		n, err := it.f.ReadBytes(it.offset, buf[:])
		if err != nil {
			return storage.DirEntry{}, false, err
		}
		if n < dirEntrySize {
			it.done = true
			return storage.DirEntry{}, false, nil
		}
		it.offset += dirEntrySize

		switch buf[0] {
		case dirEntryFree:
			it.done = true
			return storage.DirEntry{}, false, nil
		case dirEntryDeleted:
			it.lfn.reset()
			continue
		}

		if buf[11] == AttrLongName {
			le, err := decodeLongEntry(buf[:])
			if err != nil {
				return storage.DirEntry{}, false, err
			}
			it.lfn.add(le)
			continue
		}

		se, err := decodeShortEntry(buf[:])
		if err != nil {
			return storage.DirEntry{}, false, err
		}
		if se.Attr&AttrVolumeID != 0 {
			it.lfn.reset()
			continue
		}
		if se.Name == [11]byte{'.', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' '} ||
			se.Name == [11]byte{'.', '.', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' '} {
			it.lfn.reset()
			continue
		}

		longName, hasLong := it.lfn.resolve(se)
		displayName := longName
		if !hasLong {
			displayName = dosNameToString(se.Name)
		}
		copy(name, displayName)

		ftype := storage.FTFile
		if se.Attr&AttrDir != 0 {
			ftype = storage.FTDirectory
		}

		return storage.DirEntry{
			Offset: shortOff,
			ID:     shortOff,
			Nlen:   len(displayName),
			Type:   ftype,
		}, true, nil
	}
}

var _ storage.Dir = (*dirIterator)(nil)
