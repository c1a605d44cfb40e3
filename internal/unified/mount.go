// Package unified probes a storage.Provider against every backend this
// module knows in a fixed order, so a caller that doesn't know what kind
// of image it's holding (a disk dump that could be an ext4 filesystem, a
// FAT filesystem, a JSON document, or a partitioned disk) doesn't have
// to guess which one to try.
package unified

import (
	"github.com/ostafen/storagefs/internal/ext4"
	"github.com/ostafen/storagefs/internal/fat"
	"github.com/ostafen/storagefs/internal/jsonfs"
	"github.com/ostafen/storagefs/internal/mbr"
	"github.com/ostafen/storagefs/pkg/storage"
)

// Kind identifies which backend a MountAny probe matched.
type Kind int

const (
	KindUnknown Kind = iota
	KindExt4
	KindJSON
	KindFAT
	KindMBR
)

func (k Kind) String() string {
	switch k {
	case KindExt4:
		return "ext4"
	case KindJSON:
		return "json"
	case KindFAT:
		return "fat"
	case KindMBR:
		return "mbr"
	default:
		return "unknown"
	}
}

// Mounted is the result of a successful MountAny probe.
type Mounted struct {
	Kind Kind
	Root storage.File
}

// MountAny tries each backend in a fixed order — ext4, then JSON, then
// FAT, then MBR — and returns the first that accepts p. The order
// matters: a FAT boot sector's first bytes can be mistaken for arbitrary
// binary data by nothing else in this list, but an MBR's 0xAA55 marker
// sits at the same offset a FAT boot sector's does, so FAT must be tried
// before MBR to avoid misclassifying a FAT volume as a partitioned disk.
func MountAny(p storage.Provider) (*Mounted, error) {
	if m, err := ext4.Open(p); err == nil {
		root, rerr := m.Root()
		if rerr != nil {
			return nil, storage.Wrap("unified: ext4 root", rerr)
		}
		return &Mounted{Kind: KindExt4, Root: root}, nil
	}

	if m, err := jsonfs.Open(p); err == nil {
		root, rerr := m.Root()
		if rerr != nil {
			return nil, storage.Wrap("unified: jsonfs root", rerr)
		}
		return &Mounted{Kind: KindJSON, Root: root}, nil
	}

	if m, err := fat.Open(p); err == nil {
		root, rerr := m.Root()
		if rerr != nil {
			return nil, storage.Wrap("unified: fat root", rerr)
		}
		return &Mounted{Kind: KindFAT, Root: root}, nil
	}

	if m, err := mbr.Open(p); err == nil {
		root, rerr := m.Root()
		if rerr != nil {
			return nil, storage.Wrap("unified: mbr root", rerr)
		}
		return &Mounted{Kind: KindMBR, Root: root}, nil
	}

	return nil, storage.ErrInvalidFormatf("unified: no backend recognized this image")
}
