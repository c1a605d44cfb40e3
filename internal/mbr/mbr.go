// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package mbr decodes a classic Master Boot Record partition table and
// exposes its partitions as a synthetic directory, rather than a flat
// list: spec.md calls for partitions to be mountable children, which
// means every partition needs a name and a storage.File, not just a
// struct to print.
package mbr

import (
	"github.com/ostafen/storagefs/pkg/storage"
)

const (
	mbrSize            = 512
	mbrSignatureOffset = 0x1FE
	mbrSignature       = 0xAA55
	partitionTableOff  = 0x1BE
	partitionEntrySize = 16
)

// PartitionType mirrors the teacher's MBRPartition enum; the names cover
// the IDs common enough to see in the wild, everything else renders as a
// bare hex type in the synthetic directory.
type PartitionType uint8

const (
	PartitionTypeEmpty               PartitionType = 0x00
	PartitionTypeFAT12                PartitionType = 0x01
	PartitionTypeFAT16LessThan32MB   PartitionType = 0x04
	PartitionTypeExtendedCHS         PartitionType = 0x05
	PartitionTypeFAT16GreaterThan32MB PartitionType = 0x06
	PartitionTypeNTFSHPFSexFATQNX    PartitionType = 0x07
	PartitionTypeFAT32CHS            PartitionType = 0x0B
	PartitionTypeFAT32LBA            PartitionType = 0x0C
	PartitionTypeFAT16LBA            PartitionType = 0x0E
	PartitionTypeExtendedLBA         PartitionType = 0x0F
	PartitionTypeLinuxSwap           PartitionType = 0x82
	PartitionTypeLinuxFilesystem     PartitionType = 0x83
	PartitionTypeGPTProtectiveMBR    PartitionType = 0xEE
	PartitionTypeEFISystemPartition  PartitionType = 0xEF
)

func (t PartitionType) String() string {
	switch t {
	case PartitionTypeEmpty:
		return "empty"
	case PartitionTypeFAT12:
		return "FAT12"
	case PartitionTypeFAT16LessThan32MB:
		return "FAT16 (<32MB)"
	case PartitionTypeExtendedCHS:
		return "extended (CHS)"
	case PartitionTypeFAT16GreaterThan32MB:
		return "FAT16 (>32MB)"
	case PartitionTypeNTFSHPFSexFATQNX:
		return "NTFS/HPFS/exFAT/QNX"
	case PartitionTypeFAT32CHS:
		return "FAT32 (CHS)"
	case PartitionTypeFAT32LBA:
		return "FAT32 (LBA)"
	case PartitionTypeFAT16LBA:
		return "FAT16 (LBA)"
	case PartitionTypeExtendedLBA:
		return "extended (LBA)"
	case PartitionTypeLinuxSwap:
		return "Linux swap"
	case PartitionTypeLinuxFilesystem:
		return "Linux filesystem"
	case PartitionTypeGPTProtectiveMBR:
		return "GPT protective MBR"
	case PartitionTypeEFISystemPartition:
		return "EFI system partition"
	default:
		return "unknown"
	}
}

// PartitionEntry is one 16-byte MBR partition table record.
type PartitionEntry struct {
	BootIndicator uint8
	StartCHS      [3]byte
	PartitionType PartitionType
	EndCHS        [3]byte
	StartLBA      uint32
	TotalSectors  uint32
}

// Bootable reports whether the boot indicator marks this partition active.
func (e *PartitionEntry) Bootable() bool { return e.BootIndicator == 0x80 }

// Empty reports whether this partition table slot is unused.
func (e *PartitionEntry) Empty() bool {
	return e.PartitionType == PartitionTypeEmpty && e.TotalSectors == 0
}

// Table is the decoded 4-entry MBR partition table, plus the disk
// signature carried alongside it.
type Table struct {
	DiskSignature uint32
	Entries       [4]PartitionEntry
}

// Read parses the 512-byte MBR at offset 0 of p.
func Read(p storage.Provider) (*Table, error) {
	buf := make([]byte, mbrSize)
	if err := storage.ReadExact(p, 0, buf); err != nil {
		return nil, storage.Wrap("mbr: read sector", err)
	}

	sig := uint16(buf[mbrSignatureOffset]) | uint16(buf[mbrSignatureOffset+1])<<8
	if sig != mbrSignature {
		return nil, storage.ErrInvalidFormatf("mbr: bad signature 0x%04x", sig)
	}

	t := &Table{
		DiskSignature: leU32(buf[0x1B8:]),
	}
	for i := 0; i < 4; i++ {
		off := partitionTableOff + i*partitionEntrySize
		rec := buf[off : off+partitionEntrySize]
		e := &t.Entries[i]
		e.BootIndicator = rec[0]
		copy(e.StartCHS[:], rec[1:4])
		e.PartitionType = PartitionType(rec[4])
		copy(e.EndCHS[:], rec[5:8])
		e.StartLBA = leU32(rec[8:12])
		e.TotalSectors = leU32(rec[12:16])
	}
	return t, nil
}

func leU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// hasNestedSignature reports whether a partition's own first sector
// carries an MBR signature, i.e. the partition itself holds a nested or
// extended partition table rather than a plain filesystem.
func hasNestedSignature(p storage.Provider) (bool, error) {
	buf := make([]byte, 2)
	if err := storage.ReadExact(p, mbrSignatureOffset, buf); err != nil {
		return false, err
	}
	sig := uint16(buf[0]) | uint16(buf[1])<<8
	return sig == mbrSignature, nil
}
