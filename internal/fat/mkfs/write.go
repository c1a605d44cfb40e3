package mkfs

import (
	"github.com/ostafen/storagefs/internal/fat"
	"github.com/ostafen/storagefs/pkg/storage"
)

// fsInfoLeadSig / fsInfoStrucSig / fsInfoTrailSig are the FAT32 FSINFO
// sector's three fixed signatures.
const (
	fsInfoLeadSig  = 0x41615252
	fsInfoStrucSig = 0x61417272
	fsInfoTrailSig = 0xAA550000
)

// fsInfoNextFree is always written as 3: cluster 2 is claimed by the
// root directory, so the next free search should start at 3.
const fsInfoNextFree = 3

// Write lays down a complete FAT filesystem per plan onto w, in the
// teacher's discard-then-sequential-write order: discard the whole
// region first (so a short write leaves a recognizably zeroed, not
// half-old-half-new, volume), then boot sector, then (FAT32 only) FSINFO
// and the backup boot sector, then the reserved entries of each FAT copy.
func Write(w storage.Writer, plan *Plan) error {
	if err := storage.DiscardAll(w, 0, plan.TotalSize); err != nil {
		return storage.Wrap("mkfs: discard volume", err)
	}

	bpb := buildBPB(plan)
	if err := storage.WriteObject(w, 0, bpb); err != nil {
		return storage.Wrap("mkfs: write bpb", err)
	}

	const bpbSize = 36
	if plan.Variant == fat.VariantFAT32 {
		ext := buildExtBPB32(plan)
		if err := storage.WriteObject(w, bpbSize, ext); err != nil {
			return storage.Wrap("mkfs: write fat32 ext bpb", err)
		}
	} else {
		ext := buildExtBPB16(plan)
		if err := storage.WriteObject(w, bpbSize, ext); err != nil {
			return storage.Wrap("mkfs: write fat1x ext bpb", err)
		}
	}

	if err := writeBootSignature(w, 0); err != nil {
		return err
	}

	if plan.Variant == fat.VariantFAT32 {
		if err := writeFSInfo(w, uint64(fsInfoSector)*uint64(plan.SectorSize)); err != nil {
			return err
		}
		// Backup boot sector: an identical copy of sector 0 (+ FSINFO)
		// at sector 6, per the FAT32 spec's mandatory backup region.
		backupOff := uint64(backupBootSector) * uint64(plan.SectorSize)
		if err := storage.WriteObject(w, backupOff, bpb); err != nil {
			return storage.Wrap("mkfs: write backup bpb", err)
		}
		ext := buildExtBPB32(plan)
		if err := storage.WriteObject(w, backupOff+bpbSize, ext); err != nil {
			return storage.Wrap("mkfs: write backup ext bpb", err)
		}
		if err := writeBootSignature(w, backupOff); err != nil {
			return err
		}
		if err := writeFSInfo(w, backupOff+uint64(fsInfoSector)*uint64(plan.SectorSize)); err != nil {
			return err
		}
	}

	return writeReservedFATEntries(w, plan)
}

const (
	fsInfoSector     = 1
	backupBootSector = 6
)

func writeBootSignature(w storage.Writer, sectorOff uint64) error {
	sig := []byte{0x55, 0xAA}
	if err := storage.WriteExact(w, sectorOff+510, sig); err != nil {
		return storage.Wrap("mkfs: write boot signature", err)
	}
	return nil
}

func buildBPB(plan *Plan) fat.BPB {
	bpb := fat.BPB{
		Jump:              [3]byte{0xEB, 0x00, 0x90},
		SectorSize:        plan.SectorSize,
		SectorsPerCluster: plan.SectorsPerCluster,
		ReservedSectors:   plan.ReservedSectors,
		NumFATs:           plan.NumFATs,
		RootDirEntries:    plan.RootDirEntries,
		Media:             plan.Media,
		FATSize16:         0,
		SectorsPerTrack:   63,
		NumHeads:          255,
		TotalSectors32:    uint32(plan.TotalSize / uint64(plan.SectorSize)),
	}
	copy(bpb.OEMName[:], plan.OEM)
	if plan.Variant != fat.VariantFAT32 {
		bpb.FATSize16 = uint16(plan.FATSize)
	}
	if t := bpb.TotalSectors32; t <= 0xFFFF {
		bpb.TotalSectors16 = uint16(t)
		bpb.TotalSectors32 = 0
	}
	return bpb
}

func buildExtBPB16(plan *Plan) fat.ExtBPB16 {
	ext := fat.ExtBPB16{
		DriveNumber:   plan.Drive,
		BootSignature: 0x29,
		VolumeID:      plan.VolumeID,
	}
	copy(ext.VolumeLabel[:], padLabel(plan.VolumeLabel))
	label := "FAT16   "
	if plan.Variant == fat.VariantFAT12 {
		label = "FAT12   "
	}
	copy(ext.FileSystemType[:], label)
	return ext
}

func buildExtBPB32(plan *Plan) fat.ExtBPB32 {
	ext := fat.ExtBPB32{
		FATSize32:     plan.FATSize,
		RootCluster:   2,
		InfoSector:    fsInfoSector,
		BackupBoot:    backupBootSector,
		DriveNumber:   plan.Drive,
		BootSignature: 0x29,
		VolumeID:      plan.VolumeID,
	}
	copy(ext.VolumeLabel[:], padLabel(plan.VolumeLabel))
	copy(ext.FileSystemType[:], "FAT32   ")
	return ext
}

func padLabel(label string) []byte {
	buf := []byte("NO NAME    ")[:11]
	if label != "" {
		copy(buf, []byte(label))
		for i := len(label); i < 11; i++ {
			buf[i] = ' '
		}
	}
	return buf
}

func writeFSInfo(w storage.Writer, off uint64) error {
	buf := make([]byte, 512)
	putU32 := func(o int, v uint32) {
		buf[o] = byte(v)
		buf[o+1] = byte(v >> 8)
		buf[o+2] = byte(v >> 16)
		buf[o+3] = byte(v >> 24)
	}
	putU32(0, fsInfoLeadSig)
	putU32(484, fsInfoStrucSig)
	putU32(488, 0xFFFFFFFF) // free cluster count: unknown, per spec "always recompute on mount"
	putU32(492, fsInfoNextFree)
	putU32(508, fsInfoTrailSig)
	if err := storage.WriteExact(w, off, buf); err != nil {
		return storage.Wrap("mkfs: write fsinfo", err)
	}
	return nil
}

// writeReservedFATEntries seeds entry 0 (media descriptor in the low
// byte, all other bits set) and entry 1 (end-of-chain, with the two
// high bits conventionally used as clean-shutdown/no-io-error flags) in
// every FAT copy, and marks the FAT32 root directory's single cluster
// (cluster 2) as end-of-chain.
func writeReservedFATEntries(w storage.Writer, plan *Plan) error {
	fatOff := uint64(plan.ReservedSectors) * uint64(plan.SectorSize)
	fatSizeBytes := uint64(plan.FATSize) * uint64(plan.SectorSize)

	media := plan.Media
	entryBytes := func() []byte {
		switch plan.Variant {
		case fat.VariantFAT12:
			// Packed 12-bit entries: bytes [0]=media, [1]=0xFF, [2]=0xFF
			// encode entry0=0xFxx, entry1=0xFFF.
			return []byte{media, 0xFF, 0xFF}
		case fat.VariantFAT16:
			return []byte{media, 0xFF, 0xFF, 0xFF}
		default: // FAT32
			b := make([]byte, 12)
			b[0], b[1], b[2], b[3] = media, 0xFF, 0xFF, 0x0F
			b[4], b[5], b[6], b[7] = 0xFF, 0xFF, 0xFF, 0x0F
			// cluster 2 (root dir): end-of-chain
			b[8], b[9], b[10], b[11] = 0xFF, 0xFF, 0xFF, 0x0F
			return b
		}
	}()

	for i := uint8(0); i < plan.NumFATs; i++ {
		off := fatOff + uint64(i)*fatSizeBytes
		if err := storage.WriteExact(w, off, entryBytes); err != nil {
			return storage.Wrap("mkfs: write reserved fat entries", err)
		}
	}
	return nil
}
