package mkfs

import "github.com/ostafen/storagefs/pkg/storage"

// Profile is a named bundle of builder-configuration overrides, mirroring
// mkfs.fat's own floppy/media profiles: a preset of BPB-shaping knobs
// (cluster size, reserved sectors, FAT copies, alignment), not a volume
// size. A profile only fixes the axes it names; every other knob still
// comes from Params' own defaults or the caller's explicit overrides.
type Profile struct {
	SectorSize  uint16
	PerCluster  uint8
	RootEntries uint16
	NumFATs     uint8
	Reserved    uint16
	NoAlign     bool
}

// Profiles are the named presets from spec.md §6.
var Profiles = map[string]Profile{
	"tiny":   {SectorSize: 128, RootEntries: 1, PerCluster: 1, NoAlign: true},
	"small":  {NoAlign: true, RootEntries: 16, PerCluster: 1},
	"compat": {Reserved: 8, NumFATs: 2, PerCluster: 16},
	"large":  {PerCluster: 16, SectorSize: 4096},
	"huge":   {PerCluster: 128, SectorSize: 32768},
}

// DefaultProfile names the compat preset. mkfs-vfat applies a profile only
// when --profile is given; without it, Params' own defaults apply.
const DefaultProfile = "compat"

// ApplyProfile merges the named profile's overrides into params,
// filling only the fields the profile names and params left at zero.
// An explicit params field always wins over the profile.
func ApplyProfile(params Params, name string) (Params, error) {
	profile, ok := Profiles[name]
	if !ok {
		return Params{}, storage.ErrInvalidFormatf("mkfs: unknown profile %q", name)
	}
	if params.SectorSize == 0 {
		params.SectorSize = profile.SectorSize
	}
	if params.PerCluster == 0 {
		params.PerCluster = profile.PerCluster
	}
	if params.RootEntries == 0 {
		params.RootEntries = profile.RootEntries
	}
	if params.NumFATs == 0 {
		params.NumFATs = profile.NumFATs
	}
	if params.Reserved == 0 {
		params.Reserved = profile.Reserved
	}
	if profile.NoAlign {
		params.NoAlign = true
	}
	return params, nil
}
