package fat

import "github.com/ostafen/storagefs/pkg/storage"

func init() {
	storage.RegisterKey("fat.attr", "raw 8.3 directory entry attribute byte")
	storage.RegisterKey("fat.variant", "FAT12, FAT16 or FAT32")
}
