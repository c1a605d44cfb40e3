package storage

import "github.com/ostafen/storagefs/pkg/table"

// KeyInfo documents a well-known attribute key with a human-readable
// description.
type KeyInfo struct {
	Key         Key
	Description string
}

var keyRegistry = table.New[KeyInfo]()

// RegisterKey adds (or overwrites) documentation for a well-known
// attribute key. Backends call this from an init(); LookupKey reads the
// registry back.
func RegisterKey(key Key, description string) {
	keyRegistry.Insert([]byte(key), KeyInfo{Key: key, Description: description})
}

// LookupKey returns the registered documentation for key, if any.
func LookupKey(key Key) (KeyInfo, bool) {
	return keyRegistry.Get([]byte(key))
}

func init() {
	RegisterKey(KeyATime, "last access time (ns since epoch)")
	RegisterKey(KeyBTime, "birth/creation time (ns since epoch)")
	RegisterKey(KeyMTime, "last modification time (ns since epoch)")
	RegisterKey(KeyCTime, "last metadata-change time (ns since epoch)")
	RegisterKey(KeySize, "size in bytes")
	RegisterKey(KeyID, "filesystem-scoped unique id")
	RegisterKey(KeyFType, "rendered FileType")
}
