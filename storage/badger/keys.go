package badger

import (
	"fmt"

	"github.com/poiesic/schoolfinder/core"
	"github.com/poiesic/schoolfinder/storage"
)

// Key prefixes for different data types
const (
	directoryEntryPrefix  = "dirent"
	directoryIDPrefix     = "dirid"
	directorySourcePrefix = "dirsrc"
	geocodeCachePrefix    = "geoc"
)

// makeSourcePrefix returns the prefix shared by all entries of a source.
// Format: prefix:sourceID:
func makeSourcePrefix(sourceID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", directoryEntryPrefix, sourceID))
}

// makeEntryKey generates the key of an institution at a load position.
// Format: prefix:sourceID:position (4 bytes, big endian)
func makeEntryKey(sourceID string, pos uint32) []byte {
	prefix := makeSourcePrefix(sourceID)
	buf := make([]byte, 0, len(prefix)+4)
	buf = append(buf, prefix...)
	return append(buf, storage.MarshalPosition(pos)...)
}

// makeIDKey generates the id index key of an institution.
func makeIDKey(key core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", directoryIDPrefix, key))
}

// makeSourceKey generates the marker key recording that a source is loaded.
func makeSourceKey(sourceID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", directorySourcePrefix, sourceID))
}

// makeGeocodeKey generates a cache key for a normalized query.
func makeGeocodeKey(query string) []byte {
	return []byte(fmt.Sprintf("%s:%d", geocodeCachePrefix, core.IDFromContent(query)))
}
