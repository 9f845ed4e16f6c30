package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/calyptra/forage/core"
)

// Key prefixes for different data types
const (
	recordPrefix     = "evirec"
	recordDatePrefix = "evirecd"
	recordIDSeq      = "evirecseq"
	artifactPrefix   = "artfile"
	llmConfigKey     = "llmcfg"
)

// makeRecordKey generates a key for an evidence record by ID.
func makeRecordKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", recordPrefix, id))
}

// makeRecordDateKey generates a composite key for the date index.
// Format: prefix:timestamp:id
func makeRecordDateKey(timestamp time.Time, id core.ID) []byte {
	prefix := recordDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialRecordDateKey generates a partial key for date range queries.
// Format: prefix:timestamp
func makePartialRecordDateKey(timestamp time.Time) []byte {
	prefix := recordDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for timestamp
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	return buf
}

// makeArtifactKey generates a key for an artifact file entry by path.
func makeArtifactKey(path string) []byte {
	return []byte(fmt.Sprintf("%s:%s", artifactPrefix, path))
}
