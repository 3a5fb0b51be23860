package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/bbrooksdsq/ai-knowledge-database/core"
)

// Key prefixes for different data types
const (
	documentPrefix     = "docrec"
	documentDatePrefix = "docrecd"
	documentIDSeq      = "docrecseq"
	chunkPrefix        = "chkrec"
	queryLogPrefix     = "qrylog"
	queryLogDatePrefix = "qrylogd"
	queryLogIDSeq      = "qrylogseq"
)

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", documentPrefix, id))
}

// makeDocumentDateKey generates a composite key for the creation-time index.
// Format: prefix:timestamp:id
func makeDocumentDateKey(timestamp time.Time, id core.ID) []byte {
	prefix := []byte(documentDatePrefix + ":")
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeChunkKey generates a composite key for a chunk record.
// Format: prefix:docID:index, BigEndian so iteration yields (doc, index) order.
func makeChunkKey(docID core.ID, index int) []byte {
	prefix := []byte(chunkPrefix + ":")
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(docID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(index))
	return buf
}

// makeChunkDocPrefix generates the key prefix covering all chunks of a document.
func makeChunkDocPrefix(docID core.ID) []byte {
	prefix := []byte(chunkPrefix + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(docID))
	return buf
}

// makeQueryLogKey generates a key for a query log entry by ID.
func makeQueryLogKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", queryLogPrefix, id))
}

// makeQueryLogDateKey generates a composite key for the query-log time index.
// Format: prefix:timestamp:id
func makeQueryLogDateKey(timestamp time.Time, id core.ID) []byte {
	prefix := []byte(queryLogDatePrefix + ":")
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
