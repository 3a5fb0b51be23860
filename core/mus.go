// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the persisted record types. Timestamps are stored as
// Unix microseconds; vectors as fixed 4-byte floats.
//
// The chunk record layout is a durable contract: re-embedding every historical
// chunk on a format change is expensive, so the record carries an explicit
// format version byte and unmarshaling rejects versions it does not know.

// ChunkFormatV1 is the current on-disk format version for chunk records.
const ChunkFormatV1 byte = 1

// ErrUnknownChunkFormat indicates a chunk record with an unsupported version byte.
var ErrUnknownChunkFormat = errors.New("unknown chunk record format")

var (
	stringSliceMUS  = ord.NewSliceSer[string](ord.String)
	float32SliceMUS = ord.NewSliceSer[float32](raw.Float32)
)

func marshalTime(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func unmarshalTime(bs []byte) (time.Time, int, error) {
	micro, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(micro).UTC(), n, nil
}

func sizeTime(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}

// IDMUS serializes ID values.
var IDMUS = idMUS{}

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

// EntitiesMUS serializes Entities values.
var EntitiesMUS = entitiesMUS{}

type entitiesMUS struct{}

func (entitiesMUS) Marshal(e Entities, bs []byte) (n int) {
	n = stringSliceMUS.Marshal(e.People, bs)
	n += stringSliceMUS.Marshal(e.Dates, bs[n:])
	n += stringSliceMUS.Marshal(e.Projects, bs[n:])
	n += stringSliceMUS.Marshal(e.Topics, bs[n:])
	return n
}

func (entitiesMUS) Unmarshal(bs []byte) (e Entities, n int, err error) {
	var m int
	if e.People, n, err = stringSliceMUS.Unmarshal(bs); err != nil {
		return
	}
	if e.Dates, m, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	if e.Projects, m, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	if e.Topics, m, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	return e, n, nil
}

func (entitiesMUS) Size(e Entities) int {
	return stringSliceMUS.Size(e.People) +
		stringSliceMUS.Size(e.Dates) +
		stringSliceMUS.Size(e.Projects) +
		stringSliceMUS.Size(e.Topics)
}

// DocumentMUS serializes Document values.
var DocumentMUS = documentMUS{}

type documentMUS struct{}

func (documentMUS) Marshal(d Document, bs []byte) (n int) {
	n = IDMUS.Marshal(d.Id, bs)
	n += ord.String.Marshal(d.Title, bs[n:])
	n += ord.String.Marshal(d.Content, bs[n:])
	n += ord.String.Marshal(string(d.FileType), bs[n:])
	n += ord.String.Marshal(d.Source, bs[n:])
	n += ord.String.Marshal(d.FilePath, bs[n:])
	n += varint.Int64.Marshal(d.FileSize, bs[n:])
	n += ord.String.Marshal(d.Summary, bs[n:])
	n += stringSliceMUS.Marshal(d.Tags, bs[n:])
	n += EntitiesMUS.Marshal(d.Entities, bs[n:])
	n += marshalTime(d.CreatedAt, bs[n:])
	n += marshalTime(d.UpdatedAt, bs[n:])
	return n
}

func (documentMUS) Unmarshal(bs []byte) (d Document, n int, err error) {
	var m int
	if d.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if d.Title, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	if d.Content, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	var ft string
	if ft, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	d.FileType = FileType(ft)
	n += m
	if d.Source, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	if d.FilePath, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	if d.FileSize, m, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	if d.Summary, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	if d.Tags, m, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	if d.Entities, m, err = EntitiesMUS.Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	if d.CreatedAt, m, err = unmarshalTime(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	if d.UpdatedAt, m, err = unmarshalTime(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	return d, n, nil
}

func (documentMUS) Size(d Document) int {
	return IDMUS.Size(d.Id) +
		ord.String.Size(d.Title) +
		ord.String.Size(d.Content) +
		ord.String.Size(string(d.FileType)) +
		ord.String.Size(d.Source) +
		ord.String.Size(d.FilePath) +
		varint.Int64.Size(d.FileSize) +
		ord.String.Size(d.Summary) +
		stringSliceMUS.Size(d.Tags) +
		EntitiesMUS.Size(d.Entities) +
		sizeTime(d.CreatedAt) +
		sizeTime(d.UpdatedAt)
}

// ChunkEmbeddingMUS serializes ChunkEmbedding values, prefixed with the chunk
// record format version.
var ChunkEmbeddingMUS = chunkEmbeddingMUS{}

type chunkEmbeddingMUS struct{}

func (chunkEmbeddingMUS) Marshal(c ChunkEmbedding, bs []byte) (n int) {
	bs[0] = ChunkFormatV1
	n = 1
	n += IDMUS.Marshal(c.DocumentID, bs[n:])
	n += varint.Int.Marshal(c.Index, bs[n:])
	n += ord.String.Marshal(c.Text, bs[n:])
	n += float32SliceMUS.Marshal(c.Vector, bs[n:])
	return n
}

func (chunkEmbeddingMUS) Unmarshal(bs []byte) (c ChunkEmbedding, n int, err error) {
	if len(bs) == 0 {
		return c, 0, fmt.Errorf("%w: empty record", ErrUnknownChunkFormat)
	}
	if bs[0] != ChunkFormatV1 {
		return c, 1, fmt.Errorf("%w: version %d", ErrUnknownChunkFormat, bs[0])
	}
	n = 1
	var m int
	if c.DocumentID, m, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return c, n + m, err
	}
	n += m
	if c.Index, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return c, n + m, err
	}
	n += m
	if c.Text, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + m, err
	}
	n += m
	if c.Vector, m, err = float32SliceMUS.Unmarshal(bs[n:]); err != nil {
		return c, n + m, err
	}
	n += m
	return c, n, nil
}

func (chunkEmbeddingMUS) Size(c ChunkEmbedding) int {
	return 1 +
		IDMUS.Size(c.DocumentID) +
		varint.Int.Size(c.Index) +
		ord.String.Size(c.Text) +
		float32SliceMUS.Size(c.Vector)
}

// SearchQueryLogMUS serializes SearchQueryLog values.
var SearchQueryLogMUS = searchQueryLogMUS{}

type searchQueryLogMUS struct{}

func (searchQueryLogMUS) Marshal(q SearchQueryLog, bs []byte) (n int) {
	n = IDMUS.Marshal(q.Id, bs)
	n += ord.String.Marshal(q.Query, bs[n:])
	n += ord.String.Marshal(q.CallerID, bs[n:])
	n += varint.Int.Marshal(q.ResultCount, bs[n:])
	n += marshalTime(q.CreatedAt, bs[n:])
	return n
}

func (searchQueryLogMUS) Unmarshal(bs []byte) (q SearchQueryLog, n int, err error) {
	var m int
	if q.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if q.Query, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return q, n + m, err
	}
	n += m
	if q.CallerID, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return q, n + m, err
	}
	n += m
	if q.ResultCount, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return q, n + m, err
	}
	n += m
	if q.CreatedAt, m, err = unmarshalTime(bs[n:]); err != nil {
		return q, n + m, err
	}
	n += m
	return q, n, nil
}

func (searchQueryLogMUS) Size(q SearchQueryLog) int {
	return IDMUS.Size(q.Id) +
		ord.String.Size(q.Query) +
		ord.String.Size(q.CallerID) +
		varint.Int.Size(q.ResultCount) +
		sizeTime(q.CreatedAt)
}
