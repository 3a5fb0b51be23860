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


package storage

import (
	"github.com/bbrooksdsq/ai-knowledge-database/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) []byte {
	buf := make([]byte, core.DocumentMUS.Size(*doc))
	core.DocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	doc, _, err := core.DocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// MarshalChunk serializes a ChunkEmbedding to bytes, including the record
// format version byte.
func MarshalChunk(chunk *core.ChunkEmbedding) []byte {
	buf := make([]byte, core.ChunkEmbeddingMUS.Size(*chunk))
	core.ChunkEmbeddingMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalChunk deserializes a ChunkEmbedding from bytes.
// Returns core.ErrUnknownChunkFormat for records with an unsupported version.
func UnmarshalChunk(data []byte) (*core.ChunkEmbedding, error) {
	chunk, _, err := core.ChunkEmbeddingMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}

// MarshalQueryLog serializes a SearchQueryLog to bytes.
func MarshalQueryLog(entry *core.SearchQueryLog) []byte {
	buf := make([]byte, core.SearchQueryLogMUS.Size(*entry))
	core.SearchQueryLogMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalQueryLog deserializes a SearchQueryLog from bytes.
func UnmarshalQueryLog(data []byte) (*core.SearchQueryLog, error) {
	entry, _, err := core.SearchQueryLogMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
