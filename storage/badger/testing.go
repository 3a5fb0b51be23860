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


package badger

import "github.com/bbrooksdsq/ai-knowledge-database/storage"

// MemoryRepositories bundles in-memory repositories for testing.
// Close releases every repository and the shared backend.
type MemoryRepositories struct {
	Documents storage.DocumentRepository
	Chunks    storage.ChunkRepository
	QueryLog  storage.QueryLogRepository

	backend  *Backend
	docRepo  *DocumentRepository
	qlogRepo *QueryLogRepository
}

// NewMemoryRepositories creates in-memory repositories for testing.
// Caller must call Close when done.
func NewMemoryRepositories() (*MemoryRepositories, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}

	docRepo, err := NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	chunkRepo := NewChunkRepository(backend, docRepo)

	qlogRepo, err := NewQueryLogRepository(backend)
	if err != nil {
		docRepo.Close()
		backend.Close()
		return nil, err
	}

	return &MemoryRepositories{
		Documents: docRepo,
		Chunks:    chunkRepo,
		QueryLog:  qlogRepo,
		backend:   backend,
		docRepo:   docRepo,
		qlogRepo:  qlogRepo,
	}, nil
}

// Close releases the repositories and the backend.
func (m *MemoryRepositories) Close() error {
	m.docRepo.Close()
	m.qlogRepo.Close()
	return m.backend.Close()
}
