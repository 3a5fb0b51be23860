// Package storage defines the repository interfaces for documents, chunk
// embeddings the search engine scores, and the search query audit log, plus
// the MUS serialization helpers shared by backends.
//
// The badger subpackage provides the production implementation.
package storage
