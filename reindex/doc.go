// Package reindex re-enriches every stored document in bulk: summaries,
// tags, entities and chunk embeddings are regenerated through the ingestion
// pipeline. Its main use is recovering a consistent vector space after an
// embedding model change.
package reindex
