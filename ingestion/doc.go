// Package ingestion turns raw documents into enriched, searchable records:
// it persists the document, derives summary, tags and entities through the
// enrichment service, and chunks and embeds the content for semantic search.
//
// Enrichment failures never fail an ingest. Summaries, tags and entities
// degrade to local fallbacks, and chunks whose embedding fails are skipped.
package ingestion
