// Package enrichment derives metadata from document content: summaries, tags,
// entities, and audio transcripts. Every operation except transcription has a
// local degrade path, so enrichment never blocks ingestion when AI services
// are unconfigured or unavailable.
package enrichment
