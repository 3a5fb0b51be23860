// Package search ranks documents against queries, either semantically via
// cosine similarity over chunk embeddings or by keyword substring matching.
// It also finds documents related to a given one and records every query in
// the search audit log.
//
// Search degrades instead of failing: infrastructure errors produce empty
// responses and are logged, never returned.
package search
