package search

import (
	"context"
	"sort"

	"github.com/bbrooksdsq/ai-knowledge-database/core"
)

// Related finds documents similar to the given one, using its first chunk's
// embedding as the reference vector. Each candidate document is represented
// by its best-scoring chunk; documents appear at most once. A document with
// no stored chunks has nothing to compare and yields an empty result.
func (e *Engine) Related(ctx context.Context, documentID core.ID, limit int) []*core.Document {
	if limit <= 0 {
		limit = DefaultLimit
	}

	own, err := e.chunks.GetChunks(ctx, documentID)
	if err != nil {
		e.logger.Error("failed to load reference chunks", "id", documentID, "err", err)
		return []*core.Document{}
	}
	if len(own) == 0 {
		return []*core.Document{}
	}
	reference := own[0].Vector

	candidates, err := e.chunks.ListChunksExcluding(ctx, documentID)
	if err != nil {
		e.logger.Error("failed to load candidate chunks", "id", documentID, "err", err)
		return []*core.Document{}
	}

	type scored struct {
		doc   *core.Document
		score float32
	}
	scoredChunks := make([]scored, 0, len(candidates))
	for _, cand := range candidates {
		scoredChunks = append(scoredChunks, scored{
			doc:   cand.Document,
			score: CosineSimilarity(reference, cand.Chunk.Vector),
		})
	}

	sort.SliceStable(scoredChunks, func(i, j int) bool {
		return scoredChunks[i].score > scoredChunks[j].score
	})

	// Keep each document once, at the rank of its best chunk
	seen := make(map[core.ID]bool)
	docs := make([]*core.Document, 0, limit)
	for _, sc := range scoredChunks {
		if seen[sc.doc.Id] {
			continue
		}
		seen[sc.doc.Id] = true
		docs = append(docs, sc.doc)
		if len(docs) == limit {
			break
		}
	}
	return docs
}
