package search

import "github.com/bbrooksdsq/ai-knowledge-database/core"

// Monitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type Monitor interface {
	Start(query string)
	AfterQueryEmbedding(vector []float32)
	AfterChunkRetrieval(count int)
	Scored(documentID core.ID, score float32)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                   {}
func (n *noopMonitor) AfterQueryEmbedding(_ []float32)  {}
func (n *noopMonitor) AfterChunkRetrieval(_ int)        {}
func (n *noopMonitor) Scored(_ core.ID, _ float32)      {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)    {}
