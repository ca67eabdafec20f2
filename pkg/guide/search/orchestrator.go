// Package search runs the hybrid retrieval pass: embed the (already
// normalized) query, fan out to the combined vector + full-text SQL, and
// shape the scored rows into search results for the dispatcher.
package search

import (
	"context"
	"fmt"
	"log"

	"lost-london-agent/internal/entity"
	"lost-london-agent/internal/repository/contract"
	"lost-london-agent/pkg/embedding"
	"lost-london-agent/pkg/guide"
)

// Orchestrator handles hybrid search over the article corpus.
type Orchestrator struct {
	embeddingProvider embedding.EmbeddingProvider
	articles          contract.ArticleRepository
	logger            *log.Logger
}

// NewOrchestrator creates a new search orchestrator
func NewOrchestrator(embeddingProvider embedding.EmbeddingProvider, articles contract.ArticleRepository, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		embeddingProvider: embeddingProvider,
		articles:          articles,
		logger:            logger,
	}
}

// Config encapsulates search parameters
type Config struct {
	SimilarityFloor float64
	TopK            int
}

// DefaultConfig returns default search configuration
func DefaultConfig() Config {
	return Config{
		SimilarityFloor: 0.45,
		TopK:            3,
	}
}

// Execute embeds the query and runs the fused vector + lexical search.
// Any embedding or database failure is reported as ErrSearchUnavailable so
// callers can fall back to canned speech.
func (o *Orchestrator) Execute(ctx context.Context, query string, config Config) ([]entity.SearchResult, error) {
	embeddingRes, err := o.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		o.logger.Printf("[ERROR] Embedding generation failed: %v", err)
		return nil, fmt.Errorf("%w: embed query: %v", guide.ErrSearchUnavailable, err)
	}

	scored, err := o.articles.SearchHybrid(
		ctx,
		embeddingRes.Embedding.Values,
		query,
		config.TopK,
		config.SimilarityFloor,
	)
	if err != nil {
		o.logger.Printf("[ERROR] Hybrid search failed: %v", err)
		return nil, fmt.Errorf("%w: hybrid search: %v", guide.ErrSearchUnavailable, err)
	}

	o.logger.Printf("[DEBUG] Hybrid search returned %d articles for %q", len(scored), query)

	results := make([]entity.SearchResult, 0, len(scored))
	for i, row := range scored {
		o.logger.Printf("[DEBUG] Candidate %d: Score=%.4f Title=%q", i+1, row.Score, row.Article.Title)
		results = append(results, entity.SearchResult{
			Article: *row.Article,
			Score:   row.Score,
			Query:   query,
		})
	}
	return results, nil
}
