package contract

import (
	"context"

	"lost-london-agent/internal/entity"

	"github.com/google/uuid"
)

// ScoredArticle pairs an article with its fused relevance score from the
// hybrid (vector + full-text) query.
type ScoredArticle struct {
	Article *entity.Article
	Score   float64
}

type ArticleRepository interface {
	FindById(ctx context.Context, id uuid.UUID) (*entity.Article, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Article, error)
	// FindAllWithKeywords returns every article carrying a non-empty
	// topic_keywords list; used to build the teaser cache.
	FindAllWithKeywords(ctx context.Context) ([]*entity.Article, error)
	// SearchHybrid runs one combined query: pgvector cosine ranking fused
	// with full-text ranking by reciprocal rank. Vector candidates below the
	// similarity threshold are excluded before fusion. Results are ordered
	// score-descending, ties by insertion order (created_at, id).
	SearchHybrid(ctx context.Context, embedding []float32, queryText string, limit int, threshold float64) ([]*ScoredArticle, error)
	// MergeKeywords unions the given keywords into the article's list and
	// returns the updated article.
	MergeKeywords(ctx context.Context, id uuid.UUID, keywords []string) (*entity.Article, error)
}
