package implementation

import (
	"context"
	"errors"

	"lost-london-agent/internal/entity"
	"lost-london-agent/internal/mapper"
	"lost-london-agent/internal/model"
	"lost-london-agent/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ArticleRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ArticleMapper
}

func NewArticleRepository(db *gorm.DB) contract.ArticleRepository {
	return &ArticleRepositoryImpl{
		db:     db,
		mapper: mapper.NewArticleMapper(),
	}
}

func (r *ArticleRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.Article, error) {
	var m model.Article
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ArticleRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*entity.Article, error) {
	var m model.Article
	if err := r.db.WithContext(ctx).First(&m, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ArticleRepositoryImpl) FindAllWithKeywords(ctx context.Context) ([]*entity.Article, error) {
	var models []*model.Article
	err := r.db.WithContext(ctx).
		Where("topic_keywords IS NOT NULL AND jsonb_array_length(topic_keywords) > 0").
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

// SearchHybrid fuses pgvector cosine ranking with Postgres full-text ranking
// using reciprocal rank fusion (k=60). The similarity threshold is applied to
// the vector arm before fusion, matching the behaviour of the stored
// search function this replaces.
func (r *ArticleRepositoryImpl) SearchHybrid(ctx context.Context, embedding []float32, queryText string, limit int, threshold float64) ([]*contract.ScoredArticle, error) {
	if limit <= 0 {
		limit = 5
	}

	type row struct {
		model.Article
		Score float64
	}
	var rows []row

	queryVector := pgvector.NewVector(embedding)

	// Candidate pools are wider than the final limit so that fusion has
	// something to fuse.
	poolSize := limit * 4
	if poolSize < 20 {
		poolSize = 20
	}

	err := r.db.WithContext(ctx).Raw(`
		WITH vector_candidates AS (
			SELECT id,
			       ROW_NUMBER() OVER (ORDER BY embedding <=> ?) AS rank
			FROM articles
			WHERE 1 - (embedding <=> ?) >= ?
			ORDER BY embedding <=> ?
			LIMIT ?
		),
		text_candidates AS (
			SELECT id,
			       ROW_NUMBER() OVER (
			           ORDER BY ts_rank_cd(to_tsvector('english', title || ' ' || content),
			                               plainto_tsquery('english', ?)) DESC
			       ) AS rank
			FROM articles
			WHERE to_tsvector('english', title || ' ' || content) @@ plainto_tsquery('english', ?)
			LIMIT ?
		)
		SELECT a.*,
		       COALESCE(1.0 / (60 + v.rank), 0.0) + COALESCE(1.0 / (60 + t.rank), 0.0) AS score
		FROM articles a
		JOIN (
			SELECT COALESCE(v.id, t.id) AS id, v.rank AS vrank, t.rank AS trank
			FROM vector_candidates v
			FULL OUTER JOIN text_candidates t ON v.id = t.id
		) fused ON fused.id = a.id
		LEFT JOIN vector_candidates v ON v.id = a.id
		LEFT JOIN text_candidates t ON t.id = a.id
		ORDER BY score DESC, a.created_at ASC, a.id ASC
		LIMIT ?`,
		queryVector, queryVector, threshold, queryVector, poolSize,
		queryText, queryText, poolSize,
		limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredArticle, len(rows))
	for i, res := range rows {
		a := res.Article
		scored[i] = &contract.ScoredArticle{
			Article: r.mapper.ToEntity(&a),
			Score:   res.Score,
		}
	}
	return scored, nil
}

func (r *ArticleRepositoryImpl) MergeKeywords(ctx context.Context, id uuid.UUID, keywords []string) (*entity.Article, error) {
	var m model.Article
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	existing := make(map[string]bool, len(m.TopicKeywords))
	merged := []string(m.TopicKeywords)
	for _, kw := range m.TopicKeywords {
		existing[kw] = true
	}
	for _, kw := range keywords {
		if kw == "" || existing[kw] {
			continue
		}
		merged = append(merged, kw)
		existing[kw] = true
	}

	m.TopicKeywords = datatypes.NewJSONSlice(merged)
	if err := r.db.WithContext(ctx).Model(&model.Article{}).
		Where("id = ?", id).
		Update("topic_keywords", m.TopicKeywords).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntity(&m), nil
}
