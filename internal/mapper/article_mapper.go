package mapper

import (
	"time"

	"lost-london-agent/internal/entity"
	"lost-london-agent/internal/model"
)

type ArticleMapper struct{}

func NewArticleMapper() *ArticleMapper {
	return &ArticleMapper{}
}

func (m *ArticleMapper) ToEntity(a *model.Article) *entity.Article {
	if a == nil {
		return nil
	}

	var updatedAt *time.Time
	if !a.UpdatedAt.IsZero() {
		t := a.UpdatedAt
		updatedAt = &t
	}

	return &entity.Article{
		Id:               a.Id,
		Title:            a.Title,
		Content:          a.Content,
		Slug:             a.Slug,
		FeaturedImageUrl: a.FeaturedImageUrl,
		TopicKeywords:    []string(a.TopicKeywords),
		TeaserLocation:   a.TeaserLocation,
		TeaserEra:        a.TeaserEra,
		TeaserHook:       a.TeaserHook,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

func (m *ArticleMapper) ToEntities(articles []*model.Article) []*entity.Article {
	entities := make([]*entity.Article, len(articles))
	for i, a := range articles {
		entities[i] = m.ToEntity(a)
	}
	return entities
}
