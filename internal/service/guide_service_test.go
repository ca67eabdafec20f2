package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lost-london-agent/internal/dto"
	"lost-london-agent/internal/entity"
	"lost-london-agent/internal/repository/contract"
	"lost-london-agent/pkg/teaser"
)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

type stubArticleRepo struct {
	contract.ArticleRepository

	articles []*entity.Article
	merged   *entity.Article
}

func (s *stubArticleRepo) FindAllWithKeywords(ctx context.Context) ([]*entity.Article, error) {
	return s.articles, nil
}

func (s *stubArticleRepo) MergeKeywords(ctx context.Context, id uuid.UUID, keywords []string) (*entity.Article, error) {
	return s.merged, nil
}

type capturePublisher struct {
	payloads [][]byte
}

func (c *capturePublisher) Publish(ctx context.Context, payload []byte) error {
	c.payloads = append(c.payloads, payload)
	return nil
}

func TestRebuildTeaserCacheSwapsIndex(t *testing.T) {
	repo := &stubArticleRepo{
		articles: []*entity.Article{
			{Id: uuid.New(), Title: "Thorney Island", TopicKeywords: []string{"thorney island"}},
			{Id: uuid.New(), Title: "Tyburn Tree", TopicKeywords: []string{"tyburn"}},
		},
	}
	cache := teaser.NewCache()
	svc := NewGuideService(nil, nil, repo, cache, &capturePublisher{}, nil, noopLogger{})

	count, err := svc.RebuildTeaserCache(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	entry, ok := cache.Lookup("tyburn")
	require.True(t, ok)
	assert.Equal(t, "Tyburn Tree", entry.Title)
}

func TestMergeKeywordsSchedulesRebuild(t *testing.T) {
	articleId := uuid.New()
	repo := &stubArticleRepo{
		merged: &entity.Article{
			Id:            articleId,
			Title:         "Royal Aquarium",
			TopicKeywords: []string{"royal aquarium", "aquarium", "fish palace"},
		},
	}
	pub := &capturePublisher{}
	svc := NewGuideService(nil, nil, repo, teaser.NewCache(), pub, nil, noopLogger{})

	res, err := svc.MergeKeywords(context.Background(), articleId, []string{"fish palace"})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Contains(t, res.Keywords, "fish palace")

	require.Len(t, pub.payloads, 1)
	var msg dto.TeaserRebuildMessage
	require.NoError(t, json.Unmarshal(pub.payloads[0], &msg))
	assert.Equal(t, "keywords_merged", msg.Reason)
	assert.Equal(t, articleId, msg.ArticleId)
}

func TestMergeKeywordsUnknownArticle(t *testing.T) {
	pub := &capturePublisher{}
	svc := NewGuideService(nil, nil, &stubArticleRepo{}, teaser.NewCache(), pub, nil, noopLogger{})

	res, err := svc.MergeKeywords(context.Background(), uuid.New(), []string{"anything"})
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Empty(t, pub.payloads, "no rebuild scheduled for a missing article")
}

func TestTeaserKeywordsSnapshot(t *testing.T) {
	cache := teaser.NewCache()
	cache.Replace(teaser.BuildIndex([]*entity.Article{
		{Id: uuid.New(), Title: "Thorney Island", TopicKeywords: []string{"thorney island", "thorney"}},
	}))
	svc := NewGuideService(nil, nil, &stubArticleRepo{}, cache, &capturePublisher{}, nil, noopLogger{})

	res := svc.TeaserKeywords()
	assert.Equal(t, 2, res.Count)
	assert.Contains(t, res.Keywords, "thorney island")
}
