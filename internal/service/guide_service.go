package service

import (
	"context"
	"encoding/json"
	"time"

	"lost-london-agent/internal/dto"
	"lost-london-agent/internal/pkg/logger"
	"lost-london-agent/internal/repository/contract"
	sessmem "lost-london-agent/internal/repository/memory"
	"lost-london-agent/pkg/events"
	"lost-london-agent/pkg/guide/dispatch"
	pktNats "lost-london-agent/pkg/nats"
	"lost-london-agent/pkg/teaser"

	"github.com/google/uuid"
)

type IGuideService interface {
	// Respond runs one utterance through the dispatch chain and returns the
	// guide's reply text.
	Respond(ctx context.Context, sessionId, query string, hints dispatch.IdentityHints) (string, error)

	// RebuildTeaserCache reloads every keyworded article and swaps the teaser
	// index atomically. Returns the new keyword count.
	RebuildTeaserCache(ctx context.Context) (int, error)

	// MergeKeywords unions keywords into an article and schedules a teaser
	// rebuild over the internal bus.
	MergeKeywords(ctx context.Context, articleId uuid.UUID, keywords []string) (*dto.MergeKeywordsResponse, error)

	TeaserKeywords() dto.TeaserKeywordsResponse
}

type guideService struct {
	dispatcher       *dispatch.Controller
	sessions         *sessmem.SessionStore
	articles         contract.ArticleRepository
	teasers          *teaser.Cache
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
}

func NewGuideService(
	dispatcher *dispatch.Controller,
	sessions *sessmem.SessionStore,
	articles contract.ArticleRepository,
	teasers *teaser.Cache,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	sysLogger logger.ILogger,
) IGuideService {
	return &guideService{
		dispatcher:       dispatcher,
		sessions:         sessions,
		articles:         articles,
		teasers:          teasers,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           sysLogger,
	}
}

func (s *guideService) Respond(ctx context.Context, sessionId, query string, hints dispatch.IdentityHints) (string, error) {
	started := time.Now()

	text, err := s.dispatcher.Respond(ctx, sessionId, query, hints)
	if err != nil {
		return "", err
	}

	elapsed := time.Since(started)
	s.logger.Info("guide", "Turn completed", map[string]interface{}{
		"session_id":  sessionId,
		"duration_ms": elapsed.Milliseconds(),
	})

	// Analytics is auxiliary; a dead NATS must never slow a reply down.
	if s.eventPublisher != nil {
		topic := ""
		if sess, ok := s.sessions.Get(sessionId); ok {
			topic = sess.CurrentTopicContext
		}
		go func() {
			pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			evt := events.NewTurnCompleted(sessionId, topic, elapsed.Milliseconds())
			if err := s.eventPublisher.Publish(pubCtx, evt); err != nil {
				s.logger.Warn("guide", "Failed to publish TURN_COMPLETED", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}()
	}

	return text, nil
}

func (s *guideService) RebuildTeaserCache(ctx context.Context) (int, error) {
	articles, err := s.articles.FindAllWithKeywords(ctx)
	if err != nil {
		return 0, err
	}

	index := teaser.BuildIndex(articles)
	s.teasers.Replace(index)

	s.logger.Info("guide", "Teaser cache rebuilt", map[string]interface{}{
		"articles": len(articles),
		"keywords": len(index),
	})

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewTeaserCacheRebuilt(len(index))); err != nil {
			s.logger.Warn("guide", "Failed to publish TEASER_CACHE_REBUILT", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return len(index), nil
}

func (s *guideService) MergeKeywords(ctx context.Context, articleId uuid.UUID, keywords []string) (*dto.MergeKeywordsResponse, error) {
	article, err := s.articles.MergeKeywords(ctx, articleId, keywords)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, nil
	}

	msgPayload := dto.TeaserRebuildMessage{
		ArticleId: articleId,
		Reason:    "keywords_merged",
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	return &dto.MergeKeywordsResponse{
		ArticleId: article.Id,
		Title:     article.Title,
		Keywords:  article.TopicKeywords,
	}, nil
}

func (s *guideService) TeaserKeywords() dto.TeaserKeywordsResponse {
	keywords := s.teasers.Keywords()
	return dto.TeaserKeywordsResponse{
		Count:    len(keywords),
		Keywords: keywords,
	}
}
