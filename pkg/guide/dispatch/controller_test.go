package dispatch

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lost-london-agent/internal/constant"
	"lost-london-agent/internal/entity"
	"lost-london-agent/internal/repository/contract"
	sessmem "lost-london-agent/internal/repository/memory"
	"lost-london-agent/pkg/embedding"
	"lost-london-agent/pkg/guide/prefetch"
	"lost-london-agent/pkg/guide/search"
	"lost-london-agent/pkg/llm"
	"lost-london-agent/pkg/teaser"
)

// --- fakes ---

type fakeEmbedder struct{ err error }

func (f *fakeEmbedder) Generate(text, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{1, 0, 0}}}, nil
}

type fakeArticleRepo struct {
	contract.ArticleRepository

	mu       sync.Mutex
	articles []*entity.Article
	err      error
	queries  []string
}

func (f *fakeArticleRepo) SearchHybrid(ctx context.Context, emb []float32, queryText string, limit int, threshold float64) ([]*contract.ScoredArticle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, queryText)
	if f.err != nil {
		return nil, f.err
	}
	var out []*contract.ScoredArticle
	for _, a := range f.articles {
		if strings.Contains(queryText, strings.ToLower(a.Title)) || strings.Contains(strings.ToLower(a.Content), queryText) {
			out = append(out, &contract.ScoredArticle{Article: a, Score: 0.03})
		}
	}
	return out, nil
}

func (f *fakeArticleRepo) recordedQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

type fakeLLM struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return f.Generate(ctx, history[len(history)-1].Content, opts...)
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeLLM) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

type fakeMemory struct {
	mu       sync.Mutex
	enabled  bool
	facts    []string
	searches int
	appends  []string
	err      error
}

func (f *fakeMemory) SearchFacts(ctx context.Context, userId string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches++
	if f.err != nil {
		return nil, f.err
	}
	return f.facts, nil
}

func (f *fakeMemory) AppendMessage(ctx context.Context, userId, role, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appends = append(f.appends, role+": "+text)
	return nil
}

func (f *fakeMemory) Enabled() bool { return f.enabled }

type fakeProfiles struct {
	mu      sync.Mutex
	profile *entity.UserProfile
	calls   int
}

func (f *fakeProfiles) GetProfile(ctx context.Context, userId string) (*entity.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.profile, nil
}

// --- harness ---

type harness struct {
	controller *Controller
	sessions   *sessmem.SessionStore
	teasers    *teaser.Cache
	repo       *fakeArticleRepo
	llm        *fakeLLM
	memory     *fakeMemory
	profiles   *fakeProfiles
}

func thorneyArticle() *entity.Article {
	return &entity.Article{
		Id:             uuid.New(),
		Title:          "Thorney Island",
		Content:        "Parliament and Westminster Abbey stand on a vanished island once formed by the Tyburn.",
		TopicKeywords:  []string{"thorney island", "thorney"},
		TeaserLocation: "Westminster",
		TeaserEra:      "the Anglo-Saxon period",
		TeaserHook:     "Parliament sits on a lost island.",
	}
}

func aquariumArticle() *entity.Article {
	return &entity.Article{
		Id:            uuid.New(),
		Title:         "Royal Aquarium",
		Content:       "The Royal Aquarium opened in 1876 opposite Westminster Abbey and rarely contained fish.",
		TopicKeywords: []string{"royal aquarium", "aquarium"},
		TeaserHook:    "A grand aquarium with hardly any fish.",
	}
}

func newHarness(t *testing.T, articles ...*entity.Article) *harness {
	t.Helper()

	sessions, err := sessmem.NewSessionStore(100)
	require.NoError(t, err)

	teasers := teaser.NewCache()
	teasers.Replace(teaser.BuildIndex(articles))

	repo := &fakeArticleRepo{articles: articles}
	logger := log.New(io.Discard, "", 0)
	orchestrator := search.NewOrchestrator(&fakeEmbedder{}, repo, logger)
	prefetcher := prefetch.NewManager(time.Minute, time.Second, logger)

	llmFake := &fakeLLM{reply: "Ah, quite the story. The island vanished beneath Westminster long ago. Would you like to hear about the Tyburn?"}
	memFake := &fakeMemory{}
	profFake := &fakeProfiles{}

	controller := NewController(sessions, teasers, orchestrator, prefetcher, llmFake, memFake, profFake, DefaultConfig(), logger)
	return &harness{
		controller: controller,
		sessions:   sessions,
		teasers:    teasers,
		repo:       repo,
		llm:        llmFake,
		memory:     memFake,
		profiles:   profFake,
	}
}

func (h *harness) respond(t *testing.T, sessionId, query string) string {
	t.Helper()
	text, err := h.controller.Respond(context.Background(), sessionId, query, IdentityHints{})
	require.NoError(t, err)
	return text
}

// --- tests ---

func TestGreetingExactlyOnce(t *testing.T) {
	h := newHarness(t, thorneyArticle())

	first := h.respond(t, "sess-1", "hello")
	second := h.respond(t, "sess-1", "hello")

	assert.NotEqual(t, first, second)
	assert.Equal(t, constant.GuideAlreadyGreeted, second)

	sess, ok := h.sessions.Get("sess-1")
	require.True(t, ok)
	assert.True(t, sess.GreetedThisSession)

	third := h.respond(t, "sess-1", "good morning")
	assert.Equal(t, constant.GuideAlreadyGreeted, third)
	assert.True(t, sess.GreetedThisSession, "greeting flag must never revert")
}

func TestAnonymousGreetingAsksOpenQuestion(t *testing.T) {
	h := newHarness(t, thorneyArticle())

	text := h.respond(t, "sess-1", "hi")
	assert.Contains(t, text, "What would you like to explore")

	sess, _ := h.sessions.Get("sess-1")
	assert.Empty(t, sess.LastSuggestedTopic, "anonymous branch proposes no topic")
}

func TestContextFetchedExactlyOnce(t *testing.T) {
	h := newHarness(t, thorneyArticle())
	h.profiles.profile = &entity.UserProfile{UserId: "user123", PreferredName: "Dan", KnownInterest: "the Tyburn river"}
	h.memory.enabled = true
	h.memory.facts = []string{"Dan visited before"}

	hints := IdentityHints{UserName: "Dan", UserId: "user123"}
	_, err := h.controller.Respond(context.Background(), "sess-1", "hello", hints)
	require.NoError(t, err)
	_, err = h.controller.Respond(context.Background(), "sess-1", "tell me about thorney island", hints)
	require.NoError(t, err)
	_, err = h.controller.Respond(context.Background(), "sess-1", "who are you", hints)
	require.NoError(t, err)

	assert.Equal(t, 1, h.profiles.calls, "profile fetched once per session")
	h.memory.mu.Lock()
	searches := h.memory.searches
	h.memory.mu.Unlock()
	assert.Equal(t, 1, searches, "memory fetched once per session")

	sess, _ := h.sessions.Get("sess-1")
	assert.True(t, sess.ContextFetched)
}

func TestReturningUserGreetingUsesInterest(t *testing.T) {
	h := newHarness(t, thorneyArticle())
	h.profiles.profile = &entity.UserProfile{UserId: "user123", PreferredName: "Dan", KnownInterest: "the Royal Aquarium"}

	text, err := h.controller.Respond(context.Background(), "sess-1", "hello", IdentityHints{UserId: "user123"})
	require.NoError(t, err)

	assert.Contains(t, text, "Dan")
	assert.Contains(t, text, "the Royal Aquarium")

	sess, _ := h.sessions.Get("sess-1")
	assert.Equal(t, "the Royal Aquarium", sess.LastSuggestedTopic)
}

func TestSelfIdentityAnsweredFromSession(t *testing.T) {
	h := newHarness(t, thorneyArticle())

	text, err := h.controller.Respond(context.Background(), "sess-1", "what is my name", IdentityHints{UserName: "Dan", UserId: "user123"})
	require.NoError(t, err)

	assert.Contains(t, text, "Dan")
	assert.Equal(t, 1, h.profiles.calls, "only the once-per-session context fetch")
	assert.Empty(t, h.repo.recordedQueries(), "name questions never search")
}

func TestPersonaIdentityIsCanned(t *testing.T) {
	h := newHarness(t, thorneyArticle())

	text := h.respond(t, "sess-1", "who are you?")
	assert.Equal(t, constant.GuidePersonaBio, text)
	assert.Empty(t, h.repo.recordedQueries())
}

func TestBookQuestionIsCanned(t *testing.T) {
	h := newHarness(t, thorneyArticle())

	text := h.respond(t, "sess-1", "where can I buy your books?")
	assert.Equal(t, constant.GuideBooksResponse, text)
	assert.Empty(t, h.repo.recordedQueries())
	assert.Empty(t, h.llm.prompts)
}

func TestEasterEggBypassesEverything(t *testing.T) {
	h := newHarness(t, thorneyArticle())

	text := h.respond(t, "sess-1", "Rosie")
	assert.Equal(t, constant.GuideEasterEggResponse, text)
	assert.Empty(t, h.repo.recordedQueries())
	assert.Empty(t, h.llm.prompts)
}

func TestNoiseWithTopicPromptsContinue(t *testing.T) {
	h := newHarness(t, thorneyArticle())
	h.respond(t, "sess-1", "tell me about thorney island")

	text := h.respond(t, "sess-1", "um")
	assert.Contains(t, text, "Thorney Island")
	assert.True(t, strings.HasSuffix(text, "?"))
}

func TestNoiseWithoutTopicIsSilent(t *testing.T) {
	h := newHarness(t, thorneyArticle())

	text := h.respond(t, "sess-1", "uh")
	assert.Empty(t, text)
}

func TestEndToEndPhoneticTeaser(t *testing.T) {
	h := newHarness(t, thorneyArticle())
	h.llm.reply = "Ah, Thorney Island, the lost island beneath Westminster. Would you like to hear the full story?"

	text := h.respond(t, "sess-1", "tell me about the fawney")

	assert.Contains(t, text, "Thorney Island")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(text), "?"), "teaser must end with an invitation")

	sess, _ := h.sessions.Get("sess-1")
	assert.Equal(t, "Thorney Island", sess.CurrentTopicContext)
	assert.Equal(t, "Thorney Island", sess.LastSuggestedTopic)
}

func TestTeaserFallsBackToTemplateWhenModelFails(t *testing.T) {
	h := newHarness(t, thorneyArticle())
	h.llm.err = errors.New("model down")

	text := h.respond(t, "sess-1", "thorney island")

	assert.Contains(t, text, "Thorney Island")
	assert.Contains(t, text, "Would you like to hear the full story?")
}

func TestAffirmationResolvesToSuggestedTopic(t *testing.T) {
	h := newHarness(t, thorneyArticle())

	h.respond(t, "sess-1", "tell me about thorney island")
	h.llm.mu.Lock()
	h.llm.prompts = nil
	h.llm.mu.Unlock()

	h.respond(t, "sess-1", "yes please")

	prompt := h.llm.lastPrompt()
	require.NotEmpty(t, prompt, "affirmation must reach the deep-dive model")
	assert.Contains(t, prompt, "Thorney Island")
	assert.NotContains(t, prompt, constant.GuideTeaserPromptV1, "teaser stage must be skipped")
}

func TestAffirmationSuggestionIsNotCleared(t *testing.T) {
	h := newHarness(t, thorneyArticle())

	h.respond(t, "sess-1", "tell me about thorney island")
	h.respond(t, "sess-1", "yes")
	h.respond(t, "sess-1", "yes")

	sess, _ := h.sessions.Get("sess-1")
	assert.Equal(t, "Thorney Island", sess.LastSuggestedTopic, "consumed suggestion stays until overwritten")
}

func TestAffirmationWithoutSuggestionAsksWhatToExplore(t *testing.T) {
	h := newHarness(t, thorneyArticle())

	text := h.respond(t, "sess-1", "yes please")
	assert.Equal(t, constant.GuideNoSuggestion, text)
}

func TestVagueFollowUpEnrichesWithoutOverwritingAnchor(t *testing.T) {
	h := newHarness(t, aquariumArticle())

	h.respond(t, "sess-1", "royal aquarium")
	sess, _ := h.sessions.Get("sess-1")
	require.Equal(t, "Royal Aquarium", sess.CurrentTopicContext)

	h.respond(t, "sess-1", "what happened to it")

	assert.Equal(t, "Royal Aquarium", sess.CurrentTopicContext, "anchor must not change on a vague follow-up")

	queries := h.repo.recordedQueries()
	var enriched bool
	for _, q := range queries {
		if strings.HasPrefix(q, "royal aquarium what happened to it") {
			enriched = true
		}
	}
	// The prefetch kicked off by the teaser may have answered instead; in
	// that case no enriched search was needed.
	if len(queries) > 1 {
		assert.True(t, enriched || queries[len(queries)-1] == "royal aquarium", "follow-up search must be topic-anchored")
	}
}

func TestSearchFailureDegradesToApology(t *testing.T) {
	h := newHarness(t)
	h.repo.err = errors.New("connection refused")

	text := h.respond(t, "sess-1", "tell me about the great fire of london")
	assert.Equal(t, constant.GuideSearchApology, text)
}

func TestNoMatchInvitesOtherTopics(t *testing.T) {
	h := newHarness(t)

	text := h.respond(t, "sess-1", "tell me about quantum computing")
	assert.Equal(t, constant.GuideNoMatchInvitation, text)
}

func TestMissingSessionIdCreatesAnonymousSession(t *testing.T) {
	h := newHarness(t, thorneyArticle())

	text, err := h.controller.Respond(context.Background(), "", "hello", IdentityHints{})
	require.NoError(t, err)
	assert.NotEmpty(t, text)
	assert.Equal(t, 1, h.sessions.Len())
}

func TestHistoryRecordsBothSides(t *testing.T) {
	h := newHarness(t, thorneyArticle())

	h.respond(t, "sess-1", "tell me about thorney island")

	sess, _ := h.sessions.Get("sess-1")
	require.Len(t, sess.ConversationHistory, 2)
	assert.Equal(t, constant.ChatMessageRoleUser, sess.ConversationHistory[0].Role)
	assert.Equal(t, constant.ChatMessageRoleAssistant, sess.ConversationHistory[1].Role)
}
