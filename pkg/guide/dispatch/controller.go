// Package dispatch is the conversation brain: one Respond call per visitor
// utterance, routed through an ordered classification chain. Early stages
// short-circuit with fixed speech (noise, greeting, identity, affirmation
// with no target); later stages hit the teaser cache or the full hybrid
// search. External failures degrade to canned apologies and never abort the
// turn.
package dispatch

import (
	"context"
	"log"
	"strings"
	"time"

	"lost-london-agent/internal/constant"
	"lost-london-agent/internal/entity"
	"lost-london-agent/internal/repository/contract"
	sessmem "lost-london-agent/internal/repository/memory"
	"lost-london-agent/pkg/guide/prefetch"
	"lost-london-agent/pkg/guide/response"
	"lost-london-agent/pkg/guide/search"
	"lost-london-agent/pkg/llm"
	"lost-london-agent/pkg/memory"
	"lost-london-agent/pkg/normalizer"
	"lost-london-agent/pkg/store"
	"lost-london-agent/pkg/teaser"
)

// memoryAppendTimeout bounds the detached memory-graph writes.
const memoryAppendTimeout = 10 * time.Second

// IdentityHints carry caller-supplied identity, typically parsed from the
// voice widget's custom session id ("name|userId").
type IdentityHints struct {
	UserName string
	UserId   string
}

// Config bundles the dispatcher's tunables.
type Config struct {
	HistoryMaxTurns    int
	HistoryCharBudget  int
	ResponseWordBudget int
	Search             search.Config
}

func DefaultConfig() Config {
	return Config{
		HistoryMaxTurns:    constant.GuideHistoryMaxTurns,
		HistoryCharBudget:  constant.GuideHistoryCharBudget,
		ResponseWordBudget: constant.GuideResponseWordBudget,
		Search:             search.DefaultConfig(),
	}
}

type Controller struct {
	sessions *sessmem.SessionStore
	teasers  *teaser.Cache
	searcher *search.Orchestrator
	prefetch *prefetch.Manager
	llm      llm.LLMProvider
	memory   memory.Provider
	profiles contract.UserProfileRepository
	config   Config
	logger   *log.Logger
}

func NewController(
	sessions *sessmem.SessionStore,
	teasers *teaser.Cache,
	searcher *search.Orchestrator,
	prefetchManager *prefetch.Manager,
	llmProvider llm.LLMProvider,
	memoryProvider memory.Provider,
	profiles contract.UserProfileRepository,
	config Config,
	logger *log.Logger,
) *Controller {
	return &Controller{
		sessions: sessions,
		teasers:  teasers,
		searcher: searcher,
		prefetch: prefetchManager,
		llm:      llmProvider,
		memory:   memoryProvider,
		profiles: profiles,
		config:   config,
		logger:   logger,
	}
}

// Respond handles one visitor utterance and returns the guide's reply. The
// returned text is always speakable; failures inside a stage produce fixed
// fallback speech, never an error, so the error return is reserved for
// programming-level misuse (currently always nil).
func (c *Controller) Respond(ctx context.Context, sessionId, rawQuery string, hints IdentityHints) (string, error) {
	sess := c.sessions.GetOrCreate(sessionId)
	defer c.sessions.Touch(sess)

	c.ensureContext(ctx, sess, hints)
	if sess.NameUsedInGreeting {
		sess.TurnsSinceNameUsed++
	}

	normalized := normalizer.Normalize(normalizer.StripAnnotations(rawQuery))
	c.logger.Printf("[DEBUG] Session %s: %q -> %q", sess.ID, rawQuery, normalized)

	// Stage 1: noise
	if normalizer.IsNoise(normalized) {
		if sess.CurrentTopicContext == "" {
			return "", nil
		}
		text := response.NoiseContinue(sess.CurrentTopicContext)
		sess.AppendHistory(constant.ChatMessageRoleAssistant, text, c.config.HistoryMaxTurns, c.config.HistoryCharBudget)
		return text, nil
	}

	// Stage 2: easter egg
	if strings.Contains(normalized, constant.GuideEasterEggWord) {
		return constant.GuideEasterEggResponse, nil
	}

	// Stage 3: greeting
	if isGreeting(normalized) {
		return c.handleGreeting(sess), nil
	}

	// Stage 4: "what is my name"
	if isSelfIdentityQuestion(normalized) {
		text := response.SelfIdentity(sess.UserName)
		if sess.UserName != "" {
			sess.TurnsSinceNameUsed = 0
		}
		c.recordExchange(sess, normalized, text)
		return text, nil
	}

	// Stage 5: "who are you"
	if isPersonaIdentityQuestion(normalized) {
		text := constant.GuidePersonaBio
		c.recordExchange(sess, normalized, text)
		return text, nil
	}

	// Stage 6: published books. The catalogue is a fixed fact about the
	// persona, answered without touching the article index.
	if isBookQuestion(normalized) {
		text := constant.GuideBooksResponse
		c.recordExchange(sess, normalized, text)
		return text, nil
	}

	// Stage 7: bare affirmation resolves to the last suggested topic. The
	// suggestion is read, not cleared: a repeated "yes" keeps resolving to
	// the same topic until a new one overwrites it.
	workingQuery := normalized
	affirmationResolved := false
	if isAffirmation(normalized) {
		if sess.LastSuggestedTopic == "" {
			text := constant.GuideNoSuggestion
			c.recordExchange(sess, normalized, text)
			return text, nil
		}
		workingQuery = strings.ToLower(sess.LastSuggestedTopic)
		affirmationResolved = true
		c.logger.Printf("[INFO] Session %s: affirmation resolved to %q", sess.ID, sess.LastSuggestedTopic)
	}

	vague := isVagueFollowUp(workingQuery, sess.CurrentTopicContext)

	// Stage 8: teaser fast path. Skipped when the visitor already heard the
	// teaser (affirmation) or when the query carries no topic of its own.
	if !affirmationResolved && !vague {
		if entry, ok := c.teasers.Lookup(workingQuery); ok {
			return c.handleTeaserHit(ctx, sess, normalized, entry), nil
		}
	}

	// Stage 9: full search
	return c.handleSlowPath(ctx, sess, normalized, workingQuery, affirmationResolved, vague), nil
}

// ensureContext resolves identity hints and performs the once-per-session
// profile and memory fetch. The ContextFetched flip is monotonic: one
// attempt is made whether or not the backends cooperate.
func (c *Controller) ensureContext(ctx context.Context, sess *store.SessionContext, hints IdentityHints) {
	if sess.UserName == "" && hints.UserName != "" {
		sess.UserName = hints.UserName
	}
	if sess.UserID == "" && hints.UserId != "" {
		sess.UserID = hints.UserId
	}

	if sess.ContextFetched {
		return
	}
	sess.ContextFetched = true

	if sess.UserID == "" {
		return
	}

	profile, err := c.profiles.GetProfile(ctx, sess.UserID)
	if err != nil {
		c.logger.Printf("[WARN] Session %s: profile lookup failed: %v", sess.ID, err)
	} else if profile != nil {
		if sess.UserName == "" {
			sess.UserName = profile.PreferredName
		}
		sess.KnownInterest = profile.KnownInterest
	}

	if c.memory.Enabled() {
		facts, err := c.memory.SearchFacts(ctx, sess.UserID)
		if err != nil {
			// Silent pass-through: the visitor just loses personalization.
			c.logger.Printf("[WARN] Session %s: memory search failed: %v", sess.ID, err)
		} else {
			sess.UserFacts = facts
		}
	}
}

func (c *Controller) handleGreeting(sess *store.SessionContext) string {
	if sess.GreetedThisSession {
		return constant.GuideAlreadyGreeted
	}

	isReturning := len(sess.UserFacts) > 0 || sess.KnownInterest != ""
	greeting := response.BuildGreeting(isReturning, sess.UserName, sess.KnownInterest)

	sess.GreetedThisSession = true
	if sess.UserName != "" {
		sess.NameUsedInGreeting = true
		sess.TurnsSinceNameUsed = 0
	}
	if greeting.SuggestedTopic != "" {
		sess.Suggest(greeting.SuggestedTopic)
	}
	sess.AppendHistory(constant.ChatMessageRoleAssistant, greeting.Text, c.config.HistoryMaxTurns, c.config.HistoryCharBudget)
	return greeting.Text
}

// handleTeaserHit serves the cached teaser and warms the full article in the
// background so an affirmative follow-up answers instantly.
func (c *Controller) handleTeaserHit(ctx context.Context, sess *store.SessionContext, userUtterance string, entry entity.TeaserEntry) string {
	c.logger.Printf("[INFO] Session %s: teaser hit %q", sess.ID, entry.Title)

	sess.CurrentTopicContext = entry.Title
	sess.LastTopic = entry.Title
	sess.Suggest(entry.Title)

	topic := entry.Title
	c.prefetch.Start(sess.ID, topic, func(fetchCtx context.Context) (*prefetch.Result, error) {
		results, err := c.searcher.Execute(fetchCtx, strings.ToLower(topic), c.config.Search)
		if err != nil {
			return nil, err
		}
		if len(results) == 0 {
			return nil, nil
		}
		titles := make([]string, 0, len(results))
		for _, r := range results {
			titles = append(titles, r.Article.Title)
		}
		return &prefetch.Result{
			Topic:   topic,
			Content: response.SourceMaterial(results, 2, 1500),
			Titles:  titles,
		}, nil
	})

	prompt := response.BuildTeaserPrompt(entry, sess.RecentHistory(4))
	text, err := c.llm.Generate(ctx, prompt, llm.WithMaxTokens(120))
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			c.logger.Printf("[WARN] Session %s: teaser generation failed, using template: %v", sess.ID, err)
		}
		text = response.TeaserFallback(entry)
	}

	c.recordExchange(sess, userUtterance, text)
	return text
}

// handleSlowPath answers from prefetched context when available, otherwise
// runs the full hybrid search, then speaks through the persona model.
func (c *Controller) handleSlowPath(ctx context.Context, sess *store.SessionContext, userUtterance, workingQuery string, affirmationResolved, vague bool) string {
	prefetchTopic := sess.CurrentTopicContext
	if affirmationResolved {
		prefetchTopic = sess.LastSuggestedTopic
	}

	var sourceMaterial string
	var topTitle string

	if cached, ok := c.prefetch.Consume(sess.ID, prefetchTopic); ok && cached.Content != "" {
		c.logger.Printf("[INFO] Session %s: using prefetched context for %q", sess.ID, cached.Topic)
		sourceMaterial = cached.Content
		topTitle = cached.Topic
	} else {
		searchQuery := workingQuery
		if vague && sess.CurrentTopicContext != "" {
			searchQuery = strings.ToLower(sess.CurrentTopicContext) + " " + workingQuery
			c.logger.Printf("[DEBUG] Session %s: enriched query %q", sess.ID, searchQuery)
		}

		results, err := c.searcher.Execute(ctx, searchQuery, c.config.Search)
		if err != nil {
			c.logger.Printf("[ERROR] Session %s: search failed: %v", sess.ID, err)
			text := constant.GuideSearchApology
			c.recordExchange(sess, userUtterance, text)
			return text
		}
		if len(results) == 0 {
			text := constant.GuideNoMatchInvitation
			c.recordExchange(sess, userUtterance, text)
			return text
		}
		sourceMaterial = response.SourceMaterial(results, 2, 1500)
		topTitle = results[0].Article.Title
	}

	prompt := response.BuildAnswerPrompt(workingQuery, sourceMaterial, sess.RecentHistory(2*c.config.HistoryMaxTurns))
	text, err := c.llm.Generate(ctx, prompt, llm.WithTemperature(0.7))
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			c.logger.Printf("[ERROR] Session %s: generation failed: %v", sess.ID, err)
		}
		text = constant.GuideSearchApology
		c.recordExchange(sess, userUtterance, text)
		return text
	}

	text = response.TruncateToSentence(text, c.config.ResponseWordBudget)

	// A follow-up never silently replaces the established topic.
	if sess.CurrentTopicContext == "" {
		sess.CurrentTopicContext = topTitle
		sess.LastTopic = topTitle
	}

	c.recordExchange(sess, userUtterance, text)
	return text
}

// recordExchange appends both sides of the turn to the rolling history and,
// for known users, mirrors them to the external memory graph without
// blocking the response.
func (c *Controller) recordExchange(sess *store.SessionContext, userText, assistantText string) {
	sess.AppendHistory(constant.ChatMessageRoleUser, userText, c.config.HistoryMaxTurns, c.config.HistoryCharBudget)
	sess.AppendHistory(constant.ChatMessageRoleAssistant, assistantText, c.config.HistoryMaxTurns, c.config.HistoryCharBudget)

	if !c.memory.Enabled() || sess.UserID == "" {
		return
	}
	userId := sess.UserID
	sessionId := sess.ID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), memoryAppendTimeout)
		defer cancel()
		if err := c.memory.AppendMessage(ctx, userId, constant.ChatMessageRoleUser, userText); err != nil {
			c.logger.Printf("[WARN] Session %s: memory append (user) failed: %v", sessionId, err)
			return
		}
		if err := c.memory.AppendMessage(ctx, userId, constant.ChatMessageRoleAssistant, assistantText); err != nil {
			c.logger.Printf("[WARN] Session %s: memory append (assistant) failed: %v", sessionId, err)
		}
	}()
}
