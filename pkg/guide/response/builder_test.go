package response

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"lost-london-agent/internal/constant"
	"lost-london-agent/internal/entity"
	"lost-london-agent/pkg/store"
)

func TestBuildGreetingBranches(t *testing.T) {
	tests := []struct {
		name          string
		isReturning   bool
		userName      string
		knownInterest string
		wantMention   string
		wantSuggested string
	}{
		{
			name:          "returning with interest picks up the old thread",
			isReturning:   true,
			userName:      "Dan",
			knownInterest: "the Tyburn river",
			wantMention:   "the Tyburn river",
			wantSuggested: "the Tyburn river",
		},
		{
			name:          "returning without interest proposes featured topic",
			isReturning:   true,
			userName:      "Dan",
			wantMention:   "Dan",
			wantSuggested: constant.GuideFeaturedTopic,
		},
		{
			name:          "returning without resolved name falls back to friend",
			isReturning:   true,
			wantMention:   "friend",
			wantSuggested: constant.GuideFeaturedTopic,
		},
		{
			name:          "new visitor with name proposes featured topic",
			userName:      "Sarah",
			wantMention:   "Sarah",
			wantSuggested: constant.GuideFeaturedTopic,
		},
		{
			name:          "anonymous visitor gets open question and no suggestion",
			wantMention:   "What would you like to explore",
			wantSuggested: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := BuildGreeting(tt.isReturning, tt.userName, tt.knownInterest)
			assert.Contains(t, g.Text, tt.wantMention)
			assert.Equal(t, tt.wantSuggested, g.SuggestedTopic)
			assert.NotContains(t, g.Text, ", .", "no dangling name slot in spoken text")
		})
	}
}

func TestSelfIdentity(t *testing.T) {
	assert.Contains(t, SelfIdentity("Dan"), "Dan")
	assert.Contains(t, SelfIdentity(""), "What should I call you?")
}

func TestTeaserFallbackMentionsTitleAndInvites(t *testing.T) {
	text := TeaserFallback(entity.TeaserEntry{
		Title:    "Thorney Island",
		Location: "Westminster",
		Era:      "the Anglo-Saxon period",
		Hook:     "Parliament sits on a vanished island.",
	})
	assert.Contains(t, text, "Thorney Island")
	assert.Contains(t, text, "Parliament sits on a vanished island.")
	assert.Contains(t, text, "Westminster")
	assert.True(t, EndsWithQuestion(text))
}

func TestBuildAnswerPromptIncludesSourcesHistoryAndQuestion(t *testing.T) {
	sources := SourceMaterial([]entity.SearchResult{
		{Article: entity.Article{Title: "Tyburn Tree", Content: "The gallows stood near Marble Arch."}},
	}, 2, 1500)

	prompt := BuildAnswerPrompt("what was tyburn", sources, []store.Turn{
		{Role: "user", Text: "hello"},
		{Role: "assistant", Text: "Welcome."},
	})

	assert.Contains(t, prompt, "## Tyburn Tree")
	assert.Contains(t, prompt, "The gallows stood near Marble Arch.")
	assert.Contains(t, prompt, "USER QUESTION: what was tyburn")
	assert.Contains(t, prompt, "RECENT CONVERSATION")
	assert.Contains(t, prompt, "assistant: Welcome.")
}

func TestSourceMaterialClipsArticlesAndCount(t *testing.T) {
	long := strings.Repeat("x", 2000)
	out := SourceMaterial([]entity.SearchResult{
		{Article: entity.Article{Title: "A", Content: long}},
		{Article: entity.Article{Title: "B", Content: "short"}},
		{Article: entity.Article{Title: "C", Content: "dropped"}},
	}, 2, 100)

	assert.Contains(t, out, "## A")
	assert.Contains(t, out, "## B")
	assert.NotContains(t, out, "## C")
	assert.NotContains(t, out, strings.Repeat("x", 101))
}

func TestTruncateToSentence(t *testing.T) {
	t.Run("under budget untouched", func(t *testing.T) {
		text := "Short answer. Would you like more?"
		assert.Equal(t, text, TruncateToSentence(text, 50))
	})

	t.Run("cut at sentence boundary and follow-up appended", func(t *testing.T) {
		text := "The island sat where Parliament now stands. The abbey came later and the river was buried. Would you like to hear how the Tyburn still flows beneath Westminster today?"
		out := TruncateToSentence(text, 10)

		assert.Equal(t, "The island sat where Parliament now stands. "+constant.GuideFallbackFollowUp, out)
	})

	t.Run("surviving question is not duplicated", func(t *testing.T) {
		text := "Was it ever really an island? " + strings.Repeat("More detail here. ", 30)
		out := TruncateToSentence(text, 6)

		assert.Equal(t, "Was it ever really an island?", out)
		assert.Equal(t, 1, strings.Count(out, "?"))
	})

	t.Run("no boundary in budget closes at budget", func(t *testing.T) {
		text := strings.Repeat("word ", 40)
		out := TruncateToSentence(text, 8)

		assert.True(t, strings.HasPrefix(out, "word word word word word word word word."))
		assert.True(t, EndsWithQuestion(out))
	})
}
