package store

import "strings"

// Turn is one side of a conversation exchange kept in the rolling history.
type Turn struct {
	Role string `json:"role"` // "user" | "assistant"
	Text string `json:"text"`
}

// SessionContext is the active per-conversation state held in memory.
// It is the single source of truth for greeting state, the topic anchor,
// cached identity and the rolling history of a session.
type SessionContext struct {
	ID string `json:"id"`

	// Greeting / name spacing
	GreetedThisSession bool `json:"greeted_this_session"`
	NameUsedInGreeting bool `json:"name_used_in_greeting"`
	TurnsSinceNameUsed int  `json:"turns_since_name_used"`

	// Topic anchor - resolves pronoun-only follow-ups and prevents drift
	LastTopic           string `json:"last_topic"`
	CurrentTopicContext string `json:"current_topic_context"`

	// Identity cache. ContextFetched gates ALL external memory/profile
	// lookups: it flips false->true exactly once per session lifetime.
	UserID         string   `json:"user_id"`
	UserName       string   `json:"user_name"`
	KnownInterest  string   `json:"known_interest"`
	UserFacts      []string `json:"user_facts"`
	ContextFetched bool     `json:"context_fetched"`

	// Rolling history, newest at tail
	ConversationHistory []Turn `json:"conversation_history"`

	// Topics the guide has proposed; the most recent one is the target
	// a bare "yes" resolves to.
	Suggestions        []string `json:"suggestions"`
	LastSuggestedTopic string   `json:"last_suggested_topic"`
}

// AppendHistory pushes a turn onto the rolling history, truncating the text
// to charBudget runes and dropping the oldest entries beyond maxTurns
// exchanges (one exchange = user + assistant, so 2*maxTurns entries).
func (s *SessionContext) AppendHistory(role, text string, maxTurns, charBudget int) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if runes := []rune(text); charBudget > 0 && len(runes) > charBudget {
		text = string(runes[:charBudget])
	}
	s.ConversationHistory = append(s.ConversationHistory, Turn{Role: role, Text: text})

	maxEntries := maxTurns * 2
	if maxEntries > 0 && len(s.ConversationHistory) > maxEntries {
		s.ConversationHistory = s.ConversationHistory[len(s.ConversationHistory)-maxEntries:]
	}
}

// Suggest records a topic the guide proposed to the user. Previous
// suggestions are kept for reference; LastSuggestedTopic always points at
// the newest one. A consumed suggestion is deliberately NOT cleared, so a
// repeated "yes" keeps resolving to the same topic until a new suggestion
// overwrites it.
func (s *SessionContext) Suggest(topic string) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return
	}
	s.Suggestions = append(s.Suggestions, topic)
	s.LastSuggestedTopic = topic
}

// RecentHistory returns up to n most recent turns, oldest first.
func (s *SessionContext) RecentHistory(n int) []Turn {
	if n <= 0 || len(s.ConversationHistory) <= n {
		return s.ConversationHistory
	}
	return s.ConversationHistory[len(s.ConversationHistory)-n:]
}
