// Package response synthesizes the persona's fixed and templated utterances:
// greetings, identity answers, prompt assembly for the model, and the word
// budget truncation applied to slow-path answers.
package response

import (
	"fmt"
	"strings"

	"lost-london-agent/internal/constant"
	"lost-london-agent/internal/entity"
	"lost-london-agent/pkg/store"
)

// Greeting holds a synthesized first-contact utterance plus the topic it
// proposed, if any, so the dispatcher can register it as the affirmation
// target.
type Greeting struct {
	Text           string
	SuggestedTopic string
}

// BuildGreeting picks one of four template branches from what we know about
// the visitor. Three branches propose a topic; a fully anonymous visitor is
// asked an open question instead.
func BuildGreeting(isReturning bool, userName, knownInterest string) Greeting {
	switch {
	case isReturning && knownInterest != "":
		name := userName
		if name == "" {
			name = "friend"
		}
		return Greeting{
			Text: fmt.Sprintf(
				"Welcome back, %s. Last time we got talking about %s - shall we pick that thread up again, or is there somewhere new you'd like to wander?",
				name, knownInterest),
			SuggestedTopic: knownInterest,
		}
	case isReturning:
		name := userName
		if name == "" {
			name = "friend"
		}
		return Greeting{
			Text: fmt.Sprintf(
				"Good to see you again, %s. I've been meaning to tell you about %s - fancy hearing it?",
				name, constant.GuideFeaturedTopic),
			SuggestedTopic: constant.GuideFeaturedTopic,
		}
	case userName != "":
		return Greeting{
			Text: fmt.Sprintf(
				"Hello %s, I'm Vic. I've spent years digging up London's hidden history - lost rivers, vanished palaces, forgotten islands. Shall I start with %s?",
				userName, constant.GuideFeaturedTopic),
			SuggestedTopic: constant.GuideFeaturedTopic,
		}
	default:
		return Greeting{
			Text: "Hello there, I'm Vic. I've written over three hundred and seventy stories about the London that's vanished under our feet. What would you like to explore?",
		}
	}
}

// SelfIdentity answers "what is my name" purely from resolved session state.
func SelfIdentity(userName string) string {
	if userName == "" {
		return "I don't believe you've told me your name yet. What should I call you?"
	}
	return fmt.Sprintf("You're %s, of course. I may be getting on, but I haven't forgotten that. Now, where were we?", userName)
}

// NoiseContinue nudges a silent or mumbling visitor back to the live topic.
func NoiseContinue(topic string) string {
	return fmt.Sprintf("Shall we carry on with %s, or is there something else you'd like to explore?", topic)
}

// TeaserFallback renders a teaser directly from the cached entry, used when
// the fast-response model is unavailable.
func TeaserFallback(entry entity.TeaserEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ah, %s.", entry.Title)
	if entry.Hook != "" {
		b.WriteString(" " + entry.Hook)
	}
	switch {
	case entry.Location != "" && entry.Era != "":
		fmt.Fprintf(&b, " You'd have found it at %s, back in %s.", entry.Location, entry.Era)
	case entry.Location != "":
		fmt.Fprintf(&b, " You'd have found it at %s.", entry.Location)
	case entry.Era != "":
		fmt.Fprintf(&b, " That takes us back to %s.", entry.Era)
	}
	b.WriteString(" Would you like to hear the full story?")
	return b.String()
}

// BuildTeaserPrompt assembles the fast-path prompt: the cached teaser entry
// plus recent history so the model avoids repeating itself.
func BuildTeaserPrompt(entry entity.TeaserEntry, history []store.Turn) string {
	var b strings.Builder
	b.WriteString(constant.GuideTeaserPromptV1)
	b.WriteString("\n\nTOPIC: " + entry.Title)
	if entry.Hook != "" {
		b.WriteString("\nHOOK: " + entry.Hook)
	}
	if entry.Location != "" {
		b.WriteString("\nLOCATION: " + entry.Location)
	}
	if entry.Era != "" {
		b.WriteString("\nERA: " + entry.Era)
	}
	writeHistory(&b, history)
	return b.String()
}

// BuildAnswerPrompt assembles the slow-path prompt from retrieved source
// material and the visitor's actual question.
func BuildAnswerPrompt(query, sourceMaterial string, history []store.Turn) string {
	var b strings.Builder
	b.WriteString(constant.GuideSystemPromptV1)
	b.WriteString("\n\nSOURCE MATERIAL:\n")
	b.WriteString(sourceMaterial)
	writeHistory(&b, history)
	b.WriteString("\n\nUSER QUESTION: " + query)
	b.WriteString("\n\nRemember: ONLY use information from the source material above. Go into DEPTH (150-250 words).")
	return b.String()
}

// SourceMaterial renders search results into the prompt's source block. Each
// article body is clipped so two articles never blow the context window.
func SourceMaterial(results []entity.SearchResult, maxArticles, maxCharsPerArticle int) string {
	if len(results) > maxArticles {
		results = results[:maxArticles]
	}
	parts := make([]string, 0, len(results))
	for _, r := range results {
		content := r.Article.Content
		if len(content) > maxCharsPerArticle {
			content = content[:maxCharsPerArticle]
		}
		parts = append(parts, fmt.Sprintf("## %s\n%s", r.Article.Title, content))
	}
	return strings.Join(parts, "\n\n")
}

func writeHistory(b *strings.Builder, history []store.Turn) {
	if len(history) == 0 {
		return
	}
	b.WriteString("\n\nRECENT CONVERSATION (do not repeat yourself):")
	for _, turn := range history {
		fmt.Fprintf(b, "\n%s: %s", turn.Role, turn.Text)
	}
}

// EndsWithQuestion reports whether the trimmed text ends in a question mark.
func EndsWithQuestion(text string) bool {
	return strings.HasSuffix(strings.TrimSpace(text), "?")
}

// TruncateToSentence enforces the spoken word budget. Text over budget is cut
// at the last sentence boundary that fits; if the cut lost the closing
// question, the standard follow-up is appended so the turn still ends with
// one. Text with no boundary inside the budget is cut at the budget and
// closed off the same way.
func TruncateToSentence(text string, wordBudget int) string {
	words := strings.Fields(text)
	if len(words) <= wordBudget {
		return text
	}

	clipped := strings.Join(words[:wordBudget], " ")
	if idx := lastSentenceEnd(clipped); idx >= 0 {
		clipped = clipped[:idx+1]
	} else {
		clipped = strings.TrimRight(clipped, ",;: ") + "."
	}

	if !EndsWithQuestion(clipped) {
		clipped += " " + constant.GuideFallbackFollowUp
	}
	return clipped
}

func lastSentenceEnd(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case '.', '!', '?':
			return i
		}
	}
	return -1
}
