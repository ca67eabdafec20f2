package dispatch

import (
	"strings"

	"lost-london-agent/internal/constant"
)

// Classification helpers operate on the normalized query (lowercased,
// trimmed, phonetically corrected).

func isGreeting(q string) bool {
	if constant.GuideGreetingTokens[q] {
		return true
	}
	return strings.Contains(q, constant.GuideGreetingSentinel)
}

func isSelfIdentityQuestion(q string) bool {
	return containsAny(q, constant.GuideSelfIdentityPhrases)
}

func isPersonaIdentityQuestion(q string) bool {
	return containsAny(q, constant.GuidePersonaIdentityPhrases)
}

func isBookQuestion(q string) bool {
	return containsAny(q, constant.GuideBookPhrases)
}

// isAffirmation matches bare assent: an exact phrase, a multi-word phrase
// appearing anywhere, or a short utterance led by an assent word ("yes
// please do").
func isAffirmation(q string) bool {
	for _, phrase := range constant.GuideAffirmations {
		if q == phrase {
			return true
		}
		if strings.Contains(phrase, " ") && strings.Contains(q, phrase) {
			return true
		}
	}

	fields := strings.Fields(q)
	if len(fields) == 0 || len(fields) > 3 {
		return false
	}
	lead := strings.Trim(fields[0], ".,!?")
	for _, phrase := range constant.GuideAffirmations {
		if !strings.Contains(phrase, " ") && lead == phrase {
			return true
		}
	}
	return false
}

// isVagueFollowUp reports whether the query carries no topic content of its
// own ("what happened to it"): short, built entirely from deictic/filler
// tokens, and not restating the current topic.
func isVagueFollowUp(q, currentTopic string) bool {
	if currentTopic != "" && strings.Contains(q, strings.ToLower(currentTopic)) {
		return false
	}
	fields := strings.Fields(q)
	if len(fields) == 0 || len(fields) > 6 {
		return false
	}
	for _, f := range fields {
		if !constant.GuideDeicticTokens[strings.Trim(f, ".,!?'\"")] {
			return false
		}
	}
	return true
}

func containsAny(q string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(q, phrase) {
			return true
		}
	}
	return false
}
