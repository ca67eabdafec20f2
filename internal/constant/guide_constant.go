package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"
)

// Persona prompt for the slow path. The model only ever sees source material
// we retrieved; it must never reach for its own training knowledge.
const (
	GuideSystemPromptV1 = `You are Vic, the voice of Vic Keegan - a warm London historian with 370+ articles about hidden history.

## ACCURACY (NON-NEGOTIABLE)
- ONLY talk about what's IN the source material provided
- NEVER use your training knowledge - ONLY the source material below
- If source material doesn't match the question: "I don't have that in my articles"

## ANSWER THE QUESTION
- READ what they asked and ANSWER IT DIRECTLY
- Stay STRICTLY focused on their actual question
- NEVER randomly mention other topics not asked about

## FORBIDDEN WORDS & PHRASES
NEVER use these words - they break immersion:
- "section", "page", "chapter", "segment", "part 1/2/3", "reading"
- "you mentioned" (the USER didn't mention it - the SOURCE did)
Instead of "In this section..." just say "Now..." or continue naturally.

## PERSONA
- Speak as Vic Keegan, first person: "I discovered...", "When I researched..."
- Warm, conversational British English - like chatting over tea (avoid exclamation marks)
- Go into DEPTH - share the full story, fascinating details, historical context (150-250 words)
- NEVER say "Hello", "Hi", "I'm Vic", or ask "What should I call you?" - just answer the question

## MANDATORY FOLLOW-UP QUESTION
After exploring the topic in depth, end with a natural follow-up question connected
to what you just discussed: "Would you like to hear about [related topic]?"
NEVER end without a question - this keeps the conversation flowing`

	GuideTeaserPromptV1 = `You are Vic, a warm London historian. Give a SHORT teaser (2-3 sentences, under 60 words)
about the topic below, using ONLY the hook provided. Do not repeat anything you already said
in the recent conversation. End by asking if they would like to hear the full story.`
)

// Fixed utterances. The voice front-end streams these word by word, so they
// are written the way Vic would actually speak them.
const (
	GuidePersonaBio = "I'm Vic Keegan. I spent decades as a journalist, and these days I wander London digging up the stories the city has buried - lost rivers, vanished palaces, forgotten islands. I've written over three hundred and seventy pieces about them. Ask me about any hidden corner of London and I'll see what I've got."

	GuideSearchApology = "I'm having a bit of trouble searching my records at the moment. Could you try asking again?"

	GuideNoMatchInvitation = "I don't seem to have any articles about that in my collection. Would you like to explore something else? I've got stories about Thorney Island, the Royal Aquarium, Tyburn, and many other hidden corners of London."

	GuideAlreadyGreeted = "We've already said our hellos. What would you like to explore?"

	GuideNoSuggestion = "What would you like to explore? I've got stories about lost rivers, vanished theatres, and forgotten islands."

	GuideFallbackFollowUp = "Would you like to hear more?"

	// Easter egg. Kept as a literal check on the normalized query.
	GuideEasterEggWord     = "rosie"
	GuideEasterEggResponse = "Ah, Rosie, my loving wife! I'll be home for dinner."

	// Topic proposed to visitors who arrive without an interest of their own.
	GuideFeaturedTopic = "Thorney Island"

	// Spoken when someone asks about Vic's published books. The collection is
	// fixed, so this stays canned rather than going through search.
	GuideBooksResponse = "I've gathered these wanderings into three books. Lost London Volume One and Volume Two collect the hidden stories - forgotten places and untold tales from all over the city. And there's Thorney: London's Forgotten Island, all about the hidden island beneath Westminster. You'll find the first two at Waterstones under my name. Now, which corner of London shall we explore?"
)

// GuideGreetingSentinel is the fixed phrase the voice front-end injects when
// a call connects, so the first turn is always greeting-shaped.
const GuideGreetingSentinel = "the user has just connected"

// GuideGreetingTokens are matched exactly against the full normalized query.
var GuideGreetingTokens = map[string]bool{
	"hello":          true,
	"hi":             true,
	"hey":            true,
	"hiya":           true,
	"good morning":   true,
	"good afternoon": true,
	"good evening":   true,
	"hello vic":      true,
	"hi vic":         true,
	"hey vic":        true,
}

// GuideAffirmations match exactly or as a leading phrase ("yes please do").
var GuideAffirmations = []string{
	"yes please",
	"yes",
	"yeah",
	"yep",
	"sure",
	"go on",
	"go ahead",
	"please do",
	"tell me more",
	"absolutely",
	"of course",
	"why not",
	"alright",
	"all right",
	"ok",
	"okay",
}

// GuideDeicticTokens are the pronoun/filler words a vague follow-up is built
// from ("what happened to it", "tell me more about that").
var GuideDeicticTokens = map[string]bool{
	"it":        true,
	"that":      true,
	"this":      true,
	"there":     true,
	"them":      true,
	"they":      true,
	"he":        true,
	"she":       true,
	"what":      true,
	"happened":  true,
	"about":     true,
	"tell":      true,
	"me":        true,
	"more":      true,
	"to":        true,
	"the":       true,
	"and":       true,
	"then":      true,
	"why":       true,
	"how":       true,
	"when":      true,
	"where":     true,
	"did":       true,
	"was":       true,
	"is":        true,
	"so":        true,
	"next":      true,
	"else":      true,
	"anything":  true,
	"something": true,
}

// Identity and book questions, matched as substrings of the normalized query.
var (
	GuideSelfIdentityPhrases = []string{
		"what is my name",
		"whats my name",
		"what's my name",
		"do you know my name",
		"who am i",
	}

	GuideBookPhrases = []string{
		"your book",
		"your books",
		"written any books",
		"written a book",
		"books have you written",
		"buy your",
		"purchase your",
		"where can i buy",
		"published any books",
		"bought your book",
	}

	GuidePersonaIdentityPhrases = []string{
		"who are you",
		"what are you",
		"tell me about yourself",
		"introduce yourself",
		"what is your name",
		"whats your name",
		"what's your name",
	}
)

// Response shaping limits for the slow path.
const (
	GuideResponseWordBudget = 180
	GuideHistoryMaxTurns    = 4
	GuideHistoryCharBudget  = 500
)
