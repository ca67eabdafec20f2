// Package normalizer rewrites raw voice/chat transcriptions into queries the
// retrieval layer can work with: phonetic corrections for words the
// speech-to-text front end reliably mishears, plus noise classification for
// utterances that carry no content at all.
package normalizer

import (
	"regexp"
	"strings"
	"unicode"
)

// correction is one whole-word phonetic substitution. Order matters: the
// table is applied top to bottom.
type correction struct {
	pattern *regexp.Regexp
	replace string
}

var corrections []correction

// phoneticTable maps common transcription errors to canonical terms. The
// entries were collected from live voice-session logs.
var phoneticTable = []struct{ wrong, right string }{
	// Names
	{"ignacio", "ignatius"},
	{"ignasio", "ignatius"},
	{"ignacius", "ignatius"},
	{"ignasius", "ignatius"},
	{"victor", "vic"},
	{"viktor", "vic"},
	// Thorney Island has many phonetic variants
	{"thorny", "thorney"},
	{"thornay", "thorney"},
	{"thornie", "thorney"},
	{"fawny", "thorney"},
	{"fawney", "thorney"},
	{"fauny", "thorney"},
	{"fauney", "thorney"},
	{"forney", "thorney"},
	{"forny", "thorney"},
	{"thorn ey", "thorney"},
	{"forn ey", "thorney"},
	{"fourney", "thorney"},
	{"fourny", "thorney"},
	{"forn", "thorney"},
	{"phornee", "thorney"},
	// Tyburn
	{"tie burn", "tyburn"},
	{"tieburn", "tyburn"},
	{"tyeburn", "tyburn"},
	{"tiburn", "tyburn"},
	// Royal Aquarium
	{"aquarim", "aquarium"},
	{"aquariam", "aquarium"},
	{"aquareum", "aquarium"},
	{"aquaruim", "aquarium"},
	{"royale", "royal"},
	// Crystal Palace
	{"cristal", "crystal"},
	{"crystle", "crystal"},
	{"chrystal", "crystal"},
	// Shakespeare
	{"shakespear", "shakespeare"},
	{"shakespere", "shakespeare"},
	{"shakspeare", "shakespeare"},
	// Westminster / Parliament
	{"westmister", "westminster"},
	{"westminister", "westminster"},
	{"white hall", "whitehall"},
	{"parliment", "parliament"},
	{"parlement", "parliament"},
	// Thames
	{"tems", "thames"},
	{"tames", "thames"},
	{"temms", "thames"},
	// Devil's Acre
	{"devils acre", "devil's acre"},
	{"devil acre", "devil's acre"},
	{"devils aker", "devil's acre"},
	// Other London places
	{"voxhall", "vauxhall"},
	{"vox hall", "vauxhall"},
	{"vaux hall", "vauxhall"},
	{"southwork", "southwark"},
	{"south work", "southwark"},
	{"grenwich", "greenwich"},
	{"green witch", "greenwich"},
	{"wolwich", "woolwich"},
	{"wool witch", "woolwich"},
	{"bermondsy", "bermondsey"},
	{"holbourn", "holborn"},
	{"holeborn", "holborn"},
	{"aldwich", "aldwych"},
	{"chisick", "chiswick"},
	{"chis wick", "chiswick"},
	{"dulwitch", "dulwich"},
	{"dull witch", "dulwich"},
}

// fillerTokens are single utterances that carry no query content.
var fillerTokens = map[string]bool{
	"um":   true,
	"uh":   true,
	"uhm":  true,
	"hmm":  true,
	"hm":   true,
	"mm":   true,
	"mhm":  true,
	"er":   true,
	"erm":  true,
	"ah":   true,
	"eh":   true,
	"huh":  true,
	"umm":  true,
	"uhh":  true,
	"ahem": true,
}

var annotationPattern = regexp.MustCompile(`\{[^}]*\}`)

func init() {
	corrections = make([]correction, len(phoneticTable))
	for i, entry := range phoneticTable {
		corrections[i] = correction{
			pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(entry.wrong) + `\b`),
			replace: entry.right,
		}
	}
}

// Normalize lowercases, trims, and applies the phonetic correction table
// using whole-word matching. Pure and total: input that matches nothing
// passes through unchanged.
func Normalize(raw string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	for _, c := range corrections {
		normalized = c.pattern.ReplaceAllString(normalized, c.replace)
	}
	return normalized
}

// StripAnnotations removes bracketed emotion/noise markers like "{calm}"
// that the voice front end embeds in transcripts.
func StripAnnotations(s string) string {
	return strings.TrimSpace(annotationPattern.ReplaceAllString(s, " "))
}

// IsNoise reports whether the residual utterance (after stripping
// annotations) is non-substantive: fewer than 3 alphabetic characters, or a
// single filler token.
func IsNoise(s string) bool {
	residual := StripAnnotations(s)

	alpha := 0
	for _, r := range residual {
		if unicode.IsLetter(r) {
			alpha++
		}
	}
	if alpha < 3 {
		return true
	}

	tokens := strings.Fields(strings.ToLower(residual))
	if len(tokens) == 1 && fillerTokens[strings.Trim(tokens[0], ".,!?")] {
		return true
	}

	return false
}
