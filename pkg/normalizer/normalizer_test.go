package normalizer

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "thorney island phonetic variant",
			input: "Tell me about the Fawney",
			want:  "tell me about the thorney",
		},
		{
			name:  "aquarium misheard",
			input: "what was the royal aquarim",
			want:  "what was the royal aquarium",
		},
		{
			name:  "tyburn split words",
			input: "where was tie burn",
			want:  "where was tyburn",
		},
		{
			name:  "word boundary respected",
			input: "the forney road",
			want:  "the thorney road",
		},
		{
			name:  "substring inside longer word untouched",
			input: "performance",
			want:  "performance",
		},
		{
			name:  "unmatched input passes through",
			input: "the great fire of london",
			want:  "the great fire of london",
		},
		{
			name:  "trims and lowercases",
			input: "  Crystal Palace  ",
			want:  "crystal palace",
		},
		{
			name:  "westminster typo",
			input: "westminister abbey",
			want:  "westminster abbey",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"tell me about the fawney",
		"the royal aquarim in westmister",
		"who was ignacio sancho",
		"crystal palace",
		"",
		"  Hello THERE  ",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestStripAnnotations(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"{calm} tell me more", "tell me more"},
		{"tell me {excited} more", "tell me  more"},
		{"{sigh}", ""},
		{"no annotations here", "no annotations here"},
	}

	for _, tt := range tests {
		if got := StripAnnotations(tt.input); got != tt.want {
			t.Errorf("StripAnnotations(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsNoise(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"um", true},
		{"uh...", true},
		{"hmm", true},
		{"{calm}", true},
		{"ok", true}, // under 3 alphabetic characters
		{"a b", true},
		{"yes", false},
		{"tell me about tyburn", false},
		{"um tell me about tyburn", false}, // filler with content is not noise
	}

	for _, tt := range tests {
		if got := IsNoise(tt.input); got != tt.want {
			t.Errorf("IsNoise(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
