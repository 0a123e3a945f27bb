package voices

import (
	"testing"

	"dubber/internal/config"
)

func TestResolveKnownPairs(t *testing.T) {
	resolver := NewResolver(nil)
	if got := resolver.Resolve("hi", "female"); got != "cgSgspJ2msm6clMCkdW9" {
		t.Fatalf("unexpected hi/female voice: %s", got)
	}
	if got := resolver.Resolve("en", "male"); got != "onwK4e9ZLuTAKqWW03F9" {
		t.Fatalf("unexpected en/male voice: %s", got)
	}
}

func TestResolveFallsBackToDefault(t *testing.T) {
	resolver := NewResolver(nil)
	cases := []struct{ language, gender string }{
		{"zz", "male"},    // unknown language
		{"hi", "unknown"}, // classifier could not decide
		{"", ""},
	}
	for _, tc := range cases {
		if got := resolver.Resolve(tc.language, tc.gender); got != DefaultVoiceID {
			t.Fatalf("expected default voice for %q/%q, got %s", tc.language, tc.gender, got)
		}
	}
}

func TestResolveNormalizesCase(t *testing.T) {
	resolver := NewResolver(nil)
	if got := resolver.Resolve("HI", "Female"); got != "cgSgspJ2msm6clMCkdW9" {
		t.Fatalf("expected case-insensitive lookup, got %s", got)
	}
}

func TestResolverAppliesConfigOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Voices.Default = "custom-default"
	cfg.Voices.Table = map[string]map[string]string{
		"hi": {"female": "override-voice"},
		"de": {"male": "new-lang-voice"},
	}
	resolver := NewResolver(&cfg)

	if got := resolver.Resolve("hi", "female"); got != "override-voice" {
		t.Fatalf("expected override, got %s", got)
	}
	if got := resolver.Resolve("hi", "male"); got != "XB0fDUnXU5powFXDhCwa" {
		t.Fatalf("expected builtin to survive partial override, got %s", got)
	}
	if got := resolver.Resolve("de", "male"); got != "new-lang-voice" {
		t.Fatalf("expected added language, got %s", got)
	}
	if got := resolver.Resolve("zz", "male"); got != "custom-default" {
		t.Fatalf("expected custom default, got %s", got)
	}
}

func TestLanguagesSorted(t *testing.T) {
	langs := NewResolver(nil).Languages()
	if len(langs) != 13 {
		t.Fatalf("expected 13 builtin languages, got %d", len(langs))
	}
	for i := 1; i < len(langs); i++ {
		if langs[i-1] >= langs[i] {
			t.Fatalf("languages not sorted: %v", langs)
		}
	}
}
