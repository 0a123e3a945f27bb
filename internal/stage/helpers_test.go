package stage

import (
	"errors"
	"testing"

	"dubber/internal/services"
)

func TestParseTranscript_Valid(t *testing.T) {
	raw := `[{"text":"Hello there","speaker":"SPEAKER_00"}]`
	entries, err := ParseTranscript(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Speaker != "SPEAKER_00" {
		t.Fatalf("unexpected entries: %#v", entries)
	}
}

func TestParseTranscript_Empty(t *testing.T) {
	entries, err := ParseTranscript("")
	if err != nil {
		t.Fatalf("unexpected error for empty input: %v", err)
	}
	if len(entries) != 0 {
		t.Fatal("expected no entries for empty input")
	}
}

func TestParseTranscript_Invalid(t *testing.T) {
	_, err := ParseTranscript("{invalid json")
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseVoiceMap_Invalid(t *testing.T) {
	_, err := ParseVoiceMap("[not a map]")
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
