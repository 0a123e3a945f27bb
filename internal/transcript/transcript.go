package transcript

import (
	"encoding/json"
	"strings"
)

// Turn records a diarized speech span attributed to a speaker label.
// TrackIndex is the diarization track the span came from; services that do
// not report one leave it zero.
type Turn struct {
	Speaker    string  `json:"speaker"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	TrackIndex int     `json:"track_index,omitempty"`
}

// Duration returns the span length in seconds, never negative.
func (t Turn) Duration() float64 {
	if t.End <= t.Start {
		return 0
	}
	return t.End - t.Start
}

// Entry is one translated transcript line attributed to a speaker label.
type Entry struct {
	Text    string `json:"text"`
	Speaker string `json:"speaker"`
}

// VoiceMap assigns a gender label to each diarized speaker. Synthesis resolves
// the concrete voice from (target language, gender) per entry.
type VoiceMap map[string]string

// ParseEntries loads transcript entries from JSON, returning an empty slice on
// blank input.
func ParseEntries(raw string) ([]Entry, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// EncodeEntries serialises transcript entries to JSON.
func EncodeEntries(entries []Entry) (string, error) {
	data, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ParseVoiceMap loads a voice map from JSON, returning an empty map on blank
// input.
func ParseVoiceMap(raw string) (VoiceMap, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return VoiceMap{}, nil
	}
	var vm VoiceMap
	if err := json.Unmarshal([]byte(raw), &vm); err != nil {
		return nil, err
	}
	if vm == nil {
		vm = VoiceMap{}
	}
	return vm, nil
}

// Encode serialises the voice map to JSON.
func (vm VoiceMap) Encode() (string, error) {
	data, err := json.Marshal(vm)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
