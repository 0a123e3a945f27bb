package stage

import (
	"dubber/internal/services"
	"dubber/internal/transcript"
)

// ParseTranscript parses the transcript JSON persisted on a job.
// On failure it returns a services.ErrValidation suitable for stage Execute methods.
func ParseTranscript(raw string) ([]transcript.Entry, error) {
	entries, err := transcript.ParseEntries(raw)
	if err != nil {
		return nil, services.Wrap(
			services.ErrValidation, "stage", "parse transcript",
			"Transcript missing or invalid; rerun transcription", err)
	}
	return entries, nil
}

// ParseVoiceMap parses the voice map JSON persisted on a job.
// On failure it returns a services.ErrValidation suitable for stage Execute methods.
func ParseVoiceMap(raw string) (transcript.VoiceMap, error) {
	vm, err := transcript.ParseVoiceMap(raw)
	if err != nil {
		return nil, services.Wrap(
			services.ErrValidation, "stage", "parse voice map",
			"Voice map missing or invalid; rerun casting", err)
	}
	return vm, nil
}
