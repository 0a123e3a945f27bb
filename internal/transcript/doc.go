// Package transcript defines the structured payloads shared between workflow
// stages.
//
// Turns come out of diarization and feed speaker casting. Entries are the
// translated transcript lines produced by transcription and consumed by
// synthesis, which relies on their slice order matching the original speech
// order. The VoiceMap assigns a gender label to each diarized speaker so
// synthesis can pick a voice. Turns live only inside the casting stage;
// Entries and the VoiceMap
// are persisted as JSON on the queue job so stages can hand off through the
// database rather than shared memory.
package transcript
