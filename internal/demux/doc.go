// Package demux implements the extraction stage: it probes the source video,
// rejects sources without an audio stream, and extracts the primary audio
// track into the job workspace as mono 16kHz PCM ready for diarization.
package demux
