// Package tts renders transcript text into MP3 clips through an
// ElevenLabs-compatible text-to-speech API. The voice is addressed by ID in
// the URL path and authenticated with the xi-api-key header. Rate-limit and
// server errors retry with capped exponential backoff, honoring Retry-After.
package tts
