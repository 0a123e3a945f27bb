// Package services defines the shared error taxonomy and context annotation
// helpers for Dubber's external collaborators.
//
// Stage code wraps failures with one of the sentinel markers (validation,
// configuration, external tool, transient, ...) so the workflow manager can
// decide between retry-able failure and manual review without inspecting
// error strings. Subpackages hold the HTTP clients for the diarization,
// embedding, transcription and text-to-speech services.
package services
