// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// This package has no dubber-specific dependencies and could be extracted
// as a standalone library.
//
// Inspect executes ffprobe and returns a parsed Result; helper methods on
// Result expose stream counts and container duration, which the pipeline uses
// to reject sources without an audio stream before any work is queued.
package ffprobe
