// Package dubtrack assembles a dubbed audio track from translated transcript
// entries. Each entry is synthesized with the voice resolved for its speaker,
// decoded to PCM, and concatenated strictly in transcript order before being
// encoded back to a single MP3 file.
package dubtrack
