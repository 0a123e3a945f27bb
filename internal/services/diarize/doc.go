// Package diarize uploads extracted audio to the speaker diarization service
// and normalizes its response into speaker turns.
//
// Diarization backends disagree on how a track is serialized, so the decoder
// accepts flat objects, flat tuples, and nested tuples. A valid response with
// zero turns is not an error; the casting stage treats it as "no speech found".
package diarize
