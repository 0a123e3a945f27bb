// Package transcriber implements the transcription stage: it sends the
// extracted audio to the transcription service, validates the translated
// transcript, and persists it on the job for synthesis.
package transcriber
