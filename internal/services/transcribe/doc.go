// Package transcribe uploads extracted audio to the transcription service and
// returns translated transcript entries. Entry order in the response is the
// speech order of the source; downstream synthesis depends on it and this
// package never reorders.
package transcribe
