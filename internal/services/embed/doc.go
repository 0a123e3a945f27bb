// Package embed fetches speaker embeddings for diarized speech spans from the
// embedding service. A null embedding in the response is passed through as nil
// rather than rejected; the classifier treats it as an absent signal.
package embed
