// Package casting turns diarized speaker turns into a per-speaker gender map.
//
// The prototypes are two reference embeddings (male, female) loaded and
// validated once at daemon start; a defective prototype file is a
// configuration error, never a mid-job failure. Classification is cosine
// similarity against both prototypes, with absent or zero embeddings mapping
// to unknown. The builder classifies each speaker from its first diarized
// turn only and isolates per-turn failures so one bad span cannot sink the
// job. The Caster stage handler wires diarization and embedding services
// together and persists the resulting voice map on the queue job.
package casting
