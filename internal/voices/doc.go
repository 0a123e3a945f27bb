// Package voices resolves (language, gender) pairs to synthesizer voice IDs.
// The table is static configuration data enumerated at initialization; lookup
// never fails, it falls back to a fixed neutral voice instead.
package voices
