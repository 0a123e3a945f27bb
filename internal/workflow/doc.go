// Package workflow advances queued dubbing jobs through the processing
// stages.
//
// The Manager polls the queue, reclaims stale work via heartbeats, and feeds
// jobs into the registered stage handlers (extractor, caster, transcriber,
// synthesizer, muxer) while capturing progress and failure metadata. Failures
// are classified: validation and configuration problems park the job for
// operator review, everything else fails the job so it can be retried.
//
// Add new lifecycle stages by extending StageSet, updating the queue status
// enums, and teaching the manager how to transition jobs; this package is the
// authoritative home for that coordination logic.
package workflow
