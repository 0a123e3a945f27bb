package casting

import (
	"context"
	"errors"
	"testing"

	"dubber/internal/logging"
	"dubber/internal/transcript"
)

// spanEmbedder returns canned vectors per speaker span start and counts calls.
type spanEmbedder struct {
	vectors map[float64][]float64
	errs    map[float64]error
	calls   int
}

func (s *spanEmbedder) Embed(_ context.Context, start, _ float64) ([]float64, error) {
	s.calls++
	if err, ok := s.errs[start]; ok {
		return nil, err
	}
	return s.vectors[start], nil
}

func TestBuildVoiceMapClassifiesEachSpeakerOnce(t *testing.T) {
	turns := []transcript.Turn{
		{Speaker: "SPEAKER_00", Start: 0, End: 2},
		{Speaker: "SPEAKER_01", Start: 3, End: 5},
		{Speaker: "SPEAKER_00", Start: 6, End: 8},
		{Speaker: "SPEAKER_01", Start: 9, End: 11},
	}
	embedder := &spanEmbedder{vectors: map[float64][]float64{
		0: {0.9, 0.1, 0},
		3: {0.1, 0.9, 0},
	}}

	genders, outcomes := BuildVoiceMap(context.Background(), turns, embedder, testPrototypes(), logging.NewNop())
	if len(genders) != 2 {
		t.Fatalf("expected 2 speakers, got %d", len(genders))
	}
	if genders["SPEAKER_00"] != GenderMale || genders["SPEAKER_01"] != GenderFemale {
		t.Fatalf("unexpected gender map: %#v", genders)
	}
	// First-turn-wins bounds embedding extractions to distinct speakers.
	if embedder.calls != 2 {
		t.Fatalf("expected 2 embedding calls, got %d", embedder.calls)
	}
	if len(outcomes) != 4 {
		t.Fatalf("expected 4 outcomes, got %d", len(outcomes))
	}
	if !outcomes[2].Skipped || !outcomes[3].Skipped {
		t.Fatalf("expected repeat turns to be skipped: %#v", outcomes)
	}
}

func TestBuildVoiceMapIsolatesTurnFailures(t *testing.T) {
	turns := []transcript.Turn{
		{Speaker: "SPEAKER_00", Start: 0, End: 2},
		{Speaker: "SPEAKER_01", Start: 3, End: 5},
	}
	embedder := &spanEmbedder{
		vectors: map[float64][]float64{3: {0.1, 0.9, 0}},
		errs:    map[float64]error{0: errors.New("span out of range")},
	}

	genders, outcomes := BuildVoiceMap(context.Background(), turns, embedder, testPrototypes(), logging.NewNop())
	if len(genders) != 1 {
		t.Fatalf("expected 1 classified speaker, got %d", len(genders))
	}
	if genders["SPEAKER_01"] != GenderFemale {
		t.Fatalf("unexpected gender map: %#v", genders)
	}
	if outcomes[0].Err == nil {
		t.Fatal("expected first outcome to carry the failure")
	}
}

func TestBuildVoiceMapFailedSpeakerRetriesOnLaterTurn(t *testing.T) {
	turns := []transcript.Turn{
		{Speaker: "SPEAKER_00", Start: 0, End: 2},
		{Speaker: "SPEAKER_00", Start: 6, End: 8},
	}
	embedder := &spanEmbedder{
		vectors: map[float64][]float64{6: {0.9, 0.1, 0}},
		errs:    map[float64]error{0: errors.New("model failure")},
	}

	genders, _ := BuildVoiceMap(context.Background(), turns, embedder, testPrototypes(), logging.NewNop())
	if genders["SPEAKER_00"] != GenderMale {
		t.Fatalf("expected later turn to classify the speaker, got %#v", genders)
	}
}

func TestBuildVoiceMapNoSignalYieldsUnknown(t *testing.T) {
	turns := []transcript.Turn{{Speaker: "SPEAKER_00", Start: 0, End: 2}}
	embedder := &spanEmbedder{vectors: map[float64][]float64{0: nil}}

	genders, _ := BuildVoiceMap(context.Background(), turns, embedder, testPrototypes(), logging.NewNop())
	if genders["SPEAKER_00"] != GenderUnknown {
		t.Fatalf("expected unknown, got %#v", genders)
	}
}

func TestBuildVoiceMapEmptyTurns(t *testing.T) {
	embedder := &spanEmbedder{}
	genders, outcomes := BuildVoiceMap(context.Background(), nil, embedder, testPrototypes(), logging.NewNop())
	if len(genders) != 0 || len(outcomes) != 0 {
		t.Fatalf("expected empty results, got %#v %#v", genders, outcomes)
	}
	if embedder.calls != 0 {
		t.Fatalf("expected no embedding calls, got %d", embedder.calls)
	}
}

// cancellingEmbedder cancels the shared context after its first call.
type cancellingEmbedder struct {
	cancel context.CancelFunc
	inner  *spanEmbedder
	calls  int
}

func (c *cancellingEmbedder) Embed(ctx context.Context, start, end float64) ([]float64, error) {
	c.calls++
	defer c.cancel()
	return c.inner.Embed(ctx, start, end)
}

func TestBuildVoiceMapStopsOnCancellation(t *testing.T) {
	turns := []transcript.Turn{
		{Speaker: "SPEAKER_00", Start: 0, End: 2},
		{Speaker: "SPEAKER_01", Start: 3, End: 5},
		{Speaker: "SPEAKER_02", Start: 6, End: 8},
		{Speaker: "SPEAKER_03", Start: 9, End: 11},
	}
	ctx, cancel := context.WithCancel(context.Background())
	embedder := &cancellingEmbedder{
		cancel: cancel,
		inner:  &spanEmbedder{vectors: map[float64][]float64{0: {0.9, 0.1, 0}}},
	}

	genders, outcomes := BuildVoiceMap(ctx, turns, embedder, testPrototypes(), logging.NewNop())
	if embedder.calls != 1 {
		t.Fatalf("expected walk to stop after cancellation, embedder called %d times", embedder.calls)
	}
	if len(outcomes) != 1 {
		t.Fatalf("expected one recorded outcome, got %d", len(outcomes))
	}
	if len(genders) != 1 {
		t.Fatalf("expected classified speakers so far returned, got %v", genders)
	}
	for _, outcome := range outcomes {
		if errors.Is(outcome.Err, context.Canceled) {
			t.Fatalf("expected no per-turn cancellation failures, got %+v", outcome)
		}
	}
}
