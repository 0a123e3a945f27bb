package casting_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"dubber/internal/casting"
	"dubber/internal/logging"
	"dubber/internal/queue"
	"dubber/internal/services"
	"dubber/internal/testsupport"
	"dubber/internal/transcript"
)

type fakeDiarizer struct {
	turns []transcript.Turn
	err   error
}

func (f *fakeDiarizer) Diarize(context.Context, string) ([]transcript.Turn, error) {
	return f.turns, f.err
}

type fakeEmbedder struct {
	vectors map[string][]float64
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string, start, _ float64) ([]float64, error) {
	key := "first"
	if start > 2 {
		key = "second"
	}
	return f.vectors[key], nil
}

func testProtos() *casting.Prototypes {
	return &casting.Prototypes{Male: []float64{1, 0, 0}, Female: []float64{0, 1, 0}}
}

func TestCasterExecuteBuildsVoiceMap(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := testsupport.NewJob(t, store, "/media/in/two-speakers.mp4", "hi")

	audio := filepath.Join(testsupport.BaseDir(cfg), "audio.wav")
	testsupport.WriteFile(t, audio, 64)
	job.AudioFile = audio
	job.Status = queue.StatusCasting

	diarizer := &fakeDiarizer{turns: []transcript.Turn{
		{Speaker: "SPEAKER_00", Start: 0, End: 2},
		{Speaker: "SPEAKER_01", Start: 3, End: 5},
		{Speaker: "SPEAKER_00", Start: 6, End: 8},
	}}
	embedder := &fakeEmbedder{vectors: map[string][]float64{
		"first":  {0.9, 0.1, 0},
		"second": {0.1, 0.9, 0},
	}}
	caster := casting.NewCasterWithDependencies(cfg, store, logging.NewNop(), diarizer, embedder, testProtos())

	ctx := context.Background()
	if err := caster.Prepare(ctx, job); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := caster.Execute(ctx, job); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if job.Status != queue.StatusCast {
		t.Fatalf("expected cast status, got %s", job.Status)
	}
	if job.SpeakerCount != 2 {
		t.Fatalf("expected 2 speakers, got %d", job.SpeakerCount)
	}
	vm, err := transcript.ParseVoiceMap(job.VoiceMapJSON)
	if err != nil {
		t.Fatalf("ParseVoiceMap: %v", err)
	}
	if vm["SPEAKER_00"] != "male" || vm["SPEAKER_01"] != "female" {
		t.Fatalf("unexpected voice map: %#v", vm)
	}
}

func TestCasterExecuteEmptyTurnsContinues(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := testsupport.NewJob(t, store, "/media/in/silent.mp4", "ta")

	audio := filepath.Join(testsupport.BaseDir(cfg), "audio.wav")
	testsupport.WriteFile(t, audio, 64)
	job.AudioFile = audio

	caster := casting.NewCasterWithDependencies(cfg, store, logging.NewNop(), &fakeDiarizer{}, &fakeEmbedder{}, testProtos())
	if err := caster.Execute(context.Background(), job); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if job.Status != queue.StatusCast || job.SpeakerCount != 0 {
		t.Fatalf("expected empty cast to continue: %#v", job)
	}
	vm, err := transcript.ParseVoiceMap(job.VoiceMapJSON)
	if err != nil || len(vm) != 0 {
		t.Fatalf("expected empty voice map, got %#v (%v)", vm, err)
	}
}

func TestCasterExecuteRequiresAudio(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := testsupport.NewJob(t, store, "/media/in/missing.mp4", "bn")

	caster := casting.NewCasterWithDependencies(cfg, store, logging.NewNop(), &fakeDiarizer{}, &fakeEmbedder{}, testProtos())
	err := caster.Execute(context.Background(), job)
	if err == nil {
		t.Fatal("expected error without extracted audio")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCasterExecuteWrapsDiarizationFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := testsupport.NewJob(t, store, "/media/in/broken.mp4", "te")

	audio := filepath.Join(testsupport.BaseDir(cfg), "audio.wav")
	testsupport.WriteFile(t, audio, 64)
	job.AudioFile = audio

	caster := casting.NewCasterWithDependencies(cfg, store, logging.NewNop(),
		&fakeDiarizer{err: errors.New("model offline")}, &fakeEmbedder{}, testProtos())
	err := caster.Execute(context.Background(), job)
	if err == nil {
		t.Fatal("expected diarization failure to propagate")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}
