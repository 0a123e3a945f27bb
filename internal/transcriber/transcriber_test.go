package transcriber_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"dubber/internal/logging"
	"dubber/internal/queue"
	"dubber/internal/services"
	"dubber/internal/testsupport"
	"dubber/internal/transcriber"
	"dubber/internal/transcript"
)

type fakeService struct {
	entries  []transcript.Entry
	err      error
	language string
}

func (f *fakeService) Transcribe(_ context.Context, _ string, targetLanguage string) ([]transcript.Entry, error) {
	f.language = targetLanguage
	return f.entries, f.err
}

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.wav")
	if err := os.WriteFile(path, []byte("pcm"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	return path
}

func newCastJob(t *testing.T, store *queue.Store, audioPath string) *queue.Job {
	t.Helper()
	job := testsupport.NewJob(t, store, "/media/in/movie.mp4", "hi")
	job.AudioFile = audioPath
	job.Status = queue.StatusCast
	return job
}

func TestExecutePersistsTranscript(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	service := &fakeService{entries: []transcript.Entry{
		{Text: "नमस्ते", Speaker: "SPEAKER_00"},
		{Text: "आप कैसे हैं", Speaker: "SPEAKER_01"},
	}}

	job := newCastJob(t, store, writeAudio(t))
	handler := transcriber.NewTranscriberWithDependencies(cfg, store, logging.NewNop(), service)

	if err := handler.Prepare(context.Background(), job); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := handler.Execute(context.Background(), job); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if job.Status != queue.StatusTranscribed {
		t.Fatalf("unexpected status %s", job.Status)
	}
	if service.language != "hi" {
		t.Fatalf("expected target language forwarded, got %q", service.language)
	}
	entries, err := transcript.ParseEntries(job.TranscriptJSON)
	if err != nil {
		t.Fatalf("parse persisted transcript: %v", err)
	}
	if len(entries) != 2 || entries[0].Text != "नमस्ते" {
		t.Fatalf("unexpected persisted entries %+v", entries)
	}
}

func TestExecuteRejectsMissingAudio(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	service := &fakeService{}

	job := newCastJob(t, store, filepath.Join(t.TempDir(), "absent.wav"))
	handler := transcriber.NewTranscriberWithDependencies(cfg, store, logging.NewNop(), service)

	if err := handler.Execute(context.Background(), job); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestExecuteWrapsServiceFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	service := &fakeService{err: errors.New("model crashed")}

	job := newCastJob(t, store, writeAudio(t))
	handler := transcriber.NewTranscriberWithDependencies(cfg, store, logging.NewNop(), service)

	if err := handler.Execute(context.Background(), job); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestExecuteRejectsEmptyTranscript(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	service := &fakeService{}

	job := newCastJob(t, store, writeAudio(t))
	handler := transcriber.NewTranscriberWithDependencies(cfg, store, logging.NewNop(), service)

	if err := handler.Execute(context.Background(), job); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestExecuteRejectsBlankOpeningEntry(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	service := &fakeService{entries: []transcript.Entry{
		{Text: "   ", Speaker: "SPEAKER_00"},
		{Text: "line", Speaker: "SPEAKER_00"},
	}}

	job := newCastJob(t, store, writeAudio(t))
	handler := transcriber.NewTranscriberWithDependencies(cfg, store, logging.NewNop(), service)

	if err := handler.Execute(context.Background(), job); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestHealthCheckRequiresServiceURL(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	handler := transcriber.NewTranscriberWithDependencies(cfg, store, logging.NewNop(), &fakeService{})

	if health := handler.HealthCheck(context.Background()); health.Ready {
		t.Fatal("expected unhealthy without transcribe URL")
	}
	cfg.Services.TranscribeURL = "http://127.0.0.1:9000/transcribe"
	if health := handler.HealthCheck(context.Background()); !health.Ready {
		t.Fatalf("expected healthy, got %s", health.Detail)
	}
}
