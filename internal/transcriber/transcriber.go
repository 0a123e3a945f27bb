package transcriber

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"dubber/internal/config"
	"dubber/internal/logging"
	"dubber/internal/queue"
	"dubber/internal/services"
	"dubber/internal/services/transcribe"
	"dubber/internal/stage"
	"dubber/internal/transcript"
)

// Service produces a translated transcript for an audio file.
type Service interface {
	Transcribe(ctx context.Context, audioPath, targetLanguage string) ([]transcript.Entry, error)
}

// Transcriber runs the transcription stage.
type Transcriber struct {
	store   *queue.Store
	cfg     *config.Config
	logger  *slog.Logger
	service Service
}

// NewTranscriber constructs the transcription stage handler using the
// configured transcription service.
func NewTranscriber(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Transcriber {
	service := transcribe.NewClient(transcribe.Config{
		URL:            cfg.Services.TranscribeURL,
		TimeoutSeconds: cfg.Services.RequestTimeout,
	})
	return NewTranscriberWithDependencies(cfg, store, logger, service)
}

// NewTranscriberWithDependencies allows injecting the service (used in tests).
func NewTranscriberWithDependencies(cfg *config.Config, store *queue.Store, logger *slog.Logger, service Service) *Transcriber {
	return &Transcriber{
		store:   store,
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "transcriber"),
		service: service,
	}
}

func (t *Transcriber) Prepare(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, t.logger)
	job.InitProgress("Transcribing", "Preparing transcription")
	logger.Info("starting transcription preparation",
		logging.String(logging.FieldLanguage, job.TargetLanguage))
	return nil
}

func (t *Transcriber) Execute(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, t.logger)
	if strings.TrimSpace(job.AudioFile) == "" {
		return services.Wrap(services.ErrValidation, "transcription", "validate inputs",
			"No extracted audio present; run extraction before transcription", nil)
	}
	if _, err := os.Stat(job.AudioFile); err != nil {
		return services.Wrap(services.ErrValidation, "transcription", "validate inputs",
			fmt.Sprintf("Extracted audio %s is missing", job.AudioFile), err)
	}
	if strings.TrimSpace(job.TargetLanguage) == "" {
		return services.Wrap(services.ErrValidation, "transcription", "validate inputs",
			"Job has no target language", nil)
	}

	job.SetProgress("Transcribing", "Transcribing and translating audio", 20)
	entries, err := t.service.Transcribe(ctx, job.AudioFile, job.TargetLanguage)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "transcription", "transcribe",
			"Transcription service failed", err)
	}
	if len(entries) == 0 {
		return services.Wrap(services.ErrValidation, "transcription", "validate transcript",
			"Transcription produced no entries", nil)
	}
	// A blank opening line means the service returned a degenerate transcript
	// and the whole dub would start from garbage.
	if strings.TrimSpace(entries[0].Text) == "" {
		return services.Wrap(services.ErrValidation, "transcription", "validate transcript",
			"Transcript starts with a blank entry", nil)
	}

	encoded, err := transcript.EncodeEntries(entries)
	if err != nil {
		return services.Wrap(services.ErrTransient, "transcription", "encode transcript",
			"Failed to encode transcript", err)
	}

	job.TranscriptJSON = encoded
	job.Status = queue.StatusTranscribed
	job.SetProgress("Transcribing", fmt.Sprintf("Transcribed %d entries", len(entries)), 100)
	logger.Info("transcription complete", logging.Int("entries", len(entries)))
	return nil
}

func (t *Transcriber) HealthCheck(ctx context.Context) stage.Health {
	const name = "transcriber"
	if strings.TrimSpace(t.cfg.Services.TranscribeURL) == "" {
		return stage.Unhealthy(name, "transcribe service URL not configured")
	}
	return stage.Healthy(name)
}
