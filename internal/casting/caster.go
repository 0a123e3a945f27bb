package casting

import (
	"context"
	"fmt"
	"os"
	"strings"

	"log/slog"

	"dubber/internal/config"
	"dubber/internal/logging"
	"dubber/internal/queue"
	"dubber/internal/services"
	"dubber/internal/services/diarize"
	"dubber/internal/services/embed"
	"dubber/internal/stage"
	"dubber/internal/transcript"
)

// Diarizer produces speaker turns from extracted audio.
type Diarizer interface {
	Diarize(ctx context.Context, audioPath string) ([]transcript.Turn, error)
}

// Embedder produces a speaker embedding for a span of an audio file.
type Embedder interface {
	Embed(ctx context.Context, audioPath string, start, end float64) ([]float64, error)
}

// Caster runs diarization and per-speaker gender classification, producing the
// job's voice map.
type Caster struct {
	store    *queue.Store
	cfg      *config.Config
	logger   *slog.Logger
	diarizer Diarizer
	embedder Embedder
	protos   *Prototypes
}

// NewCaster constructs the casting stage handler using default dependencies.
// Prototype loading failures surface here so the daemon refuses to start.
func NewCaster(cfg *config.Config, store *queue.Store, logger *slog.Logger) (*Caster, error) {
	protos, err := LoadPrototypes(cfg.Casting.PrototypesPath, cfg.Casting.EmbeddingDim)
	if err != nil {
		return nil, err
	}
	diarizer := diarize.NewClient(diarize.Config{
		URL:            cfg.Services.DiarizeURL,
		TimeoutSeconds: cfg.Services.RequestTimeout,
	})
	embedder := embed.NewClient(embed.Config{
		URL:            cfg.Services.EmbedURL,
		TimeoutSeconds: cfg.Services.RequestTimeout,
	})
	return NewCasterWithDependencies(cfg, store, logger, diarizer, embedder, protos), nil
}

// NewCasterWithDependencies allows injecting collaborators (used in tests).
func NewCasterWithDependencies(cfg *config.Config, store *queue.Store, logger *slog.Logger, diarizer Diarizer, embedder Embedder, protos *Prototypes) *Caster {
	stageLogger := logger
	if stageLogger != nil {
		stageLogger = stageLogger.With(logging.String("component", "caster"))
	}
	return &Caster{
		store:    store,
		cfg:      cfg,
		logger:   stageLogger,
		diarizer: diarizer,
		embedder: embedder,
		protos:   protos,
	}
}

func (c *Caster) Prepare(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, c.logger)
	job.InitProgress("Casting", "Preparing speaker casting")
	logger.Info("starting casting preparation",
		logging.String("audio_file", strings.TrimSpace(job.AudioFile)))
	return nil
}

func (c *Caster) Execute(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, c.logger)
	if strings.TrimSpace(job.AudioFile) == "" {
		return services.Wrap(services.ErrValidation, "casting", "validate inputs",
			"No extracted audio present; run extraction before casting", nil)
	}
	if _, err := os.Stat(job.AudioFile); err != nil {
		return services.Wrap(services.ErrValidation, "casting", "validate inputs",
			fmt.Sprintf("Extracted audio %s is missing", job.AudioFile), err)
	}

	job.SetProgress("Casting", "Running speaker diarization", 10)
	turns, err := c.diarizer.Diarize(ctx, job.AudioFile)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "casting", "diarize",
			"Speaker diarization failed", err)
	}
	logger.Info("diarization complete", logging.Int("turns", len(turns)))

	job.SetProgress("Casting", "Classifying speakers", 40)
	genders, outcomes := BuildVoiceMap(ctx, turns, boundEmbedder{c.embedder, job.AudioFile}, c.protos, logger)

	failed := 0
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failed++
		}
	}

	voiceMap := make(transcript.VoiceMap, len(genders))
	for speaker, gender := range genders {
		voiceMap[speaker] = string(gender)
	}
	encoded, err := voiceMap.Encode()
	if err != nil {
		return services.Wrap(services.ErrTransient, "casting", "encode voice map",
			"Failed to encode voice map", err)
	}

	job.VoiceMapJSON = encoded
	job.SpeakerCount = len(genders)
	job.Status = queue.StatusCast
	job.SetProgress("Casting", fmt.Sprintf("Cast %d speakers", len(genders)), 100)

	if len(turns) == 0 {
		// Not fatal: synthesis falls back to the default gender per entry.
		logger.Warn("no speaker segments detected, continuing with empty voice map")
	}
	logger.Info("casting complete",
		logging.Int("speakers", len(genders)),
		logging.Int("failed_turns", failed))
	return nil
}

func (c *Caster) HealthCheck(ctx context.Context) stage.Health {
	const name = "caster"
	if strings.TrimSpace(c.cfg.Services.DiarizeURL) == "" {
		return stage.Unhealthy(name, "diarize service URL not configured")
	}
	if strings.TrimSpace(c.cfg.Services.EmbedURL) == "" {
		return stage.Unhealthy(name, "embed service URL not configured")
	}
	if c.protos == nil {
		return stage.Unhealthy(name, "gender prototypes not loaded")
	}
	return stage.Healthy(name)
}

// boundEmbedder fixes the audio path so BuildVoiceMap only deals in spans.
type boundEmbedder struct {
	embedder  Embedder
	audioPath string
}

func (b boundEmbedder) Embed(ctx context.Context, start, end float64) ([]float64, error) {
	return b.embedder.Embed(ctx, b.audioPath, start, end)
}
