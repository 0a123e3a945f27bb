package synthesizer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"dubber/internal/config"
	"dubber/internal/dubtrack"
	"dubber/internal/logging"
	"dubber/internal/queue"
	"dubber/internal/services"
	"dubber/internal/services/tts"
	"dubber/internal/stage"
	"dubber/internal/staging"
	"dubber/internal/transcript"
	"dubber/internal/voices"
)

// dubTrackFileName is the assembled dub track inside the job workspace.
const dubTrackFileName = "dub.mp3"

// Assembler builds a dub track from transcript entries.
type Assembler interface {
	Assemble(ctx context.Context, entries []transcript.Entry, voiceMap transcript.VoiceMap, language, outputPath string) (dubtrack.Result, error)
}

// Synthesizer runs the synthesis stage.
type Synthesizer struct {
	store     *queue.Store
	cfg       *config.Config
	logger    *slog.Logger
	assembler Assembler
}

// NewSynthesizer constructs the synthesis stage handler with the configured
// text-to-speech service and voice table.
func NewSynthesizer(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Synthesizer {
	client := tts.NewClient(tts.Config{
		APIKey:         cfg.Services.TTSAPIKey,
		URL:            cfg.Services.TTSURL,
		Model:          cfg.Services.TTSModel,
		TimeoutSeconds: cfg.Services.RequestTimeout,
	})
	assembler := dubtrack.NewAssembler(client, voices.NewResolver(cfg), cfg.Synthesis.Workers, logger)
	return NewSynthesizerWithDependencies(cfg, store, logger, assembler)
}

// NewSynthesizerWithDependencies allows injecting the assembler (used in tests).
func NewSynthesizerWithDependencies(cfg *config.Config, store *queue.Store, logger *slog.Logger, assembler Assembler) *Synthesizer {
	return &Synthesizer{
		store:     store,
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "synthesizer"),
		assembler: assembler,
	}
}

func (s *Synthesizer) Prepare(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, s.logger)
	job.InitProgress("Synthesizing", "Preparing speech synthesis")
	logger.Info("starting synthesis preparation",
		logging.String(logging.FieldLanguage, job.TargetLanguage))
	return nil
}

func (s *Synthesizer) Execute(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, s.logger)
	entries, err := stage.ParseTranscript(job.TranscriptJSON)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return services.Wrap(services.ErrValidation, "synthesis", "validate inputs",
			"No transcript entries to synthesize; run transcription first", nil)
	}
	voiceMap, err := stage.ParseVoiceMap(job.VoiceMapJSON)
	if err != nil {
		return err
	}

	workspace, err := staging.EnsureJobDir(s.cfg.Paths.StagingDir, job.ID)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "synthesis", "prepare workspace",
			"Failed to create the job workspace; check paths.staging_dir", err)
	}
	output := filepath.Join(workspace, dubTrackFileName)

	job.SetProgress("Synthesizing", fmt.Sprintf("Synthesizing %d entries", len(entries)), 20)
	result, err := s.assembler.Assemble(ctx, entries, voiceMap, job.TargetLanguage, output)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "synthesis", "assemble dub track",
			"Speech synthesis produced no usable dub track", err)
	}

	job.DubTrackFile = output
	job.SynthesizedCount = result.SynthesizedCount
	job.SkippedCount = result.SkippedCount
	job.Status = queue.StatusSynthesized
	job.SetProgress("Synthesizing",
		fmt.Sprintf("Synthesized %d entries, skipped %d", result.SynthesizedCount, result.SkippedCount), 100)
	logger.Info("synthesis complete",
		logging.Int("synthesized", result.SynthesizedCount),
		logging.Int("skipped", result.SkippedCount),
		logging.String("dub_track", output))
	return nil
}

func (s *Synthesizer) HealthCheck(ctx context.Context) stage.Health {
	const name = "synthesizer"
	if strings.TrimSpace(s.cfg.Services.TTSURL) == "" {
		return stage.Unhealthy(name, "tts service URL not configured")
	}
	if strings.TrimSpace(s.cfg.Services.TTSAPIKey) == "" {
		return stage.Unhealthy(name, "tts API key not configured")
	}
	return stage.Healthy(name)
}
