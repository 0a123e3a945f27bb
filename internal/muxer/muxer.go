package muxer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dubber/internal/config"
	"dubber/internal/logging"
	"dubber/internal/media/ffmpeg"
	"dubber/internal/queue"
	"dubber/internal/services"
	"dubber/internal/stage"
	"dubber/internal/staging"
)

// Muxer runs the muxing stage.
type Muxer struct {
	store  *queue.Store
	cfg    *config.Config
	logger *slog.Logger
}

// NewMuxer constructs the muxing stage handler.
func NewMuxer(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Muxer {
	return &Muxer{
		store:  store,
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "muxer"),
	}
}

func (m *Muxer) Prepare(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, m.logger)
	job.InitProgress("Muxing", "Preparing final mux")
	logger.Info("starting mux preparation",
		logging.String("dub_track", job.DubTrackFile))
	return nil
}

func (m *Muxer) Execute(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, m.logger)
	source := strings.TrimSpace(job.SourcePath)
	if source == "" {
		return services.Wrap(services.ErrValidation, "muxing", "validate inputs",
			"Job has no source path", nil)
	}
	if _, err := os.Stat(source); err != nil {
		return services.Wrap(services.ErrValidation, "muxing", "validate inputs",
			fmt.Sprintf("Source file %s is missing", source), err)
	}
	dubTrack := strings.TrimSpace(job.DubTrackFile)
	if dubTrack == "" {
		return services.Wrap(services.ErrValidation, "muxing", "validate inputs",
			"No dub track present; run synthesis before muxing", nil)
	}
	if _, err := os.Stat(dubTrack); err != nil {
		return services.Wrap(services.ErrValidation, "muxing", "validate inputs",
			fmt.Sprintf("Dub track %s is missing", dubTrack), err)
	}

	if err := os.MkdirAll(m.cfg.Paths.OutputDir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "muxing", "prepare output",
			"Failed to create the output directory; check paths.output_dir", err)
	}
	dest := outputPath(m.cfg.Paths.OutputDir, source, job.TargetLanguage)

	job.SetProgress("Muxing", "Muxing dub track over source video", 30)
	if err := ffmpeg.MuxDubTrack(ctx, m.cfg.Tools.FFmpeg, source, dubTrack, dest); err != nil {
		return services.Wrap(services.ErrExternalTool, "muxing", "mux",
			"ffmpeg failed to mux the dub track", err)
	}

	job.FinalFile = dest
	job.Status = queue.StatusCompleted
	job.SetProgress("Muxing", "Dubbed video ready", 100)

	if err := staging.RemoveJobDir(m.cfg.Paths.StagingDir, job.ID); err != nil {
		// The dubbed output exists; a leftover workspace only costs disk.
		logger.Warn("failed to remove job workspace", logging.Error(err))
	}
	logger.Info("mux complete", logging.String("final_file", dest))
	return nil
}

func (m *Muxer) HealthCheck(ctx context.Context) stage.Health {
	const name = "muxer"
	if err := ffmpeg.Available(m.cfg.Tools.FFmpeg); err != nil {
		return stage.Unhealthy(name, err.Error())
	}
	return stage.Healthy(name)
}

// outputPath names the dubbed file after the source with the target language
// spliced in before the container extension.
func outputPath(outputDir, source, language string) string {
	ext := filepath.Ext(source)
	base := strings.TrimSuffix(filepath.Base(source), ext)
	language = strings.TrimSpace(language)
	if language == "" {
		return filepath.Join(outputDir, base+".dubbed"+ext)
	}
	return filepath.Join(outputDir, fmt.Sprintf("%s.%s.dubbed%s", base, language, ext))
}
