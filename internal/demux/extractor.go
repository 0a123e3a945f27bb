package demux

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"dubber/internal/config"
	"dubber/internal/logging"
	"dubber/internal/media/ffmpeg"
	"dubber/internal/media/ffprobe"
	"dubber/internal/queue"
	"dubber/internal/services"
	"dubber/internal/stage"
	"dubber/internal/staging"
)

// audioFileName is the extracted audio artifact inside the job workspace.
const audioFileName = "audio.wav"

// Extractor runs the extraction stage.
type Extractor struct {
	store  *queue.Store
	cfg    *config.Config
	logger *slog.Logger
}

// NewExtractor constructs the extraction stage handler.
func NewExtractor(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Extractor {
	return &Extractor{
		store:  store,
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "extractor"),
	}
}

func (e *Extractor) Prepare(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, e.logger)
	job.InitProgress("Extracting", "Preparing audio extraction")
	logger.Info("starting extraction preparation",
		logging.String("source", job.SourcePath))
	return nil
}

func (e *Extractor) Execute(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, e.logger)
	source := strings.TrimSpace(job.SourcePath)
	if source == "" {
		return services.Wrap(services.ErrValidation, "extraction", "validate inputs",
			"Job has no source path", nil)
	}
	if _, err := os.Stat(source); err != nil {
		return services.Wrap(services.ErrValidation, "extraction", "validate inputs",
			fmt.Sprintf("Source file %s is missing", source), err)
	}

	job.SetProgress("Extracting", "Probing source streams", 10)
	probe, err := ffprobe.Inspect(ctx, e.cfg.Tools.FFprobe, source)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "extraction", "probe",
			"ffprobe failed to inspect the source", err)
	}
	if probe.AudioStreamCount() == 0 {
		return services.Wrap(services.ErrValidation, "extraction", "probe",
			"Source has no audio stream to dub", nil)
	}
	logger.Info("source probed",
		logging.Int("audio_streams", probe.AudioStreamCount()),
		logging.Int("video_streams", probe.VideoStreamCount()),
		logging.Float64("duration_seconds", probe.DurationSeconds()))

	workspace, err := staging.EnsureJobDir(e.cfg.Paths.StagingDir, job.ID)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "extraction", "prepare workspace",
			"Failed to create the job workspace; check paths.staging_dir", err)
	}
	dest := filepath.Join(workspace, audioFileName)

	job.SetProgress("Extracting", "Extracting primary audio track", 40)
	if err := ffmpeg.ExtractAudio(ctx, e.cfg.Tools.FFmpeg, source, dest); err != nil {
		return services.Wrap(services.ErrExternalTool, "extraction", "extract audio",
			"ffmpeg failed to extract the audio track", err)
	}

	job.AudioFile = dest
	job.Status = queue.StatusExtracted
	job.SetProgress("Extracting", "Audio track extracted", 100)
	logger.Info("extraction complete", logging.String("audio_file", dest))
	return nil
}

func (e *Extractor) HealthCheck(ctx context.Context) stage.Health {
	const name = "extractor"
	if err := ffmpeg.Available(e.cfg.Tools.FFmpeg); err != nil {
		return stage.Unhealthy(name, err.Error())
	}
	if _, err := exec.LookPath(e.cfg.Tools.FFprobe); err != nil {
		return stage.Unhealthy(name, fmt.Sprintf("ffprobe unavailable: %v", err))
	}
	return stage.Healthy(name)
}
