// Package daemonrun boots the dubber daemon process: logging, queue store,
// workflow stages, lock acquisition, and the HTTP API.
package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"dubber/internal/casting"
	"dubber/internal/config"
	"dubber/internal/daemon"
	"dubber/internal/demux"
	"dubber/internal/logging"
	"dubber/internal/muxer"
	"dubber/internal/queue"
	"dubber/internal/staging"
	"dubber/internal/synthesizer"
	"dubber/internal/transcriber"
	"dubber/internal/workflow"
)

// Workspace directories older than this are swept at startup.
const staleWorkspaceAge = 24 * time.Hour

// Run starts the dubber daemon runtime loop and blocks until a shutdown signal.
func Run(cmdCtx context.Context, cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	pidPath := filepath.Join(cfg.Paths.LogDir, "dubberd.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	store, err := queue.Open(cfg)
	if err != nil {
		logger.Error("open queue store", logging.Error(err))
		return err
	}
	defer store.Close()

	sweep := staging.CleanStale(cfg.Paths.StagingDir, staleWorkspaceAge, logger)
	if len(sweep.Removed) > 0 {
		logger.Info("removed stale job workspaces", logging.Int("count", len(sweep.Removed)))
	}

	workflowManager := workflow.NewManager(cfg, store, logger)
	if err := registerStages(workflowManager, cfg, store, logger); err != nil {
		return err
	}

	d, err := daemon.New(cfg, store, logger, workflowManager)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	apiSrv, err := daemon.NewAPIServer(cfg, d, logger)
	if err != nil {
		return fmt.Errorf("create api server: %w", err)
	}
	if apiSrv != nil {
		if err := apiSrv.Start(signalCtx); err != nil {
			return err
		}
		defer apiSrv.Stop()
	}

	if err := d.Start(signalCtx); err != nil {
		logger.Error("daemon start failed", logging.Error(err))
		return err
	}

	<-signalCtx.Done()
	logger.Info("dubber daemon shutting down")
	return nil
}

func registerStages(mgr *workflow.Manager, cfg *config.Config, store *queue.Store, logger *slog.Logger) error {
	caster, err := casting.NewCaster(cfg, store, logger)
	if err != nil {
		return fmt.Errorf("configure casting stage: %w", err)
	}
	mgr.ConfigureStages(workflow.StageSet{
		Extractor:   demux.NewExtractor(cfg, store, logger),
		Caster:      caster,
		Transcriber: transcriber.NewTranscriber(cfg, store, logger),
		Synthesizer: synthesizer.NewSynthesizer(cfg, store, logger),
		Muxer:       muxer.NewMuxer(cfg, store, logger),
	})
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
