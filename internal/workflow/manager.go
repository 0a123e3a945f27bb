package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"dubber/internal/config"
	"dubber/internal/logging"
	"dubber/internal/queue"
	"dubber/internal/stage"
)

// StageSet bundles the concrete workflow handlers the manager orchestrates.
type StageSet struct {
	Extractor   stage.Handler
	Caster      stage.Handler
	Transcriber stage.Handler
	Synthesizer stage.Handler
	Muxer       stage.Handler
}

type pipelineStage struct {
	name             string
	handler          stage.Handler
	startStatus      queue.Status
	processingStatus queue.Status
	doneStatus       queue.Status
}

// Manager coordinates queue processing using registered stage handlers.
type Manager struct {
	cfg                *config.Config
	store              *queue.Store
	logger             *slog.Logger
	pollInterval       time.Duration
	errorRetryInterval time.Duration
	heartbeat          *HeartbeatMonitor

	stages       []pipelineStage
	stageByStart map[queue.Status]pipelineStage
	statusOrder  []queue.Status

	mu      sync.RWMutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	lastErr error
	lastJob *queue.Job
}

// NewManager constructs a workflow manager.
func NewManager(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Manager {
	return &Manager{
		cfg:                cfg,
		store:              store,
		logger:             logging.NewComponentLogger(logger, "workflow-manager"),
		pollInterval:       time.Duration(cfg.Workflow.QueuePollInterval) * time.Second,
		errorRetryInterval: time.Duration(cfg.Workflow.ErrorRetryInterval) * time.Second,
		heartbeat: NewHeartbeatMonitor(
			store,
			logger,
			time.Duration(cfg.Workflow.HeartbeatInterval)*time.Second,
			time.Duration(cfg.Workflow.HeartbeatTimeout)*time.Second,
		),
	}
}

// ConfigureStages registers the pipeline in lifecycle order. Stages with a nil
// handler are skipped so partial wiring in tests stays possible.
func (m *Manager) ConfigureStages(set StageSet) {
	m.mu.Lock()
	defer m.mu.Unlock()

	candidates := []pipelineStage{
		{name: "extractor", handler: set.Extractor, startStatus: queue.StatusPending, processingStatus: queue.StatusExtracting, doneStatus: queue.StatusExtracted},
		{name: "caster", handler: set.Caster, startStatus: queue.StatusExtracted, processingStatus: queue.StatusCasting, doneStatus: queue.StatusCast},
		{name: "transcriber", handler: set.Transcriber, startStatus: queue.StatusCast, processingStatus: queue.StatusTranscribing, doneStatus: queue.StatusTranscribed},
		{name: "synthesizer", handler: set.Synthesizer, startStatus: queue.StatusTranscribed, processingStatus: queue.StatusSynthesizing, doneStatus: queue.StatusSynthesized},
		{name: "muxer", handler: set.Muxer, startStatus: queue.StatusSynthesized, processingStatus: queue.StatusMuxing, doneStatus: queue.StatusCompleted},
	}

	m.stages = m.stages[:0]
	m.stageByStart = make(map[queue.Status]pipelineStage, len(candidates))
	m.statusOrder = m.statusOrder[:0]
	for _, candidate := range candidates {
		if candidate.handler == nil {
			continue
		}
		m.stages = append(m.stages, candidate)
		m.stageByStart[candidate.startStatus] = candidate
		m.statusOrder = append(m.statusOrder, candidate.startStatus)
	}
}

func (m *Manager) stageForStatus(status queue.Status) (pipelineStage, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stg, ok := m.stageByStart[status]
	return stg, ok
}

func (m *Manager) setLastError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}

func (m *Manager) setLastJob(job *queue.Job) {
	m.mu.Lock()
	if job != nil {
		cp := *job
		m.lastJob = &cp
	}
	m.mu.Unlock()
}
