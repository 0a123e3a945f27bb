package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"dubber/internal/logging"
	"dubber/internal/queue"
	"dubber/internal/services"
	"dubber/internal/stage"
	"dubber/internal/testsupport"
)

type stubHandler struct {
	name      string
	executed  int
	execErr   error
	onExecute func(*queue.Job)
}

func (h *stubHandler) Prepare(ctx context.Context, job *queue.Job) error {
	job.InitProgress(h.name, h.name+" started")
	return nil
}

func (h *stubHandler) Execute(ctx context.Context, job *queue.Job) error {
	h.executed++
	if h.execErr != nil {
		return h.execErr
	}
	if h.onExecute != nil {
		h.onExecute(job)
	}
	return nil
}

func (h *stubHandler) HealthCheck(ctx context.Context) stage.Health {
	return stage.Healthy(h.name)
}

func fullStageSet() (StageSet, map[string]*stubHandler) {
	handlers := map[string]*stubHandler{
		"extractor":   {name: "extractor"},
		"caster":      {name: "caster"},
		"transcriber": {name: "transcriber"},
		"synthesizer": {name: "synthesizer"},
		"muxer":       {name: "muxer"},
	}
	return StageSet{
		Extractor:   handlers["extractor"],
		Caster:      handlers["caster"],
		Transcriber: handlers["transcriber"],
		Synthesizer: handlers["synthesizer"],
		Muxer:       handlers["muxer"],
	}, handlers
}

func TestProcessJobAdvancesThroughStages(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	manager := NewManager(cfg, store, logging.NewNop())
	set, handlers := fullStageSet()
	manager.ConfigureStages(set)

	testsupport.NewJob(t, store, "/media/in/movie.mp4", "hi")

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		job, err := manager.nextJob(ctx)
		if err != nil {
			t.Fatalf("nextJob: %v", err)
		}
		if job == nil {
			t.Fatalf("expected a job on iteration %d", i)
		}
		if err := manager.processJob(ctx, job); err != nil {
			t.Fatalf("processJob iteration %d: %v", i, err)
		}
	}

	job, err := manager.nextJob(ctx)
	if err != nil {
		t.Fatalf("nextJob after pipeline: %v", err)
	}
	if job != nil {
		t.Fatalf("expected drained queue, got status %s", job.Status)
	}
	for name, handler := range handlers {
		if handler.executed != 1 {
			t.Fatalf("handler %s executed %d times", name, handler.executed)
		}
	}

	final, err := store.List(ctx, queue.StatusCompleted)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(final) != 1 {
		t.Fatalf("expected one completed job, got %d", len(final))
	}
	if final[0].ProgressPercent != 100 {
		t.Fatalf("expected completed job at 100%%, got %f", final[0].ProgressPercent)
	}
}

func TestProcessJobClassifiesFailures(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus queue.Status
		wantReview bool
	}{
		{
			name:       "validation parks for review",
			err:        services.Wrap(services.ErrValidation, "extraction", "probe", "Source has no audio stream", nil),
			wantStatus: queue.StatusReview,
			wantReview: true,
		},
		{
			name:       "external tool fails for retry",
			err:        services.Wrap(services.ErrExternalTool, "extraction", "extract audio", "ffmpeg exploded", nil),
			wantStatus: queue.StatusFailed,
		},
		{
			name:       "plain error fails for retry",
			err:        errors.New("unexpected"),
			wantStatus: queue.StatusFailed,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testsupport.NewConfig(t)
			store := testsupport.MustOpenStore(t, cfg)
			manager := NewManager(cfg, store, logging.NewNop())
			manager.ConfigureStages(StageSet{Extractor: &stubHandler{name: "extractor", execErr: tc.err}})

			job := testsupport.NewJob(t, store, "/media/in/movie.mp4", "hi")
			if err := manager.processJob(context.Background(), job); err == nil {
				t.Fatal("expected processJob to surface the stage error")
			}

			stored, err := store.GetByID(context.Background(), job.ID)
			if err != nil {
				t.Fatalf("GetByID: %v", err)
			}
			if stored.Status != tc.wantStatus {
				t.Fatalf("expected status %s, got %s", tc.wantStatus, stored.Status)
			}
			if stored.NeedsReview != tc.wantReview {
				t.Fatalf("expected review flag %v, got %v", tc.wantReview, stored.NeedsReview)
			}
			if stored.ErrorMessage == "" {
				t.Fatal("expected persisted error message")
			}
		})
	}
}

func TestStartRequiresConfiguredStages(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	manager := NewManager(cfg, store, logging.NewNop())

	if err := manager.Start(context.Background()); err == nil {
		manager.Stop()
		t.Fatal("expected error when no stages are configured")
	}
}

func TestStartStopProcessesQueuedJob(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Workflow.QueuePollInterval = 1
	store := testsupport.MustOpenStore(t, cfg)
	manager := NewManager(cfg, store, logging.NewNop())
	manager.ConfigureStages(StageSet{Extractor: &stubHandler{name: "extractor"}})

	job := testsupport.NewJob(t, store, "/media/in/movie.mp4", "hi")
	if err := manager.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer manager.Stop()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		stored, err := store.GetByID(context.Background(), job.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if stored.Status == queue.StatusExtracted {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("job never reached extracted status")
}

func TestStatusAggregatesStageHealth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	manager := NewManager(cfg, store, logging.NewNop())
	set, _ := fullStageSet()
	manager.ConfigureStages(set)

	testsupport.NewJob(t, store, "/media/in/movie.mp4", "hi")

	summary := manager.Status(context.Background())
	if summary.Running {
		t.Fatal("manager should not report running before Start")
	}
	if len(summary.StageHealth) != 5 {
		t.Fatalf("expected 5 stage health entries, got %d", len(summary.StageHealth))
	}
	if !summary.Healthy() {
		t.Fatal("expected healthy summary with stub handlers")
	}
	if summary.QueueStats[queue.StatusPending] != 1 {
		t.Fatalf("expected one pending job, got %d", summary.QueueStats[queue.StatusPending])
	}
}
