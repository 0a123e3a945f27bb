package daemon_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorilla/websocket"

	"dubber/internal/api"
	"dubber/internal/daemon"
	"dubber/internal/logging"
	"dubber/internal/queue"
	"dubber/internal/stage"
	"dubber/internal/testsupport"
	"dubber/internal/workflow"
)

func newTestDaemon(t *testing.T) (*daemon.Daemon, *queue.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()
	manager := workflow.NewManager(cfg, store, logger)
	d, err := daemon.New(cfg, store, logger, manager)
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	return d, store
}

func writeSourceFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("not really video"), 0o644); err != nil {
		t.Fatalf("write source file: %v", err)
	}
	return path
}

func TestAddJobValidatesSource(t *testing.T) {
	d, _ := newTestDaemon(t)
	ctx := context.Background()

	if _, err := d.AddJob(ctx, "", "hi"); err == nil {
		t.Fatal("expected error for empty source")
	}
	if _, err := d.AddJob(ctx, "/nonexistent/movie.mkv", "hi"); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := d.AddJob(ctx, writeSourceFile(t, "notes.txt"), "hi"); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
	if _, err := d.AddJob(ctx, writeSourceFile(t, "movie.mkv"), "not a language"); err == nil {
		t.Fatal("expected error for invalid target language")
	}
}

func TestAddJobNormalizesLanguage(t *testing.T) {
	d, _ := newTestDaemon(t)

	job, err := d.AddJob(context.Background(), writeSourceFile(t, "movie.mkv"), "HIN")
	if err != nil {
		t.Fatalf("add job: %v", err)
	}
	if job.TargetLanguage != "hi" {
		t.Fatalf("expected normalized language hi, got %q", job.TargetLanguage)
	}
	if job.Status != queue.StatusPending {
		t.Fatalf("expected pending status, got %q", job.Status)
	}
}

func startTestAPI(t *testing.T) (*daemon.Daemon, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()
	manager := workflow.NewManager(cfg, store, logger)
	d, err := daemon.New(cfg, store, logger, manager)
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	srv, err := daemon.NewAPIServer(cfg, d, logger)
	if err != nil {
		t.Fatalf("new api server: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("start api server: %v", err)
	}
	t.Cleanup(srv.Stop)
	return d, srv.Addr()
}

type noopHandler struct{ name string }

func (h noopHandler) Prepare(context.Context, *queue.Job) error { return nil }
func (h noopHandler) Execute(context.Context, *queue.Job) error { return nil }
func (h noopHandler) HealthCheck(context.Context) stage.Health {
	return stage.Health{Name: h.name, Ready: true}
}

func TestDaemonEnforcesSingleInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()

	newDaemon := func() *daemon.Daemon {
		manager := workflow.NewManager(cfg, store, logger)
		manager.ConfigureStages(workflow.StageSet{
			Extractor:   noopHandler{name: "extractor"},
			Caster:      noopHandler{name: "caster"},
			Transcriber: noopHandler{name: "transcriber"},
			Synthesizer: noopHandler{name: "synthesizer"},
			Muxer:       noopHandler{name: "muxer"},
		})
		d, err := daemon.New(cfg, store, logger, manager)
		if err != nil {
			t.Fatalf("new daemon: %v", err)
		}
		return d
	}

	first := newDaemon()
	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("start first daemon: %v", err)
	}
	defer first.Stop()
	if !first.Running() {
		t.Fatal("expected first daemon running")
	}

	second := newDaemon()
	if err := second.Start(ctx); err == nil {
		second.Stop()
		t.Fatal("expected second daemon start to fail while lock is held")
	}

	first.Stop()
	if first.Running() {
		t.Fatal("expected first daemon stopped")
	}
}

func TestAPISubmitListDescribe(t *testing.T) {
	_, addr := startTestAPI(t)
	source := writeSourceFile(t, "movie.mkv")

	body, _ := json.Marshal(api.SubmitRequest{Source: source, TargetLanguage: "fr"})
	resp, err := http.Post("http://"+addr+"/api/queue", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("submit request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created api.QueueJobResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode submit response: %v", err)
	}
	if created.Job.TargetLanguage != "fr" || created.Job.Status != "pending" {
		t.Fatalf("unexpected created job: %+v", created.Job)
	}

	listResp, err := http.Get("http://" + addr + "/api/queue")
	if err != nil {
		t.Fatalf("list request: %v", err)
	}
	defer listResp.Body.Close()
	var list api.QueueListResponse
	if err := json.NewDecoder(listResp.Body).Decode(&list); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(list.Jobs) != 1 || list.Jobs[0].ID != created.Job.ID {
		t.Fatalf("unexpected listing: %+v", list.Jobs)
	}

	jobResp, err := http.Get(fmt.Sprintf("http://%s/api/queue/%d", addr, created.Job.ID))
	if err != nil {
		t.Fatalf("describe request: %v", err)
	}
	defer jobResp.Body.Close()
	if jobResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", jobResp.StatusCode)
	}

	missingResp, err := http.Get("http://" + addr + "/api/queue/9999")
	if err != nil {
		t.Fatalf("describe missing request: %v", err)
	}
	defer missingResp.Body.Close()
	if missingResp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for missing job, got %d", missingResp.StatusCode)
	}
}

func TestAPISubmitRejectsBadRequest(t *testing.T) {
	_, addr := startTestAPI(t)

	resp, err := http.Post("http://"+addr+"/api/queue", "application/json", bytes.NewReader([]byte("{")))
	if err != nil {
		t.Fatalf("submit request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", resp.StatusCode)
	}

	body, _ := json.Marshal(api.SubmitRequest{Source: "/nonexistent/movie.mkv", TargetLanguage: "hi"})
	resp2, err := http.Post("http://"+addr+"/api/queue", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("submit request: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing source, got %d", resp2.StatusCode)
	}
}

func TestAPIStatusAndHealth(t *testing.T) {
	_, addr := startTestAPI(t)

	statusResp, err := http.Get("http://" + addr + "/api/status")
	if err != nil {
		t.Fatalf("status request: %v", err)
	}
	defer statusResp.Body.Close()
	var status api.DaemonStatus
	if err := json.NewDecoder(statusResp.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Running {
		t.Fatal("expected daemon not running before Start")
	}
	if status.QueueDBPath == "" || status.LockFilePath == "" {
		t.Fatalf("expected populated paths, got %+v", status)
	}

	healthResp, err := http.Get("http://" + addr + "/api/health")
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	defer healthResp.Body.Close()
	var health api.HealthResponse
	if err := json.NewDecoder(healthResp.Body).Decode(&health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if !health.Healthy || health.Total != 0 {
		t.Fatalf("unexpected health: %+v", health)
	}
}

func TestAPIProgressFeedStreamsSnapshots(t *testing.T) {
	d, addr := startTestAPI(t)
	if _, err := d.AddJob(context.Background(), writeSourceFile(t, "movie.mkv"), "hi"); err != nil {
		t.Fatalf("add job: %v", err)
	}

	conn, resp, err := websocket.DefaultDialer.Dial("ws://"+addr+"/api/ws", nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	var snapshot api.QueueListResponse
	if err := conn.ReadJSON(&snapshot); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if len(snapshot.Jobs) != 1 || snapshot.Jobs[0].Status != "pending" {
		t.Fatalf("unexpected snapshot: %+v", snapshot.Jobs)
	}
}

func TestAPIRetryAndClear(t *testing.T) {
	d, addr := startTestAPI(t)
	ctx := context.Background()

	job, err := d.AddJob(ctx, writeSourceFile(t, "movie.mkv"), "hi")
	if err != nil {
		t.Fatalf("add job: %v", err)
	}
	job.SetFailed("synthesis service unreachable")
	if err := d.Store().Update(ctx, job); err != nil {
		t.Fatalf("update job: %v", err)
	}

	retryResp, err := http.Post(fmt.Sprintf("http://%s/api/queue/%d/retry", addr, job.ID), "application/json", nil)
	if err != nil {
		t.Fatalf("retry request: %v", err)
	}
	defer retryResp.Body.Close()
	var action api.ActionResponse
	if err := json.NewDecoder(retryResp.Body).Decode(&action); err != nil {
		t.Fatalf("decode retry response: %v", err)
	}
	if action.Affected != 1 {
		t.Fatalf("expected one retried job, got %d", action.Affected)
	}

	clearResp, err := http.Post("http://"+addr+"/api/queue/clear?scope=all", "application/json", nil)
	if err != nil {
		t.Fatalf("clear request: %v", err)
	}
	defer clearResp.Body.Close()
	if err := json.NewDecoder(clearResp.Body).Decode(&action); err != nil {
		t.Fatalf("decode clear response: %v", err)
	}
	if action.Affected != 1 {
		t.Fatalf("expected one cleared job, got %d", action.Affected)
	}
}
