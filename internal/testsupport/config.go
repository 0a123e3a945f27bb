package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"dubber/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StagingDir = filepath.Join(base, "staging")
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Casting.PrototypesPath = filepath.Join(base, "prototypes.json")
	cfgVal.Services.TTSAPIKey = "test"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithEmbeddingDim overrides the expected prototype dimensionality.
func WithEmbeddingDim(dim int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Casting.EmbeddingDim = dim
	}
}

// WithServiceURLs points the model service endpoints at the provided base URL,
// typically an httptest server.
func WithServiceURLs(base string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Services.DiarizeURL = base + "/diarize"
		b.cfg.Services.EmbedURL = base + "/embed"
		b.cfg.Services.TranscribeURL = base + "/transcribe"
		b.cfg.Services.TTSURL = base + "/tts"
	}
}

// WithPrototypes writes a prototypes JSON file with the provided vectors and
// points the config at it. The embedding dimensionality follows the male vector.
func WithPrototypes(male, female []float64) ConfigOption {
	return func(b *configBuilder) {
		payload := map[string][]float64{"male": male, "female": female}
		data, err := json.Marshal(payload)
		if err != nil {
			b.t.Fatalf("marshal prototypes: %v", err)
		}
		path := filepath.Join(b.baseDir, "prototypes.json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			b.t.Fatalf("write prototypes: %v", err)
		}
		b.cfg.Casting.PrototypesPath = path
		b.cfg.Casting.EmbeddingDim = len(male)
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StagingDir)
}
