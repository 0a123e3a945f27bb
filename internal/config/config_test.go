package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dubber/internal/config"
)

func TestLoadDefaultsExpandPathsAndReadEnvKey(t *testing.T) {
	t.Setenv("ELEVEN_API_KEY", "test-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantStaging := filepath.Join(tempHome, ".local", "share", "dubber", "staging")
	if cfg.Paths.StagingDir != wantStaging {
		t.Fatalf("unexpected staging dir: got %q want %q", cfg.Paths.StagingDir, wantStaging)
	}
	if cfg.Paths.APIBind != "127.0.0.1:7319" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.Services.TTSAPIKey != "test-key" {
		t.Fatalf("expected TTS key from env, got %q", cfg.Services.TTSAPIKey)
	}
	if cfg.Casting.EmbeddingDim != 512 {
		t.Fatalf("unexpected embedding dim: %d", cfg.Casting.EmbeddingDim)
	}
	if cfg.Synthesis.Workers != 1 {
		t.Fatalf("expected sequential synthesis by default, got %d workers", cfg.Synthesis.Workers)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}
}

func TestLoadParsesFileAndNormalizesVoiceTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		`[services]`,
		`tts_url = "https://api.example.com"`,
		`tts_api_key = "k"`,
		`[voices]`,
		`default = " fallback-voice "`,
		`[voices.table.EN]`,
		`Male = "voice-m"`,
		`female = " voice-f "`,
		`[synthesis]`,
		`workers = 4`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Voices.Default != "fallback-voice" {
		t.Fatalf("unexpected default voice: %q", cfg.Voices.Default)
	}
	if got := cfg.Voices.Table["en"]["male"]; got != "voice-m" {
		t.Fatalf("expected lowercased table keys, got %v", cfg.Voices.Table)
	}
	if got := cfg.Voices.Table["en"]["female"]; got != "voice-f" {
		t.Fatalf("expected trimmed voice id, got %q", got)
	}
	if cfg.Synthesis.Workers != 4 {
		t.Fatalf("unexpected workers: %d", cfg.Synthesis.Workers)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "bad service url",
			mutate: func(c *config.Config) { c.Services.DiarizeURL = "localhost:9000" },
			want:   "diarize_url",
		},
		{
			name: "tts without key",
			mutate: func(c *config.Config) {
				c.Services.TTSURL = "https://api.example.com"
				c.Services.TTSAPIKey = ""
			},
			want: "tts_api_key",
		},
		{
			name:   "zero embedding dim",
			mutate: func(c *config.Config) { c.Casting.EmbeddingDim = 0 },
			want:   "embedding_dim",
		},
		{
			name:   "heartbeat timeout too small",
			mutate: func(c *config.Config) { c.Workflow.HeartbeatTimeout = c.Workflow.HeartbeatInterval },
			want:   "heartbeat_timeout",
		},
		{
			name:   "unknown log format",
			mutate: func(c *config.Config) { c.Logging.Format = "yaml" },
			want:   "logging.format",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}
