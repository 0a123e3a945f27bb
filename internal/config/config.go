package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Paths contains directory and bind address configuration.
type Paths struct {
	StagingDir string `toml:"staging_dir"`
	OutputDir  string `toml:"output_dir"`
	LogDir     string `toml:"log_dir"`
	APIBind    string `toml:"api_bind"`
}

// Services contains endpoints and credentials for the external model services.
type Services struct {
	DiarizeURL     string `toml:"diarize_url"`
	EmbedURL       string `toml:"embed_url"`
	TranscribeURL  string `toml:"transcribe_url"`
	TTSURL         string `toml:"tts_url"`
	TTSAPIKey      string `toml:"tts_api_key"`
	TTSModel       string `toml:"tts_model"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Casting contains configuration for speaker gender classification.
type Casting struct {
	// PrototypesPath points at the JSON file holding the male/female
	// reference embeddings. Validated eagerly at daemon start.
	PrototypesPath string `toml:"prototypes_path"`
	// EmbeddingDim is the expected prototype/embedding dimensionality.
	EmbeddingDim int `toml:"embedding_dim"`
}

// Synthesis contains configuration for dub track assembly.
type Synthesis struct {
	// Workers bounds concurrent text-to-speech calls per job. 1 keeps the
	// reference sequential behavior.
	Workers int `toml:"workers"`
}

// Voices contains voice table overrides and the fallback voice.
type Voices struct {
	// Default is the voice ID used when no (language, gender) entry exists.
	Default string `toml:"default"`
	// Table maps language code -> gender -> synthesizer voice ID, merged
	// over the built-in table.
	Table map[string]map[string]string `toml:"table"`
}

// Tools contains external binary names or paths.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Workflow contains configuration for daemon timing and intervals.
type Workflow struct {
	QueuePollInterval  int `toml:"queue_poll_interval"`
	ErrorRetryInterval int `toml:"error_retry_interval"`
	HeartbeatInterval  int `toml:"heartbeat_interval"`
	HeartbeatTimeout   int `toml:"heartbeat_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Dubber.
//
// Configuration sections by subsystem:
//   - Paths: directories and API bind address
//   - Services: diarization, embedding, transcription and TTS endpoints
//   - Casting: gender prototype vectors
//   - Synthesis: dub track assembly settings
//   - Voices: (language, gender) voice table overrides
//   - Tools: external binaries (ffmpeg)
//   - Workflow: daemon polling intervals and timeouts
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Services  Services  `toml:"services"`
	Casting   Casting   `toml:"casting"`
	Synthesis Synthesis `toml:"synthesis"`
	Voices    Voices    `toml:"voices"`
	Tools     Tools     `toml:"tools"`
	Workflow  Workflow  `toml:"workflow"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/dubber/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized. A missing file yields defaults.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("dubber.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the pipeline writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.OutputDir, c.Paths.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
