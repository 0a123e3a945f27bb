package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeServices(); err != nil {
		return err
	}
	if err := c.normalizeCasting(); err != nil {
		return err
	}
	c.normalizeSynthesis()
	c.normalizeVoices()
	c.normalizeTools()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeServices() error {
	c.Services.DiarizeURL = strings.TrimRight(strings.TrimSpace(c.Services.DiarizeURL), "/")
	c.Services.EmbedURL = strings.TrimRight(strings.TrimSpace(c.Services.EmbedURL), "/")
	c.Services.TranscribeURL = strings.TrimRight(strings.TrimSpace(c.Services.TranscribeURL), "/")
	c.Services.TTSURL = strings.TrimRight(strings.TrimSpace(c.Services.TTSURL), "/")
	c.Services.TTSAPIKey = strings.TrimSpace(c.Services.TTSAPIKey)
	if c.Services.TTSAPIKey == "" {
		if value, ok := os.LookupEnv("ELEVEN_API_KEY"); ok {
			c.Services.TTSAPIKey = strings.TrimSpace(value)
		}
	}
	c.Services.TTSModel = strings.TrimSpace(c.Services.TTSModel)
	if c.Services.TTSModel == "" {
		c.Services.TTSModel = defaultTTSModel
	}
	if c.Services.RequestTimeout <= 0 {
		c.Services.RequestTimeout = defaultRequestTimeout
	}
	return nil
}

func (c *Config) normalizeCasting() error {
	var err error
	if strings.TrimSpace(c.Casting.PrototypesPath) == "" {
		c.Casting.PrototypesPath = defaultPrototypesPath
	}
	if c.Casting.PrototypesPath, err = expandPath(c.Casting.PrototypesPath); err != nil {
		return fmt.Errorf("casting.prototypes_path: %w", err)
	}
	if c.Casting.EmbeddingDim <= 0 {
		c.Casting.EmbeddingDim = defaultEmbeddingDim
	}
	return nil
}

func (c *Config) normalizeSynthesis() {
	if c.Synthesis.Workers <= 0 {
		c.Synthesis.Workers = defaultSynthesisWorkers
	}
}

func (c *Config) normalizeVoices() {
	c.Voices.Default = strings.TrimSpace(c.Voices.Default)
	if len(c.Voices.Table) == 0 {
		return
	}
	normalized := make(map[string]map[string]string, len(c.Voices.Table))
	for lang, genders := range c.Voices.Table {
		lang = strings.ToLower(strings.TrimSpace(lang))
		if lang == "" {
			continue
		}
		entry := make(map[string]string, len(genders))
		for gender, voice := range genders {
			gender = strings.ToLower(strings.TrimSpace(gender))
			voice = strings.TrimSpace(voice)
			if gender == "" || voice == "" {
				continue
			}
			entry[gender] = voice
		}
		if len(entry) > 0 {
			normalized[lang] = entry
		}
	}
	c.Voices.Table = normalized
}

func (c *Config) normalizeTools() {
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = defaultFFmpegBinary
	}
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	if c.Tools.FFprobe == "" {
		c.Tools.FFprobe = defaultFFprobeBinary
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
