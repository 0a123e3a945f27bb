package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. Violations here are
// configuration-fatal: the daemon refuses to start rather than failing mid-job.
func (c *Config) Validate() error {
	if err := c.validateServices(); err != nil {
		return err
	}
	if err := c.validateCasting(); err != nil {
		return err
	}
	if err := c.validateSynthesis(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServices() error {
	for name, url := range map[string]string{
		"services.diarize_url":    c.Services.DiarizeURL,
		"services.embed_url":      c.Services.EmbedURL,
		"services.transcribe_url": c.Services.TranscribeURL,
		"services.tts_url":        c.Services.TTSURL,
	} {
		if url == "" {
			continue // endpoints may be filled by tests or the sample config
		}
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			return fmt.Errorf("%s must be an http(s) URL, got %q", name, url)
		}
	}
	if c.Services.TTSURL != "" && c.Services.TTSAPIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/dubber/config.toml"
		}
		return fmt.Errorf("services.tts_api_key is required. Set ELEVEN_API_KEY env var or edit %s (create with 'dubber config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateCasting() error {
	if strings.TrimSpace(c.Casting.PrototypesPath) == "" {
		return errors.New("casting.prototypes_path must be set")
	}
	if c.Casting.EmbeddingDim <= 0 {
		return errors.New("casting.embedding_dim must be positive")
	}
	return nil
}

func (c *Config) validateSynthesis() error {
	if c.Synthesis.Workers < 1 {
		return errors.New("synthesis.workers must be at least 1")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.QueuePollInterval <= 0 {
		return errors.New("workflow.queue_poll_interval must be positive")
	}
	if c.Workflow.ErrorRetryInterval <= 0 {
		return errors.New("workflow.error_retry_interval must be positive")
	}
	if c.Workflow.HeartbeatInterval <= 0 {
		return errors.New("workflow.heartbeat_interval must be positive")
	}
	if c.Workflow.HeartbeatTimeout <= c.Workflow.HeartbeatInterval {
		return errors.New("workflow.heartbeat_timeout must exceed workflow.heartbeat_interval")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
