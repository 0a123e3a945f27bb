package diarize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dubber/internal/transcript"
)

const defaultHTTPTimeout = 120 * time.Second

// Config captures the runtime settings required to talk to the diarization service.
type Config struct {
	URL            string
	TimeoutSeconds int
}

// Client wraps the speaker diarization HTTP service.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a diarization client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg:        Config{URL: strings.TrimSpace(cfg.URL), TimeoutSeconds: cfg.TimeoutSeconds},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Diarize uploads the extracted audio and returns the speaker turns in speech
// order. An empty slice with a nil error means the service found no speech.
func (c *Client) Diarize(ctx context.Context, audioPath string) ([]transcript.Turn, error) {
	if c.cfg.URL == "" {
		return nil, errors.New("diarize: service URL not configured")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("diarize: create form file: %w", err)
	}
	audio, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("diarize: open audio: %w", err)
	}
	defer audio.Close()
	if _, err := io.Copy(part, audio); err != nil {
		return nil, fmt.Errorf("diarize: copy audio: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("diarize: finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, &body)
	if err != nil {
		return nil, fmt.Errorf("diarize: new request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("diarize: http error: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("diarize: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("diarize: http %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	turns, err := decodeTurns(payload)
	if err != nil {
		return nil, fmt.Errorf("diarize: %w", err)
	}
	return turns, nil
}

func decodeTurns(payload []byte) ([]transcript.Turn, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		var envelope struct {
			Turns []json.RawMessage `json:"turns"`
		}
		if envErr := json.Unmarshal(payload, &envelope); envErr != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		raw = envelope.Turns
	}

	turns := make([]transcript.Turn, 0, len(raw))
	for idx, track := range raw {
		turn, err := normalizeTrack(track)
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", idx, err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}
