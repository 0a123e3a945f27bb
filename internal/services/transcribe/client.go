package transcribe

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

const defaultHTTPTimeout = 300 * time.Second

// Config captures the runtime settings required to talk to the transcription
// and translation service.
type Config struct {
	URL            string
	TimeoutSeconds int
}

// Client wraps the transcribe-and-translate HTTP service.
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

// NewClient constructs a transcription client using the supplied configuration.
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

// Transcribe uploads the extracted audio and returns the translated transcript
// entries in speech order.
func (c *Client) Transcribe(ctx context.Context, audioPath, targetLanguage string) ([]transcript.Entry, error) {
	if c.cfg.URL == "" {
		return nil, errors.New("transcribe: service URL not configured")
	}
	targetLanguage = strings.TrimSpace(targetLanguage)
	if targetLanguage == "" {
		return nil, errors.New("transcribe: target language required")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("transcribe: create form file: %w", err)
	}
	audio, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("transcribe: open audio: %w", err)
	}
	defer audio.Close()
	if _, err := io.Copy(part, audio); err != nil {
		return nil, fmt.Errorf("transcribe: copy audio: %w", err)
	}
	if err := writer.WriteField("target_lang", targetLanguage); err != nil {
		return nil, fmt.Errorf("transcribe: write target_lang field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("transcribe: finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, &body)
	if err != nil {
		return nil, fmt.Errorf("transcribe: new request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcribe: http error: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("transcribe: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("transcribe: http %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	entries, err := decodeEntries(payload)
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}
	return entries, nil
}

// decodeEntries accepts either a bare entry array or a {"transcript": [...]}
// envelope.
func decodeEntries(payload []byte) ([]transcript.Entry, error) {
	var entries []transcript.Entry
	if err := json.Unmarshal(payload, &entries); err == nil {
		return entries, nil
	}
	var envelope struct {
		Transcript []transcript.Entry `json:"transcript"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return envelope.Transcript, nil
}
