package embed

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
	"strconv"
	"strings"
	"time"
)

const defaultHTTPTimeout = 120 * time.Second

// Config captures the runtime settings required to talk to the speaker
// embedding service.
type Config struct {
	URL            string
	TimeoutSeconds int
}

// Client wraps the speaker embedding HTTP service.
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

// NewClient constructs an embedding client using the supplied configuration.
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

// Embed uploads the audio and a time span and returns the speaker embedding
// for that span. A nil vector with a nil error is a valid response meaning the
// service could not derive a signal from the span; callers decide what that
// implies.
func (c *Client) Embed(ctx context.Context, audioPath string, start, end float64) ([]float64, error) {
	if c.cfg.URL == "" {
		return nil, errors.New("embed: service URL not configured")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("embed: create form file: %w", err)
	}
	audio, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("embed: open audio: %w", err)
	}
	defer audio.Close()
	if _, err := io.Copy(part, audio); err != nil {
		return nil, fmt.Errorf("embed: copy audio: %w", err)
	}
	if err := writer.WriteField("start", formatSeconds(start)); err != nil {
		return nil, fmt.Errorf("embed: write start field: %w", err)
	}
	if err := writer.WriteField("end", formatSeconds(end)); err != nil {
		return nil, fmt.Errorf("embed: write end field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("embed: finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, &body)
	if err != nil {
		return nil, fmt.Errorf("embed: new request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed: http error: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("embed: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embed: http %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var decoded struct {
		Embedding []float64 `json:"embedding"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("embed: decode response: %w", err)
	}
	return decoded.Embedding, nil
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
