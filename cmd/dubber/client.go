package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dubber/internal/api"
	"dubber/internal/queue"
)

// apiClient talks to the daemon HTTP API.
type apiClient struct {
	base string
	http *http.Client
}

func newAPIClient(bind string) *apiClient {
	base := bind
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return &apiClient{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// WebsocketURL returns the ws:// address of the progress feed.
func (c *apiClient) WebsocketURL() string {
	return strings.Replace(c.base, "http://", "ws://", 1) + "/api/ws"
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("is the daemon running? %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr api.ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("daemon returned %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *apiClient) Status(ctx context.Context) (api.DaemonStatus, error) {
	var status api.DaemonStatus
	err := c.do(ctx, http.MethodGet, "/api/status", nil, &status)
	return status, err
}

func (c *apiClient) Health(ctx context.Context) (api.HealthResponse, error) {
	var health api.HealthResponse
	err := c.do(ctx, http.MethodGet, "/api/health", nil, &health)
	return health, err
}

func (c *apiClient) List(ctx context.Context, statuses ...queue.Status) ([]api.JobView, error) {
	path := "/api/queue"
	if len(statuses) > 0 {
		values := url.Values{}
		for _, status := range statuses {
			values.Add("status", string(status))
		}
		path += "?" + values.Encode()
	}
	var list api.QueueListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list.Jobs, nil
}

func (c *apiClient) Describe(ctx context.Context, id int64) (api.JobView, error) {
	var resp api.QueueJobResponse
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/queue/%d", id), nil, &resp)
	return resp.Job, err
}

func (c *apiClient) Submit(ctx context.Context, source, targetLanguage string) (api.JobView, error) {
	var resp api.QueueJobResponse
	req := api.SubmitRequest{Source: source, TargetLanguage: targetLanguage}
	err := c.do(ctx, http.MethodPost, "/api/queue", req, &resp)
	return resp.Job, err
}

func (c *apiClient) Retry(ctx context.Context, id int64) (int64, error) {
	var resp api.ActionResponse
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/queue/%d/retry", id), nil, &resp)
	return resp.Affected, err
}

func (c *apiClient) RetryAll(ctx context.Context) (int64, error) {
	var resp api.ActionResponse
	err := c.do(ctx, http.MethodPost, "/api/queue/retry", nil, &resp)
	return resp.Affected, err
}

func (c *apiClient) Remove(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/queue/%d", id), nil, nil)
}

func (c *apiClient) Clear(ctx context.Context, scope string) (int64, error) {
	var resp api.ActionResponse
	err := c.do(ctx, http.MethodPost, "/api/queue/clear?scope="+url.QueryEscape(scope), nil, &resp)
	return resp.Affected, err
}
