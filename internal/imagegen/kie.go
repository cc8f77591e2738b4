package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ivinfotech/iv-studio/internal/domain"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("kie: api key is required")

const taskModel = "gpt-image/1.5-image-to-image"

// Options configures the KIE image generation client.
type Options struct {
	APIKey       string
	BaseURL      string
	HTTPClient   *http.Client
	PollInterval time.Duration
	PollTimeout  time.Duration
}

// Client submits image-to-image tasks to the KIE jobs API and polls them to
// completion.
type Client struct {
	apiKey       string
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
	pollTimeout  time.Duration
}

// TaskRequest is one image generation job: a composed prompt plus reference
// image URLs (logo and character).
type TaskRequest struct {
	Prompt      string
	InputURLs   []string
	AspectRatio string
	Quality     string
}

type createTaskRequest struct {
	Model string          `json:"model"`
	Input createTaskInput `json:"input"`
}

type createTaskInput struct {
	InputURLs   []string `json:"input_urls"`
	Prompt      string   `json:"prompt"`
	AspectRatio string   `json:"aspect_ratio"`
	Quality     string   `json:"quality"`
}

type createTaskResponse struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`
	Data    struct {
		TaskID string `json:"taskId"`
	} `json:"data"`
}

type recordInfoResponse struct {
	Code int `json:"code"`
	Data struct {
		State      string `json:"state"`
		ResultJSON string `json:"resultJson"`
		FailMsg    string `json:"failMsg"`
	} `json:"data"`
}

type taskResult struct {
	ResultURLs []string `json:"resultUrls"`
}

// NewClient constructs a client with the service's documented poll cadence.
func NewClient(opts Options) (*Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.kie.ai"
	}
	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}
	pollTimeout := opts.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 240 * time.Second
	}
	return &Client{
		apiKey:       apiKey,
		baseURL:      baseURL,
		httpClient:   httpClient,
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
	}, nil
}

// Generate creates a task and polls it to a terminal state, returning the
// hosted result URLs.
func (c *Client) Generate(ctx context.Context, req TaskRequest) ([]string, error) {
	taskID, err := c.CreateTask(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.Poll(ctx, taskID)
}

// CreateTask submits one generation job and returns its task identifier.
func (c *Client) CreateTask(ctx context.Context, req TaskRequest) (string, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return "", errors.New("kie: prompt is required")
	}
	if len(req.InputURLs) == 0 {
		return "", errors.New("kie: input urls are required")
	}
	aspectRatio := req.AspectRatio
	if aspectRatio == "" {
		aspectRatio = "1:1"
	}
	quality := req.Quality
	if quality == "" {
		quality = "medium"
	}

	payload := createTaskRequest{
		Model: taskModel,
		Input: createTaskInput{
			InputURLs:   req.InputURLs,
			Prompt:      prompt,
			AspectRatio: aspectRatio,
			Quality:     quality,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("kie: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/jobs/createTask", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("kie: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("kie: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("kie: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("kie: http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	var decoded createTaskResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("kie: decode response: %w", err)
	}
	if decoded.Code != 200 {
		return "", fmt.Errorf("kie: create task failed: code %d: %s", decoded.Code, decoded.Message)
	}
	if decoded.Data.TaskID == "" {
		return "", errors.New("kie: missing task id in response")
	}
	return decoded.Data.TaskID, nil
}

// Poll queries the task until it reaches a terminal state. Exceeding the
// poll ceiling returns domain.ErrGenerationTimeout, distinct from a
// service-reported failure.
func (c *Client) Poll(ctx context.Context, taskID string) ([]string, error) {
	deadline := time.Now().Add(c.pollTimeout)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		urls, done, err := c.queryTask(ctx, taskID)
		if err != nil {
			return nil, err
		}
		if done {
			return urls, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("kie: task %s: %w after %s", taskID, domain.ErrGenerationTimeout, c.pollTimeout)
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("kie: poll task %s: %w", taskID, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *Client) queryTask(ctx context.Context, taskID string) ([]string, bool, error) {
	endpoint := c.baseURL + "/api/v1/jobs/recordInfo?taskId=" + url.QueryEscape(taskID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("kie: build status request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("kie: status request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("kie: read status response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, false, fmt.Errorf("kie: status http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	var decoded recordInfoResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, false, fmt.Errorf("kie: decode status response: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(decoded.Data.State)) {
	case "success":
		var result taskResult
		resultJSON := decoded.Data.ResultJSON
		if resultJSON == "" {
			resultJSON = "{}"
		}
		if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
			return nil, false, fmt.Errorf("kie: decode task result: %w", err)
		}
		return result.ResultURLs, true, nil
	case "fail":
		return nil, false, fmt.Errorf("kie: task %s failed: %s", taskID, decoded.Data.FailMsg)
	default:
		return nil, false, nil
	}
}
