package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Options configures the video workflow client.
type Options struct {
	URL            string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

// Client posts video project requests to the automation workflow endpoint
// and waits for the synchronous scene payload.
type Client struct {
	url        string
	httpClient *http.Client
}

// Request carries one project to the workflow. CharacterFile is optional;
// when absent the default asset URLs travel as plain form fields instead.
type Request struct {
	Title               string
	Description         string
	CompanyService      string
	HasCustomCharacter  bool
	CharacterFilename   string
	CharacterBytes      []byte
	DefaultCharacterURL string
	DefaultLogoURL      string
}

// SceneResult is the normalized two-scene output of a completed workflow run.
type SceneResult struct {
	Scene1Img string `json:"scene_1_img"`
	Scene1Vid string `json:"scene_1_vid"`
	Scene2Img string `json:"scene_2_img"`
	Scene2Vid string `json:"scene_2_vid"`
	Raw       string `json:"-"`
}

// NewClient constructs a client. Workflow runs take minutes, so the default
// HTTP client carries a generous timeout.
func NewClient(opts Options) (*Client, error) {
	url := strings.TrimSpace(opts.URL)
	if url == "" {
		return nil, errors.New("webhook: url is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 15 * time.Minute
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{url: url, httpClient: httpClient}, nil
}

// Generate posts the project as a multipart form and decodes the scene URLs
// from the response. The workflow sometimes wraps its payload in a
// single-element array; the first element wins.
func (c *Client) Generate(ctx context.Context, req Request) (*SceneResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fields := map[string]string{
		"title":           req.Title,
		"raw_description": req.Description,
		"company_service": req.CompanyService,
		"character_image": boolField(req.HasCustomCharacter),
	}
	if len(req.CharacterBytes) == 0 {
		fields["default_character_image"] = req.DefaultCharacterURL
		fields["default_logo_image"] = req.DefaultLogoURL
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("webhook: write field %s: %w", k, err)
		}
	}
	if len(req.CharacterBytes) > 0 {
		filename := req.CharacterFilename
		if filename == "" {
			filename = "character.png"
		}
		part, err := writer.CreateFormFile("character_image_file", filename)
		if err != nil {
			return nil, fmt.Errorf("webhook: build file part: %w", err)
		}
		if _, err := part.Write(req.CharacterBytes); err != nil {
			return nil, fmt.Errorf("webhook: write file part: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("webhook: close form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return nil, fmt.Errorf("webhook: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("webhook: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("webhook: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("webhook: http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return parseSceneResult(raw)
}

func parseSceneResult(raw []byte) (*SceneResult, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("webhook: empty response body")
	}
	if trimmed[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("webhook: decode response array: %w", err)
		}
		if len(list) == 0 {
			return nil, errors.New("webhook: empty response array")
		}
		trimmed = list[0]
	}
	var result SceneResult
	if err := json.Unmarshal(trimmed, &result); err != nil {
		return nil, fmt.Errorf("webhook: decode response: %w", err)
	}
	result.Raw = string(trimmed)
	return &result, nil
}

func boolField(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
