package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ivinfotech/iv-studio/internal/domain"
)

// Options configures the Cloudinary upload client.
type Options struct {
	CloudName      string
	APIKey         string
	APISecret      string
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

// Uploader performs signed image uploads to the Cloudinary REST API and
// returns the hosted secure URL.
type Uploader struct {
	cloudName  string
	apiKey     string
	apiSecret  string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewUploader constructs an uploader. Credentials are checked at call time,
// not here, so a credential-less process can still start.
func NewUploader(opts Options) *Uploader {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.cloudinary.com"
	}
	return &Uploader{
		cloudName:  strings.TrimSpace(opts.CloudName),
		apiKey:     strings.TrimSpace(opts.APIKey),
		apiSecret:  strings.TrimSpace(opts.APISecret),
		baseURL:    baseURL,
		httpClient: httpClient,
		now:        time.Now,
	}
}

// HasCredentials reports whether the uploader can perform remote calls.
func (u *Uploader) HasCredentials() bool {
	return u.cloudName != "" && u.apiKey != "" && u.apiSecret != ""
}

// Upload sends image bytes as a signed multipart request and returns the
// secure URL of the hosted asset.
func (u *Uploader) Upload(ctx context.Context, data []byte, filename, folder string) (string, error) {
	if !u.HasCredentials() {
		return "", fmt.Errorf("cloudinary: %w", domain.ErrMissingCredentials)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("cloudinary: empty payload for %s", filename)
	}

	timestamp := strconv.FormatInt(u.now().Unix(), 10)
	params := map[string]string{"timestamp": timestamp}
	if folder = strings.TrimSpace(folder); folder != "" {
		params["folder"] = folder
	}
	signature := signParams(params, u.apiSecret)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("cloudinary: build form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("cloudinary: write payload: %w", err)
	}
	fields := map[string]string{
		"api_key":   u.apiKey,
		"signature": signature,
	}
	for k, v := range params {
		fields[k] = v
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return "", fmt.Errorf("cloudinary: write field %s: %w", k, err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("cloudinary: close form: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/upload", u.baseURL, u.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("cloudinary: build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("cloudinary: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("cloudinary: read response: %w", err)
	}

	var decoded uploadResponse
	if resp.StatusCode >= 300 {
		if err := json.Unmarshal(raw, &decoded); err == nil && decoded.Error.Message != "" {
			return "", fmt.Errorf("cloudinary: %s", decoded.Error.Message)
		}
		return "", fmt.Errorf("cloudinary: http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("cloudinary: decode response: %w", err)
	}
	if decoded.SecureURL == "" {
		return "", fmt.Errorf("cloudinary: missing secure_url in response")
	}
	return decoded.SecureURL, nil
}

// signParams builds the SHA-1 signature Cloudinary expects: parameters sorted
// by key, joined as key=value with &, with the API secret appended.
func signParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}
