package cloudinary

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/ivinfotech/iv-studio/internal/domain"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, payload any) *http.Response {
	body, _ := json.Marshal(payload)
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(string(body))),
	}
}

func TestUploadRequiresCredentials(t *testing.T) {
	u := NewUploader(Options{CloudName: "demo"})
	_, err := u.Upload(context.Background(), []byte("img"), "logo.png", "kie-inputs")
	if !errors.Is(err, domain.ErrMissingCredentials) {
		t.Fatalf("err = %v, want ErrMissingCredentials", err)
	}
}

func TestUploadSignsAndParsesSecureURL(t *testing.T) {
	var form map[string]string
	u := NewUploader(Options{
		CloudName: "demo",
		APIKey:    "key123",
		APISecret: "secret456",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if req.URL.Path != "/v1_1/demo/image/upload" {
				t.Fatalf("path = %s", req.URL.Path)
			}
			if err := req.ParseMultipartForm(1 << 20); err != nil {
				t.Fatalf("parse form: %v", err)
			}
			form = map[string]string{}
			for k, v := range req.MultipartForm.Value {
				form[k] = v[0]
			}
			file, header, err := req.FormFile("file")
			if err != nil {
				t.Fatalf("form file: %v", err)
			}
			defer file.Close()
			if header.Filename != "logo.png" {
				t.Fatalf("filename = %s", header.Filename)
			}
			data, _ := io.ReadAll(file)
			if string(data) != "img-bytes" {
				t.Fatalf("file payload = %q", data)
			}
			return jsonResponse(http.StatusOK, map[string]any{
				"secure_url": "https://res.cloudinary.com/demo/image/upload/v1/kie-inputs/logo.png",
			}), nil
		})},
	})
	u.now = func() time.Time { return time.Unix(1700000000, 0) }

	url, err := u.Upload(context.Background(), []byte("img-bytes"), "logo.png", "kie-inputs")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "https://res.cloudinary.com/demo/image/upload/v1/kie-inputs/logo.png" {
		t.Fatalf("url = %q", url)
	}
	if form["api_key"] != "key123" {
		t.Fatalf("api_key = %q", form["api_key"])
	}
	if form["folder"] != "kie-inputs" {
		t.Fatalf("folder = %q", form["folder"])
	}
	if form["timestamp"] != "1700000000" {
		t.Fatalf("timestamp = %q", form["timestamp"])
	}
	sum := sha1.Sum([]byte("folder=kie-inputs&timestamp=1700000000secret456"))
	if form["signature"] != hex.EncodeToString(sum[:]) {
		t.Fatalf("signature = %q", form["signature"])
	}
}

func TestUploadSurfacesAPIError(t *testing.T) {
	u := NewUploader(Options{
		CloudName: "demo",
		APIKey:    "key",
		APISecret: "secret",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusUnauthorized, map[string]any{
				"error": map[string]any{"message": "Invalid Signature"},
			}), nil
		})},
	})
	_, err := u.Upload(context.Background(), []byte("img"), "logo.png", "")
	if err == nil || !strings.Contains(err.Error(), "Invalid Signature") {
		t.Fatalf("err = %v, want API error message", err)
	}
	if errors.Is(err, domain.ErrMissingCredentials) {
		t.Fatal("transport error must not read as missing credentials")
	}
}

func TestUploadRejectsEmptyPayload(t *testing.T) {
	u := NewUploader(Options{CloudName: "demo", APIKey: "key", APISecret: "secret"})
	if _, err := u.Upload(context.Background(), nil, "logo.png", ""); err == nil {
		t.Fatal("expected error for empty payload")
	}
}
