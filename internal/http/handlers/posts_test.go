package handlers

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/ivinfotech/iv-studio/internal/domain"
	"github.com/ivinfotech/iv-studio/internal/pipeline"
	"github.com/ivinfotech/iv-studio/internal/sqlinline"
)

func multipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestPostsCreatePersistsPipelineResult(t *testing.T) {
	var gotReq pipeline.Request
	var insertArgs []any
	sql := &fakeSQL{
		queryRow: func(ctx context.Context, query string, args ...any) pgx.Row {
			if query != sqlinline.QInsertPost {
				t.Fatalf("unexpected query: %q", query)
			}
			insertArgs = args
			return NewSimpleRow(func(dest ...any) error {
				*dest[0].(*string) = "post-1"
				*dest[1].(*time.Time) = time.Now()
				*dest[2].(*time.Time) = time.Now()
				return nil
			})
		},
	}
	app := testApp(sql)
	app.Pipeline = &fakePipeline{run: func(ctx context.Context, req pipeline.Request) (*pipeline.Result, error) {
		gotReq = req
		return &pipeline.Result{
			PrimaryHex:   "#112233",
			SecondaryHex: "#445566",
			Concept:      "ACTION_ID: X",
			Title:        "Build Faster",
			FinalPrompt:  "a premium banner",
			LogoURL:      "https://cdn/logo.png",
			CharacterURL: "https://cdn/char.jpg",
		}, nil
	}}

	body, contentType := multipartBody(t, map[string]string{
		"keyword": "cloud migration",
		"mode":    "marketing",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/insta-posts", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	app.PostsCreate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if gotReq.Keyword != "cloud migration" || gotReq.Mode != domain.ModeMarketing {
		t.Fatalf("pipeline request = %+v", gotReq)
	}
	if len(insertArgs) != 17 {
		t.Fatalf("insert args = %d, want 17", len(insertArgs))
	}
	if insertArgs[2] != domain.PostStatusPendingImage {
		t.Fatalf("inserted status = %v, want pending_image", insertArgs[2])
	}
	var post domain.Post
	if err := json.NewDecoder(rec.Body).Decode(&post); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if post.ID != "post-1" || post.Status != domain.PostStatusPendingImage {
		t.Fatalf("post = %+v", post)
	}
	if post.FinalPrompt != "a premium banner" {
		t.Fatalf("FinalPrompt = %q", post.FinalPrompt)
	}
}

func TestPostsCreateValidatesInput(t *testing.T) {
	app := testApp(&fakeSQL{})
	app.Pipeline = &fakePipeline{}

	cases := map[string]map[string]string{
		"missing keyword":  {"mode": "MARKETING"},
		"bad mode":         {"keyword": "x", "mode": "BOTH"},
		"hiring no fields": {"keyword": "x", "mode": "HIRING"},
	}
	for name, fields := range cases {
		body, contentType := multipartBody(t, fields)
		req := httptest.NewRequest(http.MethodPost, "/api/insta-posts", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		app.PostsCreate(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", name, rec.Code)
		}
	}
}

func TestPostsCreateModeLeakageIsBadRequest(t *testing.T) {
	app := testApp(&fakeSQL{})
	app.Pipeline = &fakePipeline{run: func(ctx context.Context, req pipeline.Request) (*pipeline.Result, error) {
		return nil, fmt.Errorf("final prompt: %w: hiring indicator found", domain.ErrModeLeakage)
	}}

	body, contentType := multipartBody(t, map[string]string{"keyword": "branding", "mode": "MARKETING"})
	req := httptest.NewRequest(http.MethodPost, "/api/insta-posts", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	app.PostsCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "mode_leakage") {
		t.Fatalf("body = %s, want mode_leakage code", rec.Body.String())
	}
}

func TestPostsCreatePipelineFailureIsInternal(t *testing.T) {
	app := testApp(&fakeSQL{})
	app.Pipeline = &fakePipeline{run: func(ctx context.Context, req pipeline.Request) (*pipeline.Result, error) {
		return nil, fmt.Errorf("marketing copy: %w", domain.ErrProviderFailure)
	}}

	body, contentType := multipartBody(t, map[string]string{"keyword": "branding", "mode": "MARKETING"})
	req := httptest.NewRequest(http.MethodPost, "/api/insta-posts", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	app.PostsCreate(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestPostGenerateImageQueuesJob(t *testing.T) {
	var queueArgs []any
	sql := &fakeSQL{
		queryRow: func(ctx context.Context, query string, args ...any) pgx.Row {
			if query != sqlinline.QQueuePostImage {
				t.Fatalf("unexpected query: %q", query)
			}
			queueArgs = args
			return NewSimpleRow(func(dest ...any) error {
				*dest[0].(*string) = "post-1"
				return nil
			})
		},
	}
	app := testApp(sql)

	req := httptest.NewRequest(http.MethodPost, "/api/insta-posts/post-1/generate-image",
		strings.NewReader(`{"final_prompt":"edited prompt"}`))
	req = withURLParam(req, "id", "post-1")
	rec := httptest.NewRecorder()
	app.PostGenerateImage(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if queueArgs[0] != "post-1" || queueArgs[1] != "edited prompt" {
		t.Fatalf("queue args = %v", queueArgs)
	}
	if !strings.Contains(rec.Body.String(), domain.PostStatusPending) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestPostGenerateImageUnknownPostIs404(t *testing.T) {
	app := testApp(&fakeSQL{}) // default row scans to ErrNoRows
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/api/insta-posts/missing/generate-image", nil), "id", "missing")
	rec := httptest.NewRecorder()
	app.PostGenerateImage(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestPostDownloadArchivesImages(t *testing.T) {
	assets := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("png-bytes-" + r.URL.Path))
	}))
	defer assets.Close()

	sql := &fakeSQL{
		queryRow: func(ctx context.Context, query string, args ...any) pgx.Row {
			if query != sqlinline.QGetPost {
				t.Fatalf("unexpected query: %q", query)
			}
			return NewSimpleRow(func(dest ...any) error {
				*dest[0].(*string) = "post-1"
				*dest[18].(*[]string) = []string{assets.URL + "/img-1.png", assets.URL + "/img-2.png"}
				*dest[20].(*time.Time) = time.Now()
				*dest[21].(*time.Time) = time.Now()
				return nil
			})
		},
	}
	app := testApp(sql)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/insta-posts/post-1/download", nil), "id", "post-1")
	rec := httptest.NewRecorder()
	app.PostDownload(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/zip" {
		t.Fatalf("content type = %q", ct)
	}
	reader, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(reader.File) != 2 || reader.File[0].Name != "post-1.png" {
		t.Fatalf("archive entries = %+v", reader.File)
	}
}

func TestPostDownloadWithoutImagesIsBadRequest(t *testing.T) {
	sql := &fakeSQL{
		queryRow: func(ctx context.Context, query string, args ...any) pgx.Row {
			return NewSimpleRow(func(dest ...any) error {
				*dest[0].(*string) = "post-1"
				*dest[20].(*time.Time) = time.Now()
				*dest[21].(*time.Time) = time.Now()
				return nil
			})
		},
	}
	app := testApp(sql)
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/insta-posts/post-1/download", nil), "id", "post-1")
	rec := httptest.NewRecorder()
	app.PostDownload(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPostSaveImagesRequiresURLs(t *testing.T) {
	app := testApp(&fakeSQL{})
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/api/insta-posts/post-1/save-images",
		strings.NewReader(`{"image_urls":[]}`)), "id", "post-1")
	rec := httptest.NewRecorder()
	app.PostSaveImages(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
