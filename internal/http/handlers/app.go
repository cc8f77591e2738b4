package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ivinfotech/iv-studio/internal/infra"
	"github.com/ivinfotech/iv-studio/internal/middleware"
	"github.com/ivinfotech/iv-studio/internal/pipeline"
)

// PromptPipeline is the generation capability the post handlers depend on.
type PromptPipeline interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

// Uploader stores raw image bytes and returns a hosted URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, filename, folder string) (string, error)
}

type App struct {
	SQL      infra.SQLExecutor
	Logger   zerolog.Logger
	Config   *infra.Config
	Pipeline PromptPipeline
	Uploader Uploader

	// Assets fetches hosted images for archive downloads. Nil uses a
	// shared default client.
	Assets *http.Client
}

var defaultAssetClient = &http.Client{Timeout: 30 * time.Second}

func (a *App) fetchAsset(ctx context.Context, rawURL string) ([]byte, error) {
	client := a.Assets
	if client == nil {
		client = defaultAssetClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch asset: http %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, map[string]any{
		"error": map[string]string{"code": kind, "message": message},
	})
}

func (a *App) currentUserEmail(r *http.Request) string {
	return middleware.UserEmailFromContext(r.Context())
}
