package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ivinfotech/iv-studio/internal/domain"
	"github.com/ivinfotech/iv-studio/internal/infra"
	"github.com/ivinfotech/iv-studio/internal/pipeline"
	"github.com/ivinfotech/iv-studio/internal/sqlinline"
	"github.com/ivinfotech/iv-studio/pkg/zip"
)

const maxUploadBytes = 32 << 20

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (*domain.Post, error) {
	var p domain.Post
	err := row.Scan(
		&p.ID, &p.Keyword, &p.Mode, &p.Status,
		&p.PrimaryHex, &p.SecondaryHex,
		&p.Concept, &p.ConceptWarning,
		&p.Title, &p.Subtitle, &p.AddressLine,
		&p.FinalPrompt, &p.LogoURL, &p.CharacterURL,
		&p.Hiring.Position, &p.Hiring.Experience, &p.Hiring.Openings, &p.Hiring.Location,
		&p.ImageURLs, &p.ErrorMessage,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (a *App) PostsList(w http.ResponseWriter, r *http.Request) {
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListPosts)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to list posts")
		return
	}
	defer rows.Close()
	items := []*domain.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			a.Logger.Error().Err(err).Msg("scan post failed")
			continue
		}
		items = append(items, post)
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// PostsCreate runs the prompt pipeline synchronously and stores the result as
// a pending_image post. Image generation is a separate, queued step so the
// operator can review the prompt first.
func (a *App) PostsCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart form")
		return
	}
	keyword := strings.TrimSpace(r.FormValue("keyword"))
	if keyword == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "keyword is required")
		return
	}
	mode, err := domain.ParseMode(r.FormValue("mode"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "mode must be MARKETING or HIRING")
		return
	}
	hiring := domain.HiringFields{
		Position:   strings.TrimSpace(r.FormValue("position")),
		Experience: strings.TrimSpace(r.FormValue("experience")),
		Openings:   strings.TrimSpace(r.FormValue("post")),
		Location:   strings.TrimSpace(r.FormValue("location")),
	}
	if mode == domain.ModeHiring {
		switch {
		case hiring.Position == "":
			a.error(w, http.StatusBadRequest, "bad_request", "position is required in HIRING mode")
			return
		case hiring.Experience == "":
			a.error(w, http.StatusBadRequest, "bad_request", "experience is required in HIRING mode")
			return
		case hiring.Location == "":
			a.error(w, http.StatusBadRequest, "bad_request", "location is required in HIRING mode")
			return
		}
	}

	logoBytes, err := readFormFile(r, "logo")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read logo upload")
		return
	}
	characterBytes, err := readFormFile(r, "character")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read character upload")
		return
	}

	result, err := a.Pipeline.Run(r.Context(), pipeline.Request{
		Keyword:        keyword,
		Mode:           mode,
		LogoBytes:      logoBytes,
		CharacterBytes: characterBytes,
		Hiring:         hiring,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrModeLeakage):
			a.Logger.Warn().Err(err).Str("keyword", keyword).Msg("marketing prompt rejected")
			a.error(w, http.StatusBadRequest, "mode_leakage", err.Error())
		case errors.Is(err, domain.ErrInvalidMode):
			a.error(w, http.StatusBadRequest, "bad_request", "mode must be MARKETING or HIRING")
		default:
			a.Logger.Error().Err(err).Str("keyword", keyword).Msg("prompt pipeline failed")
			a.error(w, http.StatusInternalServerError, "internal", "prompt generation failed")
		}
		return
	}

	post := domain.Post{
		Keyword:        keyword,
		Mode:           mode,
		Status:         domain.PostStatusPendingImage,
		PrimaryHex:     result.PrimaryHex,
		SecondaryHex:   result.SecondaryHex,
		Concept:        result.Concept,
		ConceptWarning: result.ConceptWarning,
		Title:          result.Title,
		Subtitle:       result.Subtitle,
		AddressLine:    result.AddressLine,
		FinalPrompt:    result.FinalPrompt,
		LogoURL:        result.LogoURL,
		CharacterURL:   result.CharacterURL,
		Hiring:         result.Hiring,
		ImageURLs:      []string{},
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertPost,
		post.Keyword, string(post.Mode), post.Status,
		post.PrimaryHex, post.SecondaryHex,
		post.Concept, post.ConceptWarning,
		post.Title, post.Subtitle, post.AddressLine,
		post.FinalPrompt, post.LogoURL, post.CharacterURL,
		post.Hiring.Position, post.Hiring.Experience, post.Hiring.Openings, post.Hiring.Location,
	)
	if err := row.Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt); err != nil {
		a.Logger.Error().Err(err).Msg("insert post failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to persist post")
		return
	}
	a.json(w, http.StatusOK, post)
}

func (a *App) PostGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	post, err := scanPost(a.SQL.QueryRow(r.Context(), sqlinline.QGetPost, id))
	if err != nil {
		if infra.IsNoRows(err) {
			a.error(w, http.StatusNotFound, "not_found", "post not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to load post")
		return
	}
	a.json(w, http.StatusOK, post)
}

func (a *App) PostDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var deleted string
	if err := a.SQL.QueryRow(r.Context(), sqlinline.QDeletePost, id).Scan(&deleted); err != nil {
		if infra.IsNoRows(err) {
			a.error(w, http.StatusNotFound, "not_found", "post not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete post")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"success": true})
}

type generateImageRequest struct {
	FinalPrompt string `json:"final_prompt"`
}

// PostGenerateImage queues a post for the image worker, optionally replacing
// the stored final prompt with an operator-edited one.
func (a *App) PostGenerateImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req generateImageRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
			return
		}
	}
	var queued string
	err := a.SQL.QueryRow(r.Context(), sqlinline.QQueuePostImage, id, strings.TrimSpace(req.FinalPrompt)).Scan(&queued)
	if err != nil {
		if infra.IsNoRows(err) {
			a.error(w, http.StatusNotFound, "not_found", "post not found or already queued")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to queue image generation")
		return
	}
	a.json(w, http.StatusAccepted, map[string]any{"id": queued, "status": domain.PostStatusPending})
}

type saveImagesRequest struct {
	ImageURLs []string `json:"image_urls"`
}

func (a *App) PostSaveImages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req saveImagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if len(req.ImageURLs) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "image_urls is required")
		return
	}
	var saved string
	if err := a.SQL.QueryRow(r.Context(), sqlinline.QSavePostImages, id, req.ImageURLs).Scan(&saved); err != nil {
		if infra.IsNoRows(err) {
			a.error(w, http.StatusNotFound, "not_found", "post not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to save images")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"success": true})
}

// PostDownload streams the post's generated images as a zip archive.
func (a *App) PostDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	post, err := scanPost(a.SQL.QueryRow(r.Context(), sqlinline.QGetPost, id))
	if err != nil {
		if infra.IsNoRows(err) {
			a.error(w, http.StatusNotFound, "not_found", "post not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to load post")
		return
	}
	if len(post.ImageURLs) == 0 {
		a.error(w, http.StatusBadRequest, "no_images", "post has no generated images")
		return
	}

	files := make([]zip.File, 0, len(post.ImageURLs))
	for i, imageURL := range post.ImageURLs {
		data, err := a.fetchAsset(r.Context(), imageURL)
		if err != nil {
			a.Logger.Error().Err(err).Str("post_id", post.ID).Str("url", imageURL).Msg("fetch generated image failed")
			a.error(w, http.StatusBadGateway, "upstream", "failed to fetch generated image")
			return
		}
		files = append(files, zip.File{Name: fmt.Sprintf("post-%d%s", i+1, assetExt(imageURL)), Data: data})
	}
	archive, err := zip.Archive(files)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to build archive")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "insta-post-"+post.ID+".zip"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

func assetExt(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ".png"
	}
	if ext := path.Ext(u.Path); ext != "" {
		return ext
	}
	return ".png"
}

func readFormFile(r *http.Request, field string) ([]byte, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()
	if header.Filename == "" {
		return nil, nil
	}
	return io.ReadAll(file)
}
