package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ivinfotech/iv-studio/internal/domain"
	"github.com/ivinfotech/iv-studio/internal/infra"
	"github.com/ivinfotech/iv-studio/internal/sqlinline"
)

func scanProject(row scanner) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.CompanyService, &p.Status,
		&p.HasCustomCharacter, &p.CharacterURL,
		&p.Scene1Img, &p.Scene1Vid, &p.Scene2Img, &p.Scene2Vid,
		&p.WebhookResponse, &p.ErrorMessage,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (a *App) ProjectsList(w http.ResponseWriter, r *http.Request) {
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListProjects)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to list projects")
		return
	}
	defer rows.Close()
	items := []*domain.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			a.Logger.Error().Err(err).Msg("scan project failed")
			continue
		}
		items = append(items, project)
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// ProjectsCreate stores a pending video project for the worker. A custom
// character upload goes to hosted storage first so the queued row carries a
// URL instead of raw bytes.
func (a *App) ProjectsCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart form")
		return
	}
	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = "Untitled Video"
	}
	description := strings.TrimSpace(r.FormValue("raw_description"))
	companyService := strings.TrimSpace(r.FormValue("company_service"))

	characterBytes, err := readFormFile(r, "character_image_file")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read character upload")
		return
	}
	hasCustomCharacter := len(characterBytes) > 0
	characterURL := ""
	if hasCustomCharacter {
		characterURL, err = a.Uploader.Upload(r.Context(), characterBytes, "character.png", "video-characters")
		if err != nil {
			a.Logger.Error().Err(err).Msg("character upload failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to store character image")
			return
		}
	}

	project := domain.Project{
		Title:              title,
		Description:        description,
		CompanyService:     companyService,
		Status:             domain.ProjectStatusPending,
		HasCustomCharacter: hasCustomCharacter,
		CharacterURL:       characterURL,
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertProject,
		project.Title, project.Description, project.CompanyService,
		project.HasCustomCharacter, project.CharacterURL,
	)
	if err := row.Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt); err != nil {
		a.Logger.Error().Err(err).Msg("insert project failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to persist project")
		return
	}
	a.json(w, http.StatusAccepted, project)
}

func (a *App) ProjectGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	project, err := scanProject(a.SQL.QueryRow(r.Context(), sqlinline.QGetProject, id))
	if err != nil {
		if infra.IsNoRows(err) {
			a.error(w, http.StatusNotFound, "not_found", "project not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to load project")
		return
	}
	a.json(w, http.StatusOK, project)
}

func (a *App) ProjectDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var deleted string
	if err := a.SQL.QueryRow(r.Context(), sqlinline.QDeleteProject, id).Scan(&deleted); err != nil {
		if infra.IsNoRows(err) {
			a.error(w, http.StatusNotFound, "not_found", "project not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete project")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"success": true})
}
