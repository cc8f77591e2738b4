package handlers

import (
	"net/http"

	"github.com/ivinfotech/iv-studio/internal/sqlinline"
)

func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	row := a.SQL.QueryRow(r.Context(), sqlinline.QStatsSummary)
	var totalVideos, totalInstaPosts, customCharacters int64
	if err := row.Scan(&totalVideos, &totalInstaPosts, &customCharacters); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load stats")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"total_videos":      totalVideos,
		"total_insta_posts": totalInstaPosts,
		"custom_characters": customCharacters,
	})
}
