package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ivinfotech/iv-studio/internal/middleware"
)

const sessionTTL = 24 * time.Hour

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionUserDTO struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Login checks the configured admin credentials and sets the session cookie.
func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if !credentialsMatch(req.Email, a.Config.AdminEmail) || !credentialsMatch(req.Password, a.Config.AdminPassword) {
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid email or password")
		return
	}
	token, err := middleware.SignSession(a.Config.SessionKey, middleware.SessionClaims{
		Sub:    a.Config.AdminEmail,
		Name:   a.Config.AdminName,
		Exp:    time.Now().Add(sessionTTL).Unix(),
		Issuer: "iv-studio",
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign session failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create session")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.AppEnv == "production",
	})
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    sessionUserDTO{Email: a.Config.AdminEmail, Name: a.Config.AdminName},
	})
}

// Logout clears the session cookie.
func (a *App) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	a.json(w, http.StatusOK, map[string]any{"success": true})
}

// CheckAuth reports whether the request carries a valid session. It sits
// outside the session-gated route tree so the frontend can probe it.
func (a *App) CheckAuth(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookie)
	if err != nil || cookie.Value == "" {
		a.json(w, http.StatusUnauthorized, map[string]any{"authenticated": false})
		return
	}
	claims, err := middleware.VerifySession(a.Config.SessionKey, cookie.Value)
	if err != nil {
		a.json(w, http.StatusUnauthorized, map[string]any{"authenticated": false})
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          sessionUserDTO{Email: claims.Sub, Name: claims.Name},
	})
}

func credentialsMatch(given, expected string) bool {
	return subtle.ConstantTimeCompare([]byte(given), []byte(expected)) == 1
}
