package handlers

import (
	"net/http"

	"github.com/dvloznov/budget-tracker/internal/api/middleware"
	"github.com/dvloznov/budget-tracker/internal/app"
	"github.com/rs/zerolog"
)

// SessionHandler handles the mock login and the user's profile.
type SessionHandler struct {
	app *app.App
	log zerolog.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(a *app.App, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{app: a, log: log}
}

// Login handles POST /api/session/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email  string `json:"email"`
		Name   string `json:"name"`
		Signup bool   `json:"signup"`
	}
	if err := decodeBody(r, &req, false); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.app.Login(r.Context(), req.Email, req.Name, req.Signup)
	if err != nil {
		writeAppError(w, r, err, "Failed to log in")
		return
	}

	h.log.Info().Str("user_id", user.ID).Bool("signup", req.Signup).Msg("User logged in")
	middleware.WriteJSON(w, http.StatusOK, user)
}

// GetSession handles GET /api/session
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	user, err := h.app.CurrentUser(r.Context())
	if err != nil {
		writeAppError(w, r, err, "Failed to read session")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PUT /api/session
func (h *SessionHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := decodeBody(r, &req, false); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.app.UpdateProfile(r.Context(), req.Name, req.Email)
	if err != nil {
		writeAppError(w, r, err, "Failed to update profile")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, user)
}

// Logout handles DELETE /api/session
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Logout(r.Context()); err != nil {
		writeAppError(w, r, err, "Failed to log out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
