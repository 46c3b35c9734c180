package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"task-tracker/app/services"
)

// SessionController handles login and logout.
type SessionController struct {
	Tracker *services.Tracker
	logger  *slog.Logger
}

// NewSessionController creates a new SessionController.
func NewSessionController(tracker *services.Tracker, logger *slog.Logger) *SessionController {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionController{Tracker: tracker, logger: logger}
}

type sessionResponse struct {
	Username *string `json:"username"`
}

// GetSession handles GET /session. username is null when logged out.
func (c *SessionController) GetSession(w http.ResponseWriter, r *http.Request) {
	var resp sessionResponse
	if username, ok := c.Tracker.ActiveUser(); ok {
		resp.Username = &username
	}
	writeJSON(w, http.StatusOK, resp)
}

// Login handles POST /session.
func (c *SessionController) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := c.Tracker.Login(r.Context(), input.Username); err != nil {
		respondError(c.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Username: &input.Username})
}

// Logout handles DELETE /session.
func (c *SessionController) Logout(w http.ResponseWriter, r *http.Request) {
	if err := c.Tracker.Logout(r.Context()); err != nil {
		respondError(c.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
