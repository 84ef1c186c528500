package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/arenax/arenax-api/internal/model"
	"github.com/arenax/arenax-api/internal/repository"
	"github.com/arenax/arenax-api/internal/service"
)

// Pinger is the slice of the database the health endpoint needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SiteHandler serves the miscellaneous site endpoints: welcome, health,
// contact form and public stats.
type SiteHandler struct {
	db       Pinger
	contacts repository.ContactRepository
	authSvc  *service.AuthService
	logger   *slog.Logger
	dev      bool
}

func NewSiteHandler(db Pinger, contacts repository.ContactRepository, authSvc *service.AuthService, logger *slog.Logger, dev bool) *SiteHandler {
	return &SiteHandler{
		db:       db,
		contacts: contacts,
		authSvc:  authSvc,
		logger:   logger,
		dev:      dev,
	}
}

// HTTP: GET / → 200 welcome string
func (h *SiteHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Welcome to the ArenaX Sports API!"))
}

// HandleHealth reports service health including database reachability.
//
// HTTP: GET /health → 200 | 503 when the database is unreachable
func (h *SiteHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  "connected",
	}

	if err := h.db.Ping(r.Context()); err != nil {
		h.logger.Error("health check: database unreachable", slog.String("error", err.Error()))
		body["status"] = "error"
		body["database"] = "disconnected"
		writeJSON(w, http.StatusServiceUnavailable, body)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// HandleContact stores a contact-form submission.
//
// HTTP: POST /api/contact {name, email, message} → 201 | 400
func (h *SiteHandler) HandleContact(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Email == "" || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "name, email and message are required"})
		return
	}

	msg := &model.ContactMessage{Name: req.Name, Email: req.Email, Message: req.Message}
	if err := h.contacts.Create(r.Context(), msg); err != nil {
		writeError(w, err, h.dev)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"message": msg})
}

// HandleUsersCount returns the public registered-user count.
//
// HTTP: GET /stats/users-count → 200 {count}
func (h *SiteHandler) HandleUsersCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.authSvc.Count(r.Context())
	if err != nil {
		writeError(w, err, h.dev)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}
