package handler

import (
	"net/http"

	"github.com/arenax/arenax-api/internal/service"
)

// SportsHandler serves the cache-backed sports data endpoints. The service
// owns the freshness and fallback policy; these handlers only shape the
// responses, so they never fail — the worst case is static fallback data.
type SportsHandler struct {
	svc *service.SportsService
}

func NewSportsHandler(svc *service.SportsService) *SportsHandler {
	return &SportsHandler{svc: svc}
}

// HTTP: GET /api/football/teams → 200 {teams}
func (h *SportsHandler) HandleTeams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"teams": h.svc.Teams(r.Context())})
}

// HTTP: GET /api/football/players → 200 {players}
func (h *SportsHandler) HandlePlayers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"players": h.svc.Players(r.Context())})
}

// HTTP: GET /api/football/matches → 200 {matches}
func (h *SportsHandler) HandleMatches(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"matches": h.svc.Matches(r.Context())})
}

// HTTP: GET /api/football/news → 200 {news}
func (h *SportsHandler) HandleNews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"news": h.svc.News(r.Context())})
}

// HTTP: GET /api/f1/drivers → 200 {drivers}
func (h *SportsHandler) HandleDrivers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"drivers": h.svc.Drivers(r.Context())})
}

// HTTP: GET /api/f1/races → 200 {races}
func (h *SportsHandler) HandleRaces(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"races": h.svc.Races(r.Context())})
}

// HTTP: GET /api/f1/news → 200 {news}
func (h *SportsHandler) HandleF1News(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"news": h.svc.F1News(r.Context())})
}
