// Package httpapi exposes the engine to the browser frontend: start a
// scrape, poll its status, and query the session's stored jobs.
package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"jobyab-engine/internal/orchestrator"
	"jobyab-engine/internal/store"
)

const sessionCookie = "session_id"

type Server struct {
	Store        *store.SQLiteStore
	Orchestrator *orchestrator.Orchestrator
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/scrape", s.handleScrape)
		r.Get("/status", s.handleStatus)
		r.Get("/jobs", s.handleJobs)
		r.Get("/filters", s.handleFilters)
		r.Get("/session", s.handleSessionInfo)
		r.Delete("/session", s.handleClearSession)
	})

	return r
}

// sessionID returns the caller's session identifier, issuing a fresh one
// in a cookie on first contact and bumping last_accessed either way.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		id = c.Value
	} else {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	if _, err := s.Store.GetOrCreateSession(r.Context(), id); err != nil {
		log.Printf("⚠️ Error touching session %s: %v", id, err)
	}
	return id
}

type scrapeRequest struct {
	Keyword string   `json:"keyword"`
	Sources []string `json:"sources"`
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	sessionID := s.sessionID(w, r)

	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}
	req.Keyword = strings.TrimSpace(req.Keyword)

	err := s.Orchestrator.StartScrape(req.Keyword, req.Sources, sessionID)
	switch {
	case errors.Is(err, orchestrator.ErrAlreadyRunning):
		writeErr(w, http.StatusConflict, err)
	case err != nil:
		writeErr(w, http.StatusBadRequest, err)
	default:
		writeJSON(w, http.StatusAccepted, map[string]string{"message": "Scraping started"})
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Orchestrator.Status())
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	sessionID := s.sessionID(w, r)

	f := store.Filters{
		Source:          r.URL.Query().Get("source"),
		CityContains:    r.URL.Query().Get("city"),
		CompanyContains: r.URL.Query().Get("company"),
	}
	jobs, err := s.Store.Query(r.Context(), sessionID, f, r.URL.Query().Get("sort"))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if jobs == nil {
		jobs = []store.StoredJob{}
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	sessionID := s.sessionID(w, r)

	cities, companies, err := s.Store.DistinctFilterValues(r.Context(), sessionID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if cities == nil {
		cities = []string{}
	}
	if companies == nil {
		companies = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"cities": cities, "companies": companies})
}

func (s *Server) handleSessionInfo(w http.ResponseWriter, r *http.Request) {
	sessionID := s.sessionID(w, r)

	info, err := s.Store.SessionInfo(r.Context(), sessionID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if info == nil {
		// sessionID upserts the record, so this only races a sweep
		writeErr(w, http.StatusNotFound, errors.New("session not found"))
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	sessionID := s.sessionID(w, r)

	n, err := s.Store.ClearSession(r.Context(), sessionID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"cleared": n})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
