// Package handler implements the HTTP handlers for the profile generation
// API: job submission, polling, cancellation, and profile retrieval.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"teamscout/internal/api/respond"
	"teamscout/internal/cache"
	"teamscout/internal/config"
	"teamscout/internal/db"
	"teamscout/internal/job"
)

// Handler carries the dependencies all endpoints share.
type Handler struct {
	orch    *job.Orchestrator
	results job.ResultStore
	cache   cache.Store
	pool    *db.Pool // nil unless the Postgres job store is configured
	cfg     *config.Config
}

// New creates a Handler with its dependencies.
func New(orch *job.Orchestrator, results job.ResultStore, cacheStore cache.Store, pool *db.Pool, cfg *config.Config) *Handler {
	return &Handler{orch: orch, results: results, cache: cacheStore, pool: pool, cfg: cfg}
}

// Root responds with service identity.
//
// @Summary Service info
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]string{
		"service": "teamscout",
		"docs":    "/docs/",
	})
}

// HealthCheck reports liveness.
//
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HealthCheckDB verifies database connectivity.
//
// @Summary Database health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} respond.ErrorResponse
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if h.pool == nil {
		respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "backend": "memory"})
		return
	}
	if err := h.pool.HealthCheck(r.Context()); err != nil {
		respond.WriteErrorDetail(w, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unreachable", err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "backend": "postgres"})
}

// HealthCheckCache reports historical-cache statistics.
//
// @Summary Cache health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} respond.ErrorResponse
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	stats, err := h.cache.Stats(r.Context())
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusServiceUnavailable, "CACHE_UNAVAILABLE", "Cache unreachable", err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, stats)
}

// submitRequest is the job submission payload.
type submitRequest struct {
	Team         string `json:"team"`
	Season       int    `json:"season"`
	ForceRefresh bool   `json:"forceRefresh,omitempty"`
}

// SubmitJob queues a new generation run.
//
// @Summary Submit a profile generation job
// @Description Queues generation for one team season and returns the job ID immediately.
// @Tags jobs
// @Accept json
// @Produce json
// @Param request body submitRequest true "Team and season"
// @Success 202 {object} map[string]string
// @Failure 400 {object} respond.ErrorResponse
// @Router /jobs [post]
func (h *Handler) SubmitJob(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body")
		return
	}
	if req.Season == 0 {
		req.Season = config.CurrentSeason
	}

	id, err := h.orch.Submit(r.Context(), req.Team, req.Season, req.ForceRefresh)
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "BAD_REQUEST", "Could not submit job", err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusAccepted, map[string]string{"jobId": id})
}

// GetJob returns a job snapshot.
//
// @Summary Poll job status
// @Tags jobs
// @Produce json
// @Param jobID path string true "Job ID"
// @Success 200 {object} job.Job
// @Failure 404 {object} respond.ErrorResponse
// @Router /jobs/{jobID} [get]
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "jobID")
	j, err := h.orch.Get(r.Context(), id)
	if errors.Is(err, job.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Unknown job ID")
		return
	}
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "INTERNAL", "Could not load job", err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, j)
}

// CancelJob requests cooperative cancellation.
//
// @Summary Cancel a job
// @Description Requests cooperative cancellation; the worker stops at its next stage boundary.
// @Tags jobs
// @Produce json
// @Param jobID path string true "Job ID"
// @Success 202 {object} map[string]string
// @Failure 404 {object} respond.ErrorResponse
// @Router /jobs/{jobID} [delete]
func (h *Handler) CancelJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "jobID")
	if err := h.orch.Cancel(r.Context(), id); err != nil {
		if errors.Is(err, job.ErrNotFound) {
			respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Unknown job ID")
			return
		}
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "INTERNAL", "Could not cancel job", err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusAccepted, map[string]string{"jobId": id, "status": "cancellation requested"})
}

// GetProfile returns a completed team profile.
//
// @Summary Fetch a generated profile
// @Tags profiles
// @Produce json
// @Param team path string true "Team name"
// @Param season path int true "Season year"
// @Success 200 {object} profile.TeamProfile
// @Failure 404 {object} respond.ErrorResponse
// @Router /profiles/{team}/{season} [get]
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	team := chi.URLParam(r, "team")
	season, err := strconv.Atoi(chi.URLParam(r, "season"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Season must be a year")
		return
	}

	p, err := h.results.Get(r.Context(), team, season)
	if errors.Is(err, job.ErrNoProfile) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "No completed profile for this team season")
		return
	}
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "INTERNAL", "Could not load profile", err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, p)
}
