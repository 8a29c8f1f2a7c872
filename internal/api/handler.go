package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nidhogg/agent-advisor/internal/analysis"
	"github.com/nidhogg/agent-advisor/internal/catalog"
	"github.com/nidhogg/agent-advisor/internal/recommend"
	"go.uber.org/zap"
)

// Recommender is the core the HTTP layer serves.
type Recommender interface {
	Analyze(description string) analysis.TaskAnalysis
	Recommend(description string, topN int) (*recommend.Result, error)
	Compare(description string, ids []string) (*recommend.Comparison, error)
	Agents() []catalog.Agent
	Agent(id string) (*catalog.Agent, bool)
}

// ResultCache stores rendered responses. Implementations must be safe for
// concurrent use.
type ResultCache interface {
	Get(ctx context.Context, key string, v interface{}) (bool, error)
	Set(ctx context.Context, key string, v interface{}) error
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	svc     Recommender
	cache   ResultCache
	version string
	logger  *zap.Logger
}

// NewHandler creates a new API handler. svc may be nil when the catalog
// failed to load; every engine route then answers 500. cache may be nil.
func NewHandler(svc Recommender, cache ResultCache, version string, logger *zap.Logger) *Handler {
	return &Handler{
		svc:     svc,
		cache:   cache,
		version: version,
		logger:  logger,
	}
}

// Router builds the chi router with all routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/", h.root)
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.healthCheck)
		r.Get("/keywords", h.keywords)

		r.Group(func(r chi.Router) {
			r.Use(h.requireEngine)
			r.Get("/agents", h.listAgents)
			r.Get("/agents/{id}", h.getAgent)
			r.Post("/analyze", h.analyze)
			r.Post("/recommend", h.recommend)
			r.Post("/compare", h.compare)
		})
	})

	return r
}

// requireEngine answers 500 while no recommendation service is wired.
func (h *Handler) requireEngine(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.svc == nil {
			writeError(w, http.StatusInternalServerError, "Recommendation engine not initialized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "AI Coding Agent Recommendation System API",
		"version": h.version,
	})
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	count := 0
	if h.svc != nil {
		count = len(h.svc.Agents())
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"agents": count,
	})
}

func (h *Handler) keywords(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, analysis.KeywordTables())
}

func (h *Handler) listAgents(w http.ResponseWriter, r *http.Request) {
	agents := h.svc.Agents()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"agents":      agents,
		"total_count": len(agents),
	})
}

func (h *Handler) getAgent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, ok := h.svc.Agent(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Agent not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"agent":   a,
	})
}

func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	desc, ok := decodeTask(w, r, &req)
	if !ok {
		return
	}
	ta := h.svc.Analyze(desc)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"task_analysis": ta,
	})
}

func (h *Handler) recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	desc, ok := decodeTask(w, r, &req)
	if !ok {
		return
	}
	topN := parseTopN(req.TopN)

	key := cacheKey("recommend", desc, topN)
	var cached recommendResponse
	if h.cacheGet(r.Context(), key, &cached) {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	res, err := h.svc.Recommend(desc, topN)
	if err != nil {
		h.fail(w, "recommend", err)
		return
	}
	resp := newRecommendResponse(desc, res)
	h.cacheSet(r.Context(), key, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) compare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.TaskDescription == nil || req.AgentIDs == nil {
		writeError(w, http.StatusBadRequest, "Task description and agent IDs are required")
		return
	}
	desc := strings.TrimSpace(*req.TaskDescription)
	if desc == "" {
		writeError(w, http.StatusBadRequest, "Task description cannot be empty")
		return
	}
	if len(*req.AgentIDs) == 0 {
		writeError(w, http.StatusBadRequest, "At least one agent ID is required")
		return
	}

	key := cacheKey("compare", desc, *req.AgentIDs)
	var cached compareResponse
	if h.knownAgents(*req.AgentIDs) && h.cacheGet(r.Context(), key, &cached) {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	res, err := h.svc.Compare(desc, *req.AgentIDs)
	if err != nil {
		h.fail(w, "compare", err)
		return
	}
	resp := newCompareResponse(desc, res)
	h.cacheSet(r.Context(), key, resp)
	writeJSON(w, http.StatusOK, resp)
}

// knownAgents reports whether every id is in the catalog. Unknown ids
// bypass the cache so the service reports them.
func (h *Handler) knownAgents(ids []string) bool {
	for _, id := range ids {
		if _, ok := h.svc.Agent(id); !ok {
			return false
		}
	}
	return true
}

// decodeTask reads the body into req and returns the trimmed description.
// It writes the 400 response itself when the input is unusable.
func decodeTask(w http.ResponseWriter, r *http.Request, req describer) (string, bool) {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil || req.description() == nil {
		writeError(w, http.StatusBadRequest, "Task description is required")
		return "", false
	}
	desc := strings.TrimSpace(*req.description())
	if desc == "" {
		writeError(w, http.StatusBadRequest, "Task description cannot be empty")
		return "", false
	}
	return desc, true
}

// fail maps core errors to HTTP statuses.
func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, recommend.ErrUnknownAgent):
		writeError(w, http.StatusNotFound, "One or more agent IDs not found")
	case errors.Is(err, recommend.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "Task description cannot be empty")
	default:
		h.logger.Error("request failed", zap.String("op", op), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to "+op)
	}
}

func (h *Handler) cacheGet(ctx context.Context, key string, v interface{}) bool {
	if h.cache == nil {
		return false
	}
	hit, err := h.cache.Get(ctx, key, v)
	if err != nil {
		h.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func (h *Handler) cacheSet(ctx context.Context, key string, v interface{}) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Set(ctx, key, v); err != nil {
		h.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
