package handlers

import (
	"net/http"
	"time"

	"botflow-backend/application/queries"
	"botflow-backend/infrastructure/persistence/jsonstore"
	"botflow-backend/pkg/common"
	apperrors "botflow-backend/pkg/errors"

	"go.uber.org/zap"
)

// MetaHandler serves the unauthenticated info and health endpoints
// plus the authenticated stats endpoint.
type MetaHandler struct {
	store     *jsonstore.Store
	errors    *apperrors.ErrorHandler
	logger    *zap.Logger
	startedAt time.Time
}

// NewMetaHandler creates a new meta handler
func NewMetaHandler(store *jsonstore.Store, errHandler *apperrors.ErrorHandler, logger *zap.Logger) *MetaHandler {
	return &MetaHandler{
		store:     store,
		errors:    errHandler,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// Info handles GET /api
func (h *MetaHandler) Info(w http.ResponseWriter, r *http.Request) {
	common.RespondMessage(w, http.StatusOK, "Botflow API", map[string]interface{}{
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":        "GET /api/health",
			"stats":         "GET /api/stats",
			"nodes":         "GET /api/nodes",
			"node":          "GET /api/nodes/{nodeID}",
			"nodeRelations": "GET /api/nodes/{nodeID}/relations",
			"nodeStats":     "GET /api/nodes/stats",
			"graphql":       "POST /graphql",
		},
	})
}

// Health handles GET /api/health
func (h *MetaHandler) Health(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// Stats handles GET /api/stats
func (h *MetaHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := queries.CollectStats(h.store)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, stats)
}

// NotFound renders the structured 404 for unmatched routes.
func (h *MetaHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	common.RespondError(w, http.StatusNotFound, apperrors.CodeResourceNotFound, "Route not found: "+r.Method+" "+r.URL.Path)
}
