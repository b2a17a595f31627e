package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/satchel/internal/common"
)

// APIHandler serves service-level endpoints: health, version and the
// API root welcome message.
type APIHandler struct {
	startTime time.Time
	logger    arbor.ILogger
}

func NewAPIHandler(logger arbor.ILogger) *APIHandler {
	return &APIHandler{
		startTime: time.Now(),
		logger:    logger,
	}
}

// Health handles GET /api/health.
func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  time.Since(h.startTime).String(),
		"version": common.GetVersion(),
	})
}

// Version handles GET /api/version.
func (h *APIHandler) Version(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// Welcome handles GET /api.
func (h *APIHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to the Document Management API",
	})
}

// NotFound writes the JSON 404 used for unknown /api/* routes.
func (h *APIHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusNotFound, "Route not found")
}
