package handlers

import (
	"net/http"

	"github.com/agentstation/mapreview/internal/server/response"
)

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	entries, features := h.catalogs.Size()
	response.OK(w, map[string]any{
		"status":       "healthy",
		"service":      "mapreview",
		"queue_total":  h.store.Counts().Total,
		"entries":      entries,
		"web_features": features,
	})
}
