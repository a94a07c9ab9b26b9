package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/agentstation/mapreview/internal/server/response"
)

// HandleChromestatus handles GET /api/chromestatus/{id}. The entry is
// returned exactly as it appears in the snapshot.
func (h *Handlers) HandleChromestatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	entry, ok := h.catalogs.Entry(id)
	if !ok {
		response.NotFound(w, "Entry not found: "+id)
		return
	}
	response.OK(w, entry)
}

// HandleWebFeature handles GET /api/web-features/{id}.
func (h *Handlers) HandleWebFeature(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	feature, ok := h.catalogs.Feature(id)
	if !ok {
		response.NotFound(w, "Feature not found: "+id)
		return
	}
	response.OK(w, feature)
}
