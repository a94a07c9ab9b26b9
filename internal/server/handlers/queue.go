package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/agentstation/mapreview/internal/server/cache"
	"github.com/agentstation/mapreview/internal/server/events"
	"github.com/agentstation/mapreview/internal/server/response"
	"github.com/agentstation/mapreview/pkg/errors"
	"github.com/agentstation/mapreview/pkg/logging"
	"github.com/agentstation/mapreview/pkg/review"
)

// HandleQueue handles GET /api/queue. The whole queue is returned,
// decided records included, in review order.
func (h *Handlers) HandleQueue(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, h.store.Queue())
}

// HandleSave handles POST /api/save.
func (h *Handlers) HandleSave(w http.ResponseWriter, r *http.Request) {
	var m review.Mapping
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		response.BadRequest(w, "Invalid data")
		return
	}

	saved, err := h.store.Update(m)
	switch {
	case err == nil:
	case errors.IsNotFound(err):
		response.BadRequest(w, "Item not found in review queue")
		return
	case errors.IsValidationError(err):
		response.ErrorFromType(w, err)
		return
	default:
		logging.FromContext(r.Context()).Error().Err(err).
			Str("chromestatus_id", m.ChromestatusID.String()).
			Str("web_features_id", m.WebFeaturesID).
			Msg("Failed to persist review")
		response.InternalError(w, err)
		return
	}

	counts := h.store.Counts()
	h.broker.Publish(events.ReviewSaved, map[string]any{
		"mapping": saved,
		"counts":  counts,
	})
	if counts.Pending == 0 {
		h.broker.Publish(events.QueueCompleted, counts)
	}

	response.OK(w, response.Saved{Success: true})
}

// Stats is the body of GET /api/stats.
type Stats struct {
	Counts    review.Counts `json:"counts"`
	UpdatedAt string        `json:"updated_at"`
	Uptime    string        `json:"uptime"`
	Cache     cache.Stats   `json:"cache"`
	Events    events.Stats  `json:"events"`
	Clients   struct {
		WebSocket int `json:"websocket"`
		SSE       int `json:"sse"`
	} `json:"clients"`
}

// HandleStats handles GET /api/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, _ *http.Request) {
	s := Stats{
		Counts:    h.store.Counts(),
		UpdatedAt: h.store.UpdatedAt().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Cache:     h.cache.GetStats(),
		Events:    h.broker.Stats(),
	}
	s.Clients.WebSocket = h.wsHub.ClientCount()
	s.Clients.SSE = h.sseBroadcaster.ClientCount()
	response.OK(w, s)
}
