// Package handlers provides the HTTP handlers of the review server.
package handlers

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/mapreview/internal/catalogs"
	"github.com/agentstation/mapreview/internal/server/cache"
	"github.com/agentstation/mapreview/internal/server/events"
	"github.com/agentstation/mapreview/internal/server/sse"
	ws "github.com/agentstation/mapreview/internal/server/websocket"
	"github.com/agentstation/mapreview/internal/store"
)

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	store          *store.Store
	catalogs       *catalogs.Catalogs
	cache          *cache.Cache
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	startTime      time.Time
}

// Deps groups what the handlers need from the server.
type Deps struct {
	Store          *store.Store
	Catalogs       *catalogs.Catalogs
	Cache          *cache.Cache
	Broker         *events.Broker
	WSHub          *ws.Hub
	SSEBroadcaster *sse.Broadcaster
	Upgrader       websocket.Upgrader
	Logger         *zerolog.Logger
	StartTime      time.Time
}

// New creates a new Handlers instance.
func New(d Deps) *Handlers {
	return &Handlers{
		store:          d.Store,
		catalogs:       d.Catalogs,
		cache:          d.Cache,
		broker:         d.Broker,
		wsHub:          d.WSHub,
		sseBroadcaster: d.SSEBroadcaster,
		upgrader:       d.Upgrader,
		logger:         d.Logger,
		startTime:      d.StartTime,
	}
}
