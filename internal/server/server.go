// Package server provides the HTTP backend a review session talks to: the
// queue, per-catalog detail data and fragments, the save endpoint and a
// live event stream of saved decisions.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/mapreview/internal/catalogs"
	"github.com/agentstation/mapreview/internal/server/cache"
	"github.com/agentstation/mapreview/internal/server/events"
	"github.com/agentstation/mapreview/internal/server/events/adapters"
	"github.com/agentstation/mapreview/internal/server/sse"
	ws "github.com/agentstation/mapreview/internal/server/websocket"
	"github.com/agentstation/mapreview/internal/store"
	"github.com/agentstation/mapreview/pkg/errors"
	"github.com/agentstation/mapreview/pkg/logging"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	store          *store.Store
	catalogs       *catalogs.Catalogs
	cache          *cache.Cache
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	config         Config
	ctx            context.Context
	cancel         context.CancelFunc
	startTime      time.Time
}

// New creates a server over the review store and the catalog snapshots.
func New(st *store.Store, cats *catalogs.Catalogs, cfg Config, logger *zerolog.Logger) (*Server, error) {
	if st == nil || cats == nil {
		return nil, errors.NewConfigError("server", "store and catalogs are required", nil)
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultConfig().CacheTTL
	}

	broker := events.NewBroker(logger)
	wsHub := ws.NewHub(logger)
	sseBroadcaster := sse.NewBroadcaster(logger)

	broker.Subscribe(adapters.NewWebSocketSubscriber(wsHub))
	broker.Subscribe(adapters.NewSSESubscriber(sseBroadcaster))
	logger.Debug().Msg("Real-time transports subscribed")

	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		store:          st,
		catalogs:       cats,
		cache:          cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		broker:         broker,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		logger:    logger,
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}, nil
}

// Start starts background services (broker, WebSocket hub, SSE broadcaster).
func (s *Server) Start() {
	go s.broker.Run(s.ctx)
	go s.wsHub.Run(s.ctx)
	go s.sseBroadcaster.Run(s.ctx)
	s.logger.Debug().Msg("Background services started")
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Shutdown stops the background services. Open SSE and WebSocket streams
// are closed by their transports.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info().Msg("Shutting down server background services")
	s.cancel()
	return nil
}

// Cache returns the server's fragment cache.
func (s *Server) Cache() *cache.Cache {
	return s.cache
}

// Broker returns the event broker for publishing events.
func (s *Server) Broker() *events.Broker {
	return s.broker
}

// Config returns the server configuration.
func (s *Server) Config() Config {
	return s.config
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
