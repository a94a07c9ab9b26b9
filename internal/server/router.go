package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/agentstation/mapreview/internal/server/handlers"
	"github.com/agentstation/mapreview/internal/server/middleware"
	"github.com/agentstation/mapreview/internal/server/response"
	"github.com/agentstation/mapreview/pkg/constants"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	h := handlers.New(handlers.Deps{
		Store:          s.store,
		Catalogs:       s.catalogs,
		Cache:          s.cache,
		Broker:         s.broker,
		WSHub:          s.wsHub,
		SSEBroadcaster: s.sseBroadcaster,
		Upgrader:       s.upgrader,
		Logger:         s.logger,
		StartTime:      s.startTime,
	})

	r := mux.NewRouter()
	s.registerRoutes(r, h)
	return s.applyMiddleware(r)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(r *mux.Router, h *handlers.Handlers) {
	r.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.HandleFunc("/health", h.HandleHealth).Methods(http.MethodGet)

	r.HandleFunc(constants.QueuePath, h.HandleQueue).Methods(http.MethodGet)
	r.HandleFunc(constants.SavePath, h.HandleSave).Methods(http.MethodPost)
	r.HandleFunc(constants.StatsPath, h.HandleStats).Methods(http.MethodGet)
	r.HandleFunc(constants.UpdatesStreamPath, h.HandleSSE).Methods(http.MethodGet)
	r.HandleFunc(constants.UpdatesSocketPath, h.HandleWebSocket).Methods(http.MethodGet)

	// full paths on the root router keep 405 for known paths with the wrong method
	r.HandleFunc(constants.APIPrefix+"/chromestatus/{id}", h.HandleChromestatus).Methods(http.MethodGet)
	r.HandleFunc(constants.APIPrefix+"/web-features/{id}", h.HandleWebFeature).Methods(http.MethodGet)

	r.HandleFunc(constants.FragmentPrefix+"/{catalog}/{id}", h.HandleFragment).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method "+r.Method+" not allowed")
	})
}

// applyMiddleware wraps handler with the middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	chain := []func(http.Handler) http.Handler{
		middleware.Recovery(s.logger),
		middleware.RequestID,
		middleware.Logger(s.logger),
	}
	if s.config.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		corsConfig.AllowedOrigins = s.config.CORSOrigins
		chain = append(chain, middleware.CORS(corsConfig))
	}
	return middleware.Chain(chain...)(handler)
}
