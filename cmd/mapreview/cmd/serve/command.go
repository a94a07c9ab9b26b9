// Package serve provides the review server command.
package serve

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentstation/mapreview/cmd/application"
	"github.com/agentstation/mapreview/internal/catalogs"
	"github.com/agentstation/mapreview/internal/cmd/cmdutil"
	"github.com/agentstation/mapreview/internal/cmd/emoji"
	"github.com/agentstation/mapreview/internal/config"
	"github.com/agentstation/mapreview/internal/server"
	"github.com/agentstation/mapreview/internal/store"
	"github.com/agentstation/mapreview/pkg/constants"
	"github.com/agentstation/mapreview/pkg/errors"
	"github.com/agentstation/mapreview/pkg/review"
)

// NewCommand creates the serve command using app context.
func NewCommand(app application.Application) *cobra.Command {
	def := server.DefaultConfig()
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		GroupID: "review",
		Short:   "Serve the review queue and catalog details",
		Long: `Serve hosts the review queue for the terminal reviewer.

On first start the queue is built from the tentative mapping and the two
catalog snapshots; after that it resumes from the review file, which is
rewritten after every decision.

Endpoints:
  GET  /api/queue                  full review queue
  POST /api/save                   record one decision
  GET  /api/chromestatus/{id}      chromestatus entry
  GET  /api/web-features/{id}      web-features feature
  GET  /fragment/{catalog}/{id}    rendered detail markup
  GET  /api/stats                  counts, cache and client stats
  GET  /api/updates/stream         saved reviews as Server-Sent Events
  GET  /api/updates/ws             saved reviews over WebSocket`,
		Example: `  # Start on the default port
  mapreview serve

  # Serve a different data directory on another port
  mapreview serve --data-dir ./data --port 8080`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd, app)
		},
	}

	cmd.Flags().Int("port", def.Port, "Server port")
	cmd.Flags().String("host", def.Host, "Bind address")
	cmd.Flags().Bool("cors", def.CORSEnabled, "Enable CORS")
	cmd.Flags().StringSlice("cors-origins", []string{}, "Allowed CORS origins (comma-separated, default all)")
	cmd.Flags().Duration("cache-ttl", def.CacheTTL, "Rendered fragment cache TTL")
	cmd.Flags().Duration("read-timeout", def.ReadTimeout, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", def.WriteTimeout, "HTTP write timeout (0 keeps streams open)")
	cmd.Flags().Duration("idle-timeout", def.IdleTimeout, "HTTP idle timeout")
	cmdutil.AddDataDirFlag(cmd)

	return cmd
}

func runServer(cmd *cobra.Command, app application.Application) error {
	cfg := parseConfig(cmd)
	files := cmdutil.Resolve(cmd, app.Config())
	logger := app.Logger()

	cats, st, err := Open(files, logger)
	if err != nil {
		return err
	}

	logger.Info().
		Int("port", cfg.Port).
		Str("host", cfg.Host).
		Bool("cors", cfg.CORSEnabled).
		Dur("cache_ttl", cfg.CacheTTL).
		Str("review_file", st.Path()).
		Msg("Starting review server")

	srv, err := server.New(st, cats, cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	srv.Start()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return startWithGracefulShutdown(cmd.Context(), httpServer, srv, logger)
}

// Open loads the catalog snapshots and the review store. The store is
// resumed from the review file, or built from the tentative mapping.
func Open(cfg *config.Config, logger *zerolog.Logger) (*catalogs.Catalogs, *store.Store, error) {
	cats, err := catalogs.Load(cfg.Path(cfg.ChromestatusFile), cfg.Path(cfg.WebFeaturesFile))
	if err != nil {
		return nil, nil, err
	}
	entries, features := cats.Size()
	logger.Info().Int("entries", entries).Int("web_features", features).Msg("Loaded catalogs")

	tentativePath := cfg.Path(cfg.TentativeFile)
	build := func() ([]review.Mapping, error) {
		tentative, err := store.LoadTentative(tentativePath)
		if err != nil {
			return nil, err
		}
		return store.BuildQueue(tentative, cats)
	}

	st, err := store.Open(cfg.Path(cfg.ReviewFile), build, store.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return cats, st, nil
}

// parseConfig parses command flags into server configuration.
func parseConfig(cmd *cobra.Command) server.Config {
	port := cmdutil.MustGetInt(cmd, "port")
	host := cmdutil.MustGetString(cmd, "host")

	// HTTP_PORT and HTTP_HOST override the flag defaults for container use
	if envPort := os.Getenv("HTTP_PORT"); envPort != "" && !cmd.Flags().Changed("port") {
		if p, err := parsePort(envPort); err == nil {
			port = p
		}
	}
	if envHost := os.Getenv("HTTP_HOST"); envHost != "" && !cmd.Flags().Changed("host") {
		host = envHost
	}

	return server.Config{
		Host:         host,
		Port:         port,
		CORSEnabled:  cmdutil.MustGetBool(cmd, "cors"),
		CORSOrigins:  cmdutil.MustGetStringSlice(cmd, "cors-origins"),
		CacheTTL:     cmdutil.MustGetDuration(cmd, "cache-ttl"),
		ReadTimeout:  cmdutil.MustGetDuration(cmd, "read-timeout"),
		WriteTimeout: cmdutil.MustGetDuration(cmd, "write-timeout"),
		IdleTimeout:  cmdutil.MustGetDuration(cmd, "idle-timeout"),
	}
}

// parsePort safely parses a port string to integer.
func parsePort(portStr string) (int, error) {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, errors.NewValidationError("port", portStr, "not a number")
	}
	if port < 1 || port > 65535 {
		return 0, errors.NewValidationError("port", portStr, "out of range")
	}
	return port, nil
}

// startWithGracefulShutdown serves until ctx is cancelled, then drains
// connections and stops the background services.
func startWithGracefulShutdown(ctx context.Context, httpServer *http.Server, srv *server.Server, logger *zerolog.Logger) error {
	serverErr := make(chan error, 1)

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")
		fmt.Printf("%s Review server listening on http://%s\n", emoji.Rocket, httpServer.Addr)
		fmt.Println("   Press Ctrl+C to stop")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
	}()

	select {
	case err := <-serverErr:
		_ = srv.Shutdown(context.Background())
		return err
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received via context")
		fmt.Printf("\n%s Shutting down review server...\n", emoji.Stop)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()

		// streams end when the background services stop
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Background services shutdown had issues")
		}
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("Server stopped gracefully")
		fmt.Printf("%s Review server stopped gracefully\n", emoji.Success)
		return nil
	}
}
