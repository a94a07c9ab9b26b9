// Package review provides the terminal review command.
package review

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentstation/mapreview/cmd/application"
	"github.com/agentstation/mapreview/internal/cmd/cmdutil"
	"github.com/agentstation/mapreview/internal/cmd/emoji"
	"github.com/agentstation/mapreview/internal/transport"
	"github.com/agentstation/mapreview/internal/tui"
	"github.com/agentstation/mapreview/pkg/logging"
	"github.com/agentstation/mapreview/pkg/review"
)

// NewCommand creates the review command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "review",
		GroupID: "review",
		Short:   "Review pending mappings in the terminal",
		Long: `Review walks the pending mappings of a running review server.

Keys:
  y        accept the mapping and move to the next pending one
  n        reject the mapping and move to the next pending one
  ←        previous record (decided records included)
  →        next record (decided records included)
  q, Esc   quit

Decisions are saved to the server as they are made. Logs go to the
review log file because the terminal is in use.`,
		Example: `  mapreview review
  mapreview review --server http://localhost:8080 --variant api`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReview(cmd, app)
		},
	}

	cmd.Flags().String("server", "", "review server URL (overrides server_url)")
	cmd.Flags().String("variant", "", "detail source: fragment or api (overrides detail_variant)")
	cmd.Flags().String("log-file", "", "log file (overrides review_log_file)")

	return cmd
}

func runReview(cmd *cobra.Command, app application.Application) error {
	cfg := app.Config()
	serverURL := firstNonEmpty(cmdutil.MustGetString(cmd, "server"), cfg.ServerURL)
	logFile := firstNonEmpty(cmdutil.MustGetString(cmd, "log-file"), cfg.ReviewLogFile)

	variant, err := transport.ParseVariant(firstNonEmpty(cmdutil.MustGetString(cmd, "variant"), cfg.DetailVariant))
	if err != nil {
		return err
	}

	logger := fileLogger(app.Logger(), logFile)

	backend, err := transport.NewBackend(serverURL, variant, transport.New())
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// the queue is fetched before the screen takes over the terminal, so a
	// dead server is reported on stderr
	view := tui.NewView(screen)
	view.Pause()
	ctrl := review.NewController(backend, view, review.WithLogger(&logger))
	if err := ctrl.Init(ctx); err != nil {
		return err
	}

	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- ctrl.Run(ctx) }()

	tui.Run(ctx, screen, view, ctrl)
	screen.Fini()

	// zero once the loop has already stopped on a signal
	state := ctrl.Snapshot()
	cancel()
	if err := <-done; err != nil {
		return err
	}
	// let in-flight saves reach the server
	ctrl.Wait()

	counts := review.Count(state.Queue)
	logger.Info().Int("pending", counts.Pending).Int("total", counts.Total).Msg("Review session ended")
	if counts.Total > 0 && counts.Pending == 0 {
		cmd.Printf("%s %s\n", emoji.Success, review.CompletionText(counts.Total))
	}
	return nil
}

// fileLogger sends logs to path at the level the CLI resolved.
func fileLogger(base *zerolog.Logger, path string) zerolog.Logger {
	return logging.NewLoggerFromConfig(&logging.Config{
		Level:   base.GetLevel().String(),
		Format:  "json",
		Output:  path,
		NoColor: true,
		Fields:  map[string]any{"component": "review"},
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
