// Package update provides the catalog refresh command.
package update

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/mapreview/cmd/application"
	"github.com/agentstation/mapreview/internal/cmd/cmdutil"
	"github.com/agentstation/mapreview/internal/cmd/emoji"
	"github.com/agentstation/mapreview/internal/cmd/hints"
	"github.com/agentstation/mapreview/internal/cmd/output"
	"github.com/agentstation/mapreview/internal/update"
	"github.com/agentstation/mapreview/pkg/constants"
)

// NewCommand creates the update command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "update",
		GroupID: "pipeline",
		Short:   "Refresh the chromestatus and web-features snapshots",
		Long: `Update downloads every chromestatus.com feature entry and the latest
web-features release data, and writes them to the data directory.

Both downloads run concurrently. A snapshot is only replaced once it has
been fetched completely. Set GITHUB_TOKEN to lift the anonymous GitHub
rate limit.`,
		Example: `  mapreview update
  mapreview update --data-dir ./data -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := cmdutil.Resolve(cmd, app.Config())
			res, err := update.Run(cmd.Context(), update.Options{
				ChromestatusPath: cfg.Path(cfg.ChromestatusFile),
				WebFeaturesPath:  cfg.Path(cfg.WebFeaturesFile),
				ChromestatusURL:  cmdutil.MustGetString(cmd, "chromestatus-url"),
				ReleaseURL:       cmdutil.MustGetString(cmd, "release-url"),
				PageSize:         cmdutil.MustGetInt(cmd, "page-size"),
				GitHubToken:      cfg.GitHubToken,
				Logger:           app.Logger(),
			})
			if err != nil {
				return err
			}

			format := cmdutil.Format(app.OutputFormat())
			if cmdutil.IsTable(format) {
				cmd.Printf("%s Updated catalogs\n", emoji.Success)
			}
			if err := output.PrintValue(cmd.OutOrStdout(), format, res); err != nil {
				return err
			}
			cmdutil.PrintHints(cmd, format, hints.Context{Command: "update"})
			return nil
		},
	}

	cmd.Flags().String("chromestatus-url", update.DefaultChromestatusURL, "chromestatus features API")
	cmd.Flags().String("release-url", update.DefaultReleaseURL, "GitHub latest release API for web-features")
	cmd.Flags().Int("page-size", constants.ChromestatusPageSize, "chromestatus entries per page")
	cmdutil.AddDataDirFlag(cmd)

	return cmd
}
