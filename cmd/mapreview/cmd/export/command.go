// Package export provides the CSV export command.
package export

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/mapreview/cmd/application"
	"github.com/agentstation/mapreview/internal/cmd/cmdutil"
	"github.com/agentstation/mapreview/internal/cmd/emoji"
	"github.com/agentstation/mapreview/internal/cmd/hints"
	"github.com/agentstation/mapreview/internal/cmd/output"
	"github.com/agentstation/mapreview/internal/cmd/table"
	"github.com/agentstation/mapreview/internal/export"
)

// NewCommand creates the export command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "export",
		GroupID: "pipeline",
		Short:   "Write accepted mappings as CSV",
		Long: `Export reads the review file and writes every accepted mapping to a CSV
file with the columns "Chrome Status Entry" and "Feature ID", ordered by
feature id. Nothing is written when no mapping was accepted.`,
		Example: `  mapreview export
  mapreview export --out accepted.csv -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := cmdutil.Resolve(cmd, app.Config())
			csvPath := cfg.Path(cfg.ExportFile)
			if out := cmdutil.MustGetString(cmd, "out"); out != "" {
				csvPath = out
			}

			rows, err := export.File(cfg.Path(cfg.ReviewFile), csvPath)
			if err != nil {
				return err
			}
			app.Logger().Info().Int("rows", len(rows)).Str("path", csvPath).Msg("Export finished")

			format := cmdutil.Format(app.OutputFormat())
			if cmdutil.IsTable(format) {
				defer cmdutil.PrintHints(cmd, format, hints.Context{Command: "export", Exported: len(rows)})
				if len(rows) == 0 {
					cmd.Printf("%s No accepted mappings, nothing written\n", emoji.Warning)
					return nil
				}
				cmd.Printf("%s Wrote %d mappings to %s\n", emoji.Success, len(rows), csvPath)
				if !cmdutil.MustGetBool(cmd, "list") {
					return nil
				}
			}
			if rows == nil {
				rows = []export.Row{}
			}
			return output.Print(cmd.OutOrStdout(), format, rows, table.ExportToTableData(rows))
		},
	}

	cmd.Flags().String("out", "", "CSV path (overrides export_file)")
	cmd.Flags().Bool("list", false, "also print the exported rows")
	cmdutil.AddDataDirFlag(cmd)

	return cmd
}
