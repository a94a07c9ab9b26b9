// Package status provides the review progress command.
package status

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/mapreview/cmd/application"
	"github.com/agentstation/mapreview/internal/cmd/cmdutil"
	"github.com/agentstation/mapreview/internal/cmd/hints"
	"github.com/agentstation/mapreview/internal/cmd/output"
	"github.com/agentstation/mapreview/internal/cmd/table"
	"github.com/agentstation/mapreview/internal/transport"
	"github.com/agentstation/mapreview/internal/utils/jsonfile"
	"github.com/agentstation/mapreview/pkg/review"
)

// NewCommand creates the status command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "status",
		GroupID: "review",
		Short:   "Show review progress",
		Long: `Status reports how many mappings are pending, accepted and rejected.

By default it reads the review file. With --remote it asks the review
server for its queue instead. --records lists the records themselves,
optionally filtered with --status.`,
		Example: `  mapreview status
  mapreview status --remote -o json
  mapreview status --records --status pending`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := cmdutil.Resolve(cmd, app.Config())

			var filter review.Status
			if s := cmdutil.MustGetString(cmd, "status"); s != "" {
				parsed, err := review.ParseStatus(s)
				if err != nil {
					return err
				}
				filter = parsed
			}

			var queue []review.Mapping
			if cmdutil.MustGetBool(cmd, "remote") {
				backend, err := transport.NewBackend(cfg.ServerURL, transport.VariantAPI, transport.New())
				if err != nil {
					return err
				}
				if queue, err = backend.Queue(cmd.Context()); err != nil {
					return err
				}
			} else if err := jsonfile.Read(cfg.Path(cfg.ReviewFile), &queue); err != nil {
				return err
			}

			format := cmdutil.Format(app.OutputFormat())
			if cmdutil.MustGetBool(cmd, "records") {
				return output.Print(cmd.OutOrStdout(), format, filtered(queue, filter), table.QueueToTableData(queue, filter))
			}
			counts := review.Count(queue)
			if err := output.Print(cmd.OutOrStdout(), format, counts, table.CountsToTableData(counts)); err != nil {
				return err
			}
			cmdutil.PrintHints(cmd, format, hints.Context{Command: "status", Pending: counts.Pending})
			return nil
		},
	}

	cmd.Flags().Bool("remote", false, "query the review server instead of the review file")
	cmd.Flags().Bool("records", false, "list records instead of counts")
	cmd.Flags().String("status", "", "only list records with this status: pending, accept, reject")
	cmdutil.AddDataDirFlag(cmd)

	return cmd
}

func filtered(queue []review.Mapping, status review.Status) []review.Mapping {
	if status == "" {
		return queue
	}
	out := make([]review.Mapping, 0, len(queue))
	for _, m := range queue {
		if m.ReviewStatus == status {
			out = append(out, m)
		}
	}
	return out
}
