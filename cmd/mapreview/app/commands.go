package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/mapreview/cmd/mapreview/cmd/classify"
	"github.com/agentstation/mapreview/cmd/mapreview/cmd/export"
	"github.com/agentstation/mapreview/cmd/mapreview/cmd/review"
	"github.com/agentstation/mapreview/cmd/mapreview/cmd/serve"
	"github.com/agentstation/mapreview/cmd/mapreview/cmd/status"
	"github.com/agentstation/mapreview/cmd/mapreview/cmd/update"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(serve.NewCommand(a))
	rootCmd.AddCommand(review.NewCommand(a))
	rootCmd.AddCommand(status.NewCommand(a))

	rootCmd.AddCommand(update.NewCommand(a))
	rootCmd.AddCommand(classify.NewCommand(a))
	rootCmd.AddCommand(export.NewCommand(a))

	rootCmd.AddCommand(a.newVersionCommand())
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "mapreview %s\n", a.version)
			if a.config.Verbose {
				fmt.Fprintf(w, "  commit:   %s\n", a.commit)
				fmt.Fprintf(w, "  built:    %s\n", a.date)
				fmt.Fprintf(w, "  built by: %s\n", a.builtBy)
			}
		},
	}
}
