// Package classify provides the LLM classification command.
package classify

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/mapreview/cmd/application"
	"github.com/agentstation/mapreview/internal/catalogs"
	"github.com/agentstation/mapreview/internal/classify"
	"github.com/agentstation/mapreview/internal/cmd/cmdutil"
	"github.com/agentstation/mapreview/internal/cmd/emoji"
	"github.com/agentstation/mapreview/internal/cmd/hints"
	"github.com/agentstation/mapreview/internal/cmd/output"
	"github.com/agentstation/mapreview/pkg/constants"
)

// NewCommand creates the classify command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "classify",
		GroupID: "pipeline",
		Short:   "Ask Gemini for a tentative web-features id per chromestatus entry",
		Long: `Classify sends the chromestatus entries that are not yet classified to
Gemini in batches, together with every web-features candidate, and records
the suggested id, a confidence and notes for each entry.

The mapping file is rewritten after every batch, so an interrupted run
resumes where it stopped. The tentative mapping the review server reads is
written alongside it.

Uses GEMINI_API_KEY, or Vertex AI with --vertex, GOOGLE_CLOUD_PROJECT and
Application Default Credentials.`,
		Example: `  mapreview classify
  mapreview classify --limit 100
  mapreview classify --vertex --model gemini-2.5-flash`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := cmdutil.Resolve(cmd, app.Config())
			logger := app.Logger()

			cats, err := catalogs.Load(cfg.Path(cfg.ChromestatusFile), cfg.Path(cfg.WebFeaturesFile))
			if err != nil {
				return err
			}

			modelName := cfg.GeminiModel
			if m := cmdutil.MustGetString(cmd, "model"); m != "" {
				modelName = m
			}
			model, err := classify.NewGenAIModel(cmd.Context(), classify.ModelConfig{
				Model:    modelName,
				APIKey:   cfg.GeminiAPIKey,
				Vertex:   cmdutil.MustGetBool(cmd, "vertex"),
				Project:  cfg.GoogleCloudProject,
				Location: cfg.GoogleCloudLocation,
			})
			if err != nil {
				return err
			}
			logger.Info().Str("model", modelName).Msg("Classifying with Gemini")

			res, err := classify.Run(cmd.Context(), classify.Options{
				Catalogs:      cats,
				MappingPath:   cfg.Path(cfg.ClassifiedFile),
				TentativePath: cfg.Path(cfg.TentativeFile),
				BatchSize:     cmdutil.MustGetInt(cmd, "batch-size"),
				Limit:         cmdutil.MustGetInt(cmd, "limit"),
				Model:         model,
				Logger:        logger,
			})
			if err != nil {
				return err
			}

			format := cmdutil.Format(app.OutputFormat())
			if cmdutil.IsTable(format) {
				cmd.Printf("%s Classified %d entries\n", emoji.Success, res.Classified)
			}
			if err := output.PrintValue(cmd.OutOrStdout(), format, res); err != nil {
				return err
			}
			cmdutil.PrintHints(cmd, format, hints.Context{Command: "classify"})
			return nil
		},
	}

	cmd.Flags().String("model", "", "Gemini model (overrides gemini_model)")
	cmd.Flags().Bool("vertex", false, "use Vertex AI instead of the Gemini API")
	cmd.Flags().Int("batch-size", constants.ClassifyBatchSize, "entries per prompt")
	cmd.Flags().Int("limit", 0, "classify at most this many entries (0 for all)")
	cmdutil.AddDataDirFlag(cmd)

	return cmd
}
