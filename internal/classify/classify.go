// Package classify proposes a web-features id for every chromestatus entry
// by asking a Gemini model, in batches, and turns the answers into the
// tentative mapping file a review queue is built from.
package classify

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/rs/zerolog"

	"github.com/agentstation/mapreview/internal/catalogs"
	"github.com/agentstation/mapreview/internal/store"
	"github.com/agentstation/mapreview/internal/utils/jsonfile"
	"github.com/agentstation/mapreview/pkg/constants"
	"github.com/agentstation/mapreview/pkg/errors"
	"github.com/agentstation/mapreview/pkg/logging"
	"github.com/agentstation/mapreview/pkg/review"
)

// Classification is the model's answer for one entry.
type Classification struct {
	ID         string            `json:"id"`
	Confidence review.Confidence `json:"confidence"`
	Notes      string            `json:"notes,omitempty"`
}

// Mapping maps chromestatus ids to classifications. It is the resumable
// state of a classification run.
type Mapping map[string]Classification

// Options configures a classification run.
type Options struct {
	Catalogs      *catalogs.Catalogs
	MappingPath   string
	TentativePath string
	BatchSize     int
	// Limit caps the number of entries sent in this run. Zero means all.
	Limit int

	Model  Model
	Logger *zerolog.Logger
}

// Result summarises a run.
type Result struct {
	Batches    int `json:"batches" yaml:"batches"`
	Sent       int `json:"sent" yaml:"sent"`
	Classified int `json:"classified" yaml:"classified"`
	Total      int `json:"total" yaml:"total"`
}

// Run classifies every entry not yet in the mapping file. The mapping file
// and the tentative file are rewritten after each batch so an interrupted
// run resumes where it stopped.
func Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Model == nil || opts.Catalogs == nil {
		return Result{}, errors.NewConfigError("classify", "model and catalogs are required", nil)
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = constants.ClassifyBatchSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}

	mapping := Mapping{}
	if jsonfile.Exists(opts.MappingPath) {
		if err := jsonfile.Read(opts.MappingPath, &mapping); err != nil {
			return Result{}, err
		}
		logger.Info().Int("classified", len(mapping)).Str("path", opts.MappingPath).Msg("Resuming from existing mapping")
	}

	candidates := make(map[string]Candidate)
	for id, f := range opts.Catalogs.Features() {
		candidates[id] = Candidate{Name: f.Name, Description: f.Description}
	}

	var pending []catalogs.Entry
	for _, e := range opts.Catalogs.Entries() {
		if _, done := mapping[e.Key()]; !done {
			pending = append(pending, e)
		}
	}
	if opts.Limit > 0 && len(pending) > opts.Limit {
		pending = pending[:opts.Limit]
	}

	system := SystemPrompt()
	var res Result
	for batch := range slices.Chunk(pending, opts.BatchSize) {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		input := make(map[string]Entry, len(batch))
		for _, e := range batch {
			input[e.Key()] = Entry{Name: e.Name, Summary: e.Summary}
		}
		logger.Info().Int("entries", len(input)).Msg("Processing batch")

		results, err := classifyBatch(ctx, opts.Model, system, Prompt(candidates, input))
		res.Batches++
		res.Sent += len(input)
		if err != nil {
			return res, err
		}
		if len(results) == 0 {
			logger.Warn().Msg("No JSON object found in results")
			continue
		}

		added := 0
		for id, c := range results {
			if _, asked := input[id]; !asked {
				logger.Warn().Str("chromestatus_id", id).Msg("Ignoring result for an entry that was not asked about")
				continue
			}
			mapping[id] = c
			added++
		}
		res.Classified += added
		logger.Info().Int("results", added).Msg("Got results, saving")

		if err := save(opts, mapping); err != nil {
			return res, err
		}
	}

	res.Total = len(mapping)
	if res.Batches == 0 && opts.TentativePath != "" && !jsonfile.Exists(opts.TentativePath) && len(mapping) > 0 {
		// nothing new to classify, but the tentative file was never written
		if err := jsonfile.Write(opts.TentativePath, Tentative(mapping)); err != nil {
			return res, err
		}
	}
	return res, nil
}

func classifyBatch(ctx context.Context, model Model, system, prompt string) (Mapping, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ClassifyTimeout)
	defer cancel()

	text, err := model.Generate(ctx, system, prompt)
	if err != nil {
		return nil, err
	}
	raw := ExtractJSONObject(text)
	if raw == nil {
		return nil, nil
	}
	var results Mapping
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, errors.WrapParse("json", "model response", err)
	}
	return results, nil
}

func save(opts Options, mapping Mapping) error {
	if err := jsonfile.Write(opts.MappingPath, mapping); err != nil {
		return err
	}
	if opts.TentativePath == "" {
		return nil
	}
	return jsonfile.Write(opts.TentativePath, Tentative(mapping))
}

// Tentative converts classifications to tentative outcomes. NOT_FOUND and
// empty ids become failures.
func Tentative(mapping Mapping) store.Tentative {
	t := make(store.Tentative, len(mapping))
	for id, c := range mapping {
		o := store.Outcome{Confidence: c.Confidence, Notes: c.Notes}
		if c.ID == "" || c.ID == NotFound {
			o.Failure = json.RawMessage(`"` + NotFound + `"`)
		} else {
			o.Result = c.ID
		}
		t[id] = o
	}
	return t
}
