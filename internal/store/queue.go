package store

import (
	"encoding/json"
	"slices"
	"strconv"

	"github.com/agentstation/mapreview/internal/catalogs"
	"github.com/agentstation/mapreview/internal/utils/jsonfile"
	"github.com/agentstation/mapreview/pkg/errors"
	"github.com/agentstation/mapreview/pkg/review"
)

// Outcome is one classification result in the tentative mapping file.
// Exactly one of Result or Failure is set.
type Outcome struct {
	Result     string            `json:"result,omitempty"`
	Failure    json.RawMessage   `json:"failure,omitempty"`
	Confidence review.Confidence `json:"confidence"`
	Notes      string            `json:"notes,omitempty"`
}

// Failed reports whether the classification failed for this entry.
func (o Outcome) Failed() bool {
	return len(o.Failure) > 0
}

// Tentative maps chromestatus ids to classification outcomes.
type Tentative map[string]Outcome

// LoadTentative reads a tentative mapping file.
func LoadTentative(path string) (Tentative, error) {
	var t Tentative
	if err := jsonfile.Read(path, &t); err != nil {
		return nil, err
	}
	return t, nil
}

// BuildQueue turns tentative outcomes into pending review records. An entry
// is kept only when the classification succeeded, the chromestatus entry
// exists, the entry is not already mapped to a known feature and the
// proposed feature is known. Records are ordered by the chromestatus
// update time, most recent first.
func BuildQueue(tentative Tentative, cats *catalogs.Catalogs) ([]review.Mapping, error) {
	ids := make([]string, 0, len(tentative))
	for id := range tentative {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, compareIDs)

	queue := make([]review.Mapping, 0, len(ids))
	updated := make(map[string]string, len(ids))
	for _, id := range ids {
		outcome := tentative[id]
		if outcome.Result == "" && !outcome.Failed() {
			return nil, errors.NewValidationError("tentative", id, "outcome has neither result nor failure")
		}
		if outcome.Failed() {
			continue
		}
		entry, ok := cats.Entry(id)
		if !ok {
			continue
		}
		if cats.HasFeature(entry.WebFeature) {
			continue
		}
		if !cats.HasFeature(outcome.Result) {
			continue
		}

		updated[id] = entry.Updated.When
		queue = append(queue, review.Mapping{
			ChromestatusID: review.StringID(id),
			WebFeaturesID:  outcome.Result,
			Confidence:     outcome.Confidence,
			Notes:          outcome.Notes,
			ReviewStatus:   review.StatusPending,
		})
	}

	slices.SortStableFunc(queue, func(a, b review.Mapping) int {
		wa, wb := updated[a.ChromestatusID.String()], updated[b.ChromestatusID.String()]
		switch {
		case wa > wb:
			return -1
		case wa < wb:
			return 1
		}
		return 0
	})
	return queue, nil
}

// compareIDs orders numeric ids numerically and anything else lexically.
func compareIDs(a, b string) int {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
