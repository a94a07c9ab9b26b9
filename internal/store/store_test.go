package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/mapreview/internal/catalogs"
	"github.com/agentstation/mapreview/pkg/errors"
	"github.com/agentstation/mapreview/pkg/logging"
	"github.com/agentstation/mapreview/pkg/review"
)

func testCatalogs(t *testing.T) *catalogs.Catalogs {
	t.Helper()
	var entries []catalogs.Entry
	require.NoError(t, json.Unmarshal([]byte(`[
  {"id": 1, "name": "old", "web_feature": "", "updated": {"when": "2023-01-01"}},
  {"id": 2, "name": "new", "web_feature": "", "updated": {"when": "2024-06-01"}},
  {"id": 3, "name": "mapped", "web_feature": "grid", "updated": {"when": "2024-07-01"}},
  {"id": 4, "name": "stale mapping", "web_feature": "gone", "updated": {"when": "2024-02-01"}},
  {"id": 5, "name": "bad result", "web_feature": "", "updated": {"when": "2024-08-01"}}
]`), &entries))
	return catalogs.New(entries, map[string]catalogs.Feature{
		"grid":    {Name: "Grid"},
		"popover": {Name: "Popover"},
	})
}

func testTentative(t *testing.T) Tentative {
	t.Helper()
	var tentative Tentative
	require.NoError(t, json.Unmarshal([]byte(`{
  "1": {"result": "popover", "confidence": 60, "notes": "maybe"},
  "2": {"result": "grid", "confidence": 90},
  "3": {"result": "popover", "confidence": 80},
  "4": {"result": "grid", "confidence": 70},
  "5": {"result": "nope", "confidence": 10},
  "6": {"result": "grid", "confidence": 50},
  "7": {"failure": "NOT_FOUND"}
}`), &tentative))
	return tentative
}

func TestBuildQueue(t *testing.T) {
	queue, err := BuildQueue(testTentative(t), testCatalogs(t))
	require.NoError(t, err)

	var ids []string
	for _, m := range queue {
		ids = append(ids, m.ChromestatusID.String())
		assert.Equal(t, review.StatusPending, m.ReviewStatus)
	}
	// 3 is already mapped, 5 proposes an unknown feature, 6 is not in
	// chromestatus and 7 failed
	assert.Equal(t, []string{"2", "4", "1"}, ids)

	assert.Equal(t, "grid", queue[0].WebFeaturesID)
	assert.Equal(t, "90", queue[0].Confidence.String())
	assert.Equal(t, "maybe", queue[2].Notes)

	out, err := json.Marshal(queue[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"chromestatus_id":"2","web_features_id":"grid","confidence":90,"notes":"","review_status":"pending"}`, string(out))
}

func TestBuildQueueMalformed(t *testing.T) {
	_, err := BuildQueue(Tentative{"1": {}}, testCatalogs(t))
	assert.True(t, errors.IsValidationError(err))
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mapping-review.json")
	s, err := Open(path, func() ([]review.Mapping, error) {
		return BuildQueue(testTentative(t), testCatalogs(t))
	}, WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)
	return s
}

func TestOpenBuildsThenResumes(t *testing.T) {
	s := openTestStore(t)
	require.Len(t, s.Queue(), 3)
	assert.NoFileExists(t, s.Path())

	updated, err := s.Update(review.Mapping{
		ChromestatusID: review.StringID("4"),
		WebFeaturesID:  "grid",
		ReviewStatus:   review.StatusReject,
	})
	require.NoError(t, err)
	assert.Equal(t, review.StatusReject, updated.ReviewStatus)
	assert.Equal(t, "70", updated.Confidence.String())
	require.FileExists(t, s.Path())

	resumed, err := Open(s.Path(), func() ([]review.Mapping, error) {
		t.Fatal("builder must not run when the review file exists")
		return nil, nil
	}, WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)
	assert.Equal(t, s.Queue(), resumed.Queue())
	assert.Equal(t, review.Counts{Total: 3, Pending: 2, Rejected: 1}, resumed.Counts())
}

func TestUpdateMatchesNumericIDs(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Update(review.Mapping{
		ChromestatusID: review.IntID(2),
		WebFeaturesID:  "grid",
		ReviewStatus:   review.StatusAccept,
	})
	require.NoError(t, err)
	assert.Equal(t, review.StatusAccept, s.Queue()[0].ReviewStatus)
}

func TestUpdateErrors(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		name     string
		m        review.Mapping
		notFound bool
	}{
		{"missing ids", review.Mapping{ReviewStatus: review.StatusAccept}, false},
		{"missing status", review.Mapping{ChromestatusID: review.StringID("2"), WebFeaturesID: "grid"}, false},
		{"pending status", review.Mapping{ChromestatusID: review.StringID("2"), WebFeaturesID: "grid", ReviewStatus: review.StatusPending}, false},
		{"unknown status", review.Mapping{ChromestatusID: review.StringID("2"), WebFeaturesID: "grid", ReviewStatus: "maybe"}, false},
		{"wrong feature", review.Mapping{ChromestatusID: review.StringID("2"), WebFeaturesID: "popover", ReviewStatus: review.StatusAccept}, true},
		{"unknown entry", review.Mapping{ChromestatusID: review.StringID("99"), WebFeaturesID: "grid", ReviewStatus: review.StatusAccept}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Update(tt.m)
			require.Error(t, err)
			assert.Equal(t, tt.notFound, errors.IsNotFound(err))
			assert.Equal(t, !tt.notFound, errors.IsValidationError(err))
		})
	}
	assert.NoFileExists(t, s.Path())
}

func TestUpdateRollsBackOnWriteFailure(t *testing.T) {
	s := openTestStore(t)
	// a directory in place of the review file makes the rename fail
	require.NoError(t, os.MkdirAll(filepath.Join(s.Path(), "blocker"), 0o755))

	_, err := s.Update(review.Mapping{
		ChromestatusID: review.StringID("2"),
		WebFeaturesID:  "grid",
		ReviewStatus:   review.StatusAccept,
	})
	require.Error(t, err)
	assert.Equal(t, review.StatusPending, s.Queue()[0].ReviewStatus)
}

func TestOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping-review.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := Open(path, nil)
	var parseErr *errors.ParseError
	assert.ErrorAs(t, err, &parseErr)
}
