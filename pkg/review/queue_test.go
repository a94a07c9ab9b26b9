package review

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queueOf(statuses ...Status) []Mapping {
	q := make([]Mapping, len(statuses))
	for i, s := range statuses {
		q[i] = Mapping{ChromestatusID: IntID(int64(i)), ReviewStatus: s}
	}
	return q
}

func TestNextPending(t *testing.T) {
	q := queueOf(StatusAccept, StatusPending, StatusReject, StatusPending)

	tests := []struct {
		name string
		from int
		want int
		ok   bool
	}{
		{"from before start", -1, 1, true},
		{"skips decided", 1, 3, true},
		{"from decided", 2, 3, true},
		{"exhausted", 3, 4, false},
		{"past end", 10, 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextPending(q, tt.from)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)

			again, okAgain := NextPending(q, tt.from)
			assert.Equal(t, got, again)
			assert.Equal(t, ok, okAgain)
		})
	}
}

func TestNextPendingEmpty(t *testing.T) {
	got, ok := NextPending(nil, -1)
	assert.Equal(t, 0, got)
	assert.False(t, ok)
}

func TestProgress(t *testing.T) {
	assert.Equal(t, "Reviewing 2 of 3", Progress(queueOf(StatusAccept, StatusPending, StatusPending), 1))
	// completion depends on the whole queue, not the cursor
	assert.Equal(t, "Reviewing 1 of 2", Progress(queueOf(StatusAccept, StatusPending), 0))
	assert.Equal(t, "Reviewed all 2 🎉", Progress(queueOf(StatusAccept, StatusReject), 0))
	assert.Equal(t, "Reviewed all 2 🎉", Progress(queueOf(StatusAccept, StatusReject), 2))
}

func TestCount(t *testing.T) {
	c := Count(queueOf(StatusAccept, StatusPending, StatusReject, StatusAccept))
	assert.Equal(t, Counts{Total: 4, Pending: 1, Accepted: 2, Rejected: 1}, c)
}

func TestMappingJSON(t *testing.T) {
	in := `[{"chromestatus_id":5087,"web_features_id":"grid","confidence":"high","notes":"","review_status":"pending"},` +
		`{"chromestatus_id":"abc","web_features_id":"flexbox","confidence":0.8,"notes":"x","review_status":"accept"}]`

	var q []Mapping
	require.NoError(t, json.Unmarshal([]byte(in), &q))
	require.Len(t, q, 2)

	assert.Equal(t, IntID(5087), q[0].ChromestatusID)
	assert.Equal(t, "5087", q[0].ChromestatusID.String())
	assert.Equal(t, StringID("abc"), q[1].ChromestatusID)
	assert.Equal(t, "high", q[0].Confidence.String())
	assert.Equal(t, "0.8", q[1].Confidence.String())
	assert.Equal(t, NotesPlaceholder, q[0].DisplayNotes())
	assert.Equal(t, "x", q[1].DisplayNotes())

	out, err := json.Marshal(q)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestIDRejectsObjects(t *testing.T) {
	var id ID
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &id))
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("reject")
	require.NoError(t, err)
	assert.Equal(t, StatusReject, s)
	assert.True(t, s.Decided())

	_, err = ParseStatus("maybe")
	assert.Error(t, err)
}
