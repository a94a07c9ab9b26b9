package server

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/mapreview/internal/catalogs"
	"github.com/agentstation/mapreview/internal/store"
	"github.com/agentstation/mapreview/pkg/logging"
	"github.com/agentstation/mapreview/pkg/review"
)

type fixture struct {
	srv        *Server
	http       *httptest.Server
	reviewPath string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	var entries []catalogs.Entry
	require.NoError(t, json.Unmarshal([]byte(`[
  {"id": 10, "name": "CSS Grid", "summary": "Two-dimensional layout", "web_feature": "",
   "updated": {"when": "2024-01-01"}, "standards": {"spec": "https://drafts.csswg.org/css-grid/"}, "extra": 1},
  {"id": 20, "name": "Popover", "summary": "Top layer <popover>", "web_feature": "",
   "updated": {"when": "2024-05-01"}}
]`), &entries))
	var features map[string]catalogs.Feature
	require.NoError(t, json.Unmarshal([]byte(`{
  "grid": {"name": "Grid", "description": "CSS grid layout", "spec": "https://drafts.csswg.org/css-grid/"},
  "popover": {"name": "Popover", "description": "Shows content on top", "spec": ["https://a.example", "https://b.example"]}
}`), &features))
	cats := catalogs.New(entries, features)

	reviewPath := filepath.Join(t.TempDir(), "mapping-review.json")
	st, err := store.Open(reviewPath, func() ([]review.Mapping, error) {
		return []review.Mapping{
			{ChromestatusID: review.StringID("20"), WebFeaturesID: "popover", Confidence: review.NewConfidence("high"), ReviewStatus: review.StatusPending},
			{ChromestatusID: review.StringID("10"), WebFeaturesID: "grid", Confidence: review.NewConfidence("medium"), ReviewStatus: review.StatusPending},
		}, nil
	}, store.WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	srv, err := New(st, cats, DefaultConfig(), logging.NewNopLogger())
	require.NoError(t, err)
	srv.Start()

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = srv.Shutdown(context.Background())
	})
	return &fixture{srv: srv, http: ts, reviewPath: reviewPath}
}

func (f *fixture) get(t *testing.T, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(f.http.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func (f *fixture) save(t *testing.T, body string) (int, string) {
	t.Helper()
	resp, err := http.Post(f.http.URL+"/api/save", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestNewRequiresStore(t *testing.T) {
	_, err := New(nil, nil, DefaultConfig(), nil)
	assert.Error(t, err)
}

func TestQueue(t *testing.T) {
	f := newFixture(t)

	code, body := f.get(t, "/api/queue")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[
  {"chromestatus_id":"20","web_features_id":"popover","confidence":"high","notes":"","review_status":"pending"},
  {"chromestatus_id":"10","web_features_id":"grid","confidence":"medium","notes":"","review_status":"pending"}
]`, body)
}

func TestSave(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body string
		code int
		want string
	}{
		{"not json", `{`, http.StatusBadRequest, `{"error":"Invalid data","code":"BAD_REQUEST"}`},
		{"missing status", `{"chromestatus_id":"20","web_features_id":"popover"}`, http.StatusBadRequest, `{"error":"Invalid data","code":"BAD_REQUEST"}`},
		{"unknown record", `{"chromestatus_id":"20","web_features_id":"grid","review_status":"accept"}`, http.StatusBadRequest, `{"error":"Item not found in review queue","code":"BAD_REQUEST"}`},
		{"accept", `{"chromestatus_id":"20","web_features_id":"popover","confidence":"high","notes":"","review_status":"accept"}`, http.StatusOK, `{"success":true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := f.save(t, tt.body)
			assert.Equal(t, tt.code, code)
			assert.JSONEq(t, tt.want, body)
		})
	}

	var persisted []review.Mapping
	raw, err := os.ReadFile(f.reviewPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &persisted))
	require.Len(t, persisted, 2)
	assert.Equal(t, review.StatusAccept, persisted[0].ReviewStatus)
	assert.Equal(t, review.StatusPending, persisted[1].ReviewStatus)
}

func TestSaveRejectsGet(t *testing.T) {
	f := newFixture(t)
	code, body := f.get(t, "/api/save")
	assert.Equal(t, http.StatusMethodNotAllowed, code)
	assert.Contains(t, body, "METHOD_NOT_ALLOWED")

	code, _ = f.get(t, "/api/unknown")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDetails(t *testing.T) {
	f := newFixture(t)

	code, body := f.get(t, "/api/chromestatus/10")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"extra":1`, "entries are served as stored")

	code, body = f.get(t, "/api/chromestatus/99")
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"error":"Entry not found: 99","code":"NOT_FOUND"}`, body)

	code, body = f.get(t, "/api/web-features/popover")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"Shows content on top"`)

	code, body = f.get(t, "/api/web-features/nope")
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"error":"Feature not found: nope","code":"NOT_FOUND"}`, body)
}

func TestFragments(t *testing.T) {
	f := newFixture(t)

	code, body := f.get(t, "/fragment/chromestatus/20")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `<a href="https://chromestatus.com/feature/20">Popover</a>`)
	assert.Contains(t, body, "Top layer &lt;popover&gt;")

	code, body = f.get(t, "/fragment/web-features/popover")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `<code>popover</code>`)
	assert.Contains(t, body, `<a href="https://b.example">`)

	_, _ = f.get(t, "/fragment/web-features/popover")
	stats := f.srv.Cache().GetStats()
	assert.Equal(t, 2, stats.ItemCount)
	assert.Equal(t, int64(1), stats.Hits)

	code, _ = f.get(t, "/fragment/web-features/nope")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = f.get(t, "/fragment/bugzilla/1")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHealthAndStats(t *testing.T) {
	f := newFixture(t)

	code, body := f.get(t, "/health")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"status":"healthy"`)
	assert.Contains(t, body, `"queue_total":2`)

	code, _ = f.save(t, `{"chromestatus_id":"10","web_features_id":"grid","review_status":"reject"}`)
	require.Equal(t, http.StatusOK, code)

	code, body = f.get(t, "/api/stats")
	require.Equal(t, http.StatusOK, code)
	var stats struct {
		Counts review.Counts `json:"counts"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &stats))
	assert.Equal(t, review.Counts{Total: 2, Pending: 1, Rejected: 1}, stats.Counts)
}

func TestRequestIDHeader(t *testing.T) {
	f := newFixture(t)
	resp, err := http.Get(f.http.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestSSEStreamsSavedReviews(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.http.URL+"/api/updates/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string, 64)
	go func() {
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()
	waitForLine(t, lines, "event: connected")

	require.Eventually(t, func() bool {
		return f.srv.sseBroadcaster.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	code, _ := f.save(t, `{"chromestatus_id":"20","web_features_id":"popover","review_status":"accept"}`)
	require.Equal(t, http.StatusOK, code)
	waitForLine(t, lines, "event: review.saved")
}

func TestWebSocketReceivesCompletion(t *testing.T) {
	f := newFixture(t)

	url := "ws" + strings.TrimPrefix(f.http.URL, "http") + "/api/updates/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return f.srv.wsHub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	for _, body := range []string{
		`{"chromestatus_id":"20","web_features_id":"popover","review_status":"accept"}`,
		`{"chromestatus_id":"10","web_features_id":"grid","review_status":"reject"}`,
	} {
		code, _ := f.save(t, body)
		require.Equal(t, http.StatusOK, code)
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var msg struct {
			Type string `json:"type"`
		}
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == "queue.completed" {
			return
		}
	}
}

func waitForLine(t *testing.T, lines <-chan string, want string) {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case line, ok := <-lines:
			require.True(t, ok, "stream closed before %q", want)
			if line == want {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}
