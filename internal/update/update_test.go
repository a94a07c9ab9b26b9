package update

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/mapreview/internal/catalogs"
	"github.com/agentstation/mapreview/internal/transport"
	"github.com/agentstation/mapreview/pkg/errors"
	"github.com/agentstation/mapreview/pkg/logging"
)

// upstream fakes chromestatus with pages of two, where entry 3 shows up on
// both pages, and a GitHub release with a data.json asset.
func upstream(t *testing.T, auth chan<- string) *httptest.Server {
	t.Helper()
	pages := map[int]string{
		0: `{"features":[{"id":4,"name":"d"},{"id":3,"name":"c","extra":true}]}`,
		2: `{"features":[{"id":3,"name":"c","extra":true},{"id":1,"name":"a"}]}`,
		4: `{"features":[]}`,
	}

	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/features", func(w http.ResponseWriter, r *http.Request) {
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		assert.Equal(t, "2", r.URL.Query().Get("num"))
		_, _ = io.WriteString(w, ")]}'\n"+pages[start])
	})
	mux.HandleFunc("/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		if auth != nil {
			auth <- r.Header.Get("Authorization")
		}
		_, _ = fmt.Fprintf(w, `{"tag_name":"v2.40.0","assets":[{"name":"schemas.json","browser_download_url":"%[1]s/nope"},{"name":"data.json","browser_download_url":"%[1]s/download/data.json"}]}`, srv.URL)
	})
	mux.HandleFunc("/download/data.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"browsers":{},"features":{"grid":{"name":"Grid"},"popover":{"name":"Popover","spec":["https://a.example"]}}}`)
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRun(t *testing.T) {
	auth := make(chan string, 1)
	srv := upstream(t, auth)
	dir := t.TempDir()

	res, err := Run(context.Background(), Options{
		ChromestatusPath: filepath.Join(dir, "chromestatus.json"),
		WebFeaturesPath:  filepath.Join(dir, "web-features.json"),
		ChromestatusURL:  srv.URL + "/features",
		ReleaseURL:       srv.URL + "/releases/latest",
		PageSize:         2,
		GitHubToken:      "gh-token",
		Logger:           logging.NewNopLogger(),
	})
	require.NoError(t, err)
	assert.Equal(t, Result{Entries: 3, Features: 2, Release: "v2.40.0"}, res)
	assert.Equal(t, "Bearer gh-token", <-auth)

	cats, err := catalogs.Load(filepath.Join(dir, "chromestatus.json"), filepath.Join(dir, "web-features.json"))
	require.NoError(t, err)

	var ids []int64
	for _, e := range cats.Entries() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []int64{1, 3, 4}, ids)

	e, ok := cats.Entry("3")
	require.True(t, ok)
	assert.Contains(t, string(e.Raw), `"extra"`, "entries are stored whole")

	f, ok := cats.Feature("popover")
	require.True(t, ok)
	assert.Equal(t, []string{"https://a.example"}, f.SpecLinks())
}

func TestFetchChromestatusRequiresPrefix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"features":[]}`)
	}))
	defer srv.Close()

	_, err := FetchChromestatus(context.Background(), transport.New(), srv.URL, 500, logging.NewNopLogger())
	var parseErr *errors.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestFetchChromestatusHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := FetchChromestatus(context.Background(), transport.New(), srv.URL, 500, logging.NewNopLogger())
	assert.True(t, errors.IsUnavailable(err))
}

func TestFetchWebFeaturesMissingAsset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"tag_name":"v1.0.0","assets":[]}`)
	}))
	defer srv.Close()

	_, tag, err := FetchWebFeatures(context.Background(), transport.New(), srv.URL, logging.NewNopLogger())
	assert.Equal(t, "v1.0.0", tag)
	assert.True(t, errors.IsNotFound(err))
}

func TestRunFailsWithoutWriting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	dir := t.TempDir()

	_, err := Run(context.Background(), Options{
		ChromestatusPath: filepath.Join(dir, "chromestatus.json"),
		WebFeaturesPath:  filepath.Join(dir, "web-features.json"),
		ChromestatusURL:  srv.URL,
		ReleaseURL:       srv.URL,
		Logger:           logging.NewNopLogger(),
	})
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "chromestatus.json"))
	assert.NoFileExists(t, filepath.Join(dir, "web-features.json"))
}
