package serve

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/mapreview/cmd/application"
	"github.com/agentstation/mapreview/internal/config"
	"github.com/agentstation/mapreview/pkg/logging"
	"github.com/agentstation/mapreview/pkg/review"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestOpenBuildsQueueFromTentative(t *testing.T) {
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	writeFile(t, cfg.DataDir, cfg.ChromestatusFile,
		`[{"id":10,"name":"Grid","summary":"Layout"},{"id":20,"name":"Popover","summary":"Top layer"}]`)
	writeFile(t, cfg.DataDir, cfg.WebFeaturesFile,
		`{"features":{"grid":{"name":"Grid","description":"2D layout"},"popover":{"name":"Popover","description":"Popovers"}}}`)
	writeFile(t, cfg.DataDir, cfg.TentativeFile,
		`{"10":{"result":"grid","confidence":"high"},"20":{"failure":"NOT_FOUND","confidence":"low"}}`)

	cats, st, err := Open(cfg, logging.NewNopLogger())
	require.NoError(t, err)

	entries, features := cats.Size()
	assert.Equal(t, 2, entries)
	assert.Equal(t, 2, features)

	queue := st.Queue()
	require.Len(t, queue, 1)
	assert.Equal(t, "10", queue[0].ChromestatusID.String())
	assert.Equal(t, "grid", queue[0].WebFeaturesID)
	assert.Equal(t, review.StatusPending, queue[0].ReviewStatus)
	assert.Equal(t, filepath.Join(cfg.DataDir, cfg.ReviewFile), st.Path())
}

func TestOpenMissingCatalog(t *testing.T) {
	cfg := config.Default()
	cfg.DataDir = t.TempDir()

	_, _, err := Open(cfg, logging.NewNopLogger())
	assert.Error(t, err)
}

func TestParseConfig(t *testing.T) {
	cmd := NewCommand(&application.Mock{})
	require.NoError(t, cmd.ParseFlags([]string{"--port", "7000", "--cache-ttl", "1m", "--cors-origins", "https://a.example,https://b.example"}))

	cfg := parseConfig(cmd)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.CORSEnabled)
}

func TestParseConfigEnvOverride(t *testing.T) {
	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("HTTP_HOST", "0.0.0.0")

	cmd := NewCommand(&application.Mock{})
	require.NoError(t, cmd.ParseFlags(nil))
	cfg := parseConfig(cmd)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "0.0.0.0", cfg.Host)

	// an explicit flag wins over the environment
	cmd = NewCommand(&application.Mock{})
	require.NoError(t, cmd.ParseFlags([]string{"--port", "7000"}))
	assert.Equal(t, 7000, parseConfig(cmd).Port)
}

func TestParsePort(t *testing.T) {
	p, err := parsePort("8080")
	require.NoError(t, err)
	assert.Equal(t, 8080, p)

	_, err = parsePort("http")
	assert.Error(t, err)
	_, err = parsePort("70000")
	assert.Error(t, err)
}
