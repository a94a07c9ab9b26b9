package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/mapreview/internal/utils/jsonfile"
	"github.com/agentstation/mapreview/pkg/review"
)

func testQueue() []review.Mapping {
	return []review.Mapping{
		{ChromestatusID: review.StringID("30"), WebFeaturesID: "popover", ReviewStatus: review.StatusAccept},
		{ChromestatusID: review.StringID("10"), WebFeaturesID: "grid", ReviewStatus: review.StatusReject},
		{ChromestatusID: review.IntID(20), WebFeaturesID: "anchor-positioning", ReviewStatus: review.StatusAccept},
		{ChromestatusID: review.StringID("40"), WebFeaturesID: "grid", ReviewStatus: review.StatusPending},
		{ChromestatusID: review.StringID("50"), WebFeaturesID: "grid", ReviewStatus: review.StatusAccept},
	}
}

func TestAccepted(t *testing.T) {
	assert.Equal(t, []Row{
		{ChromestatusID: "20", WebFeaturesID: "anchor-positioning"},
		{ChromestatusID: "50", WebFeaturesID: "grid"},
		{ChromestatusID: "30", WebFeaturesID: "popover"},
	}, Accepted(testQueue()))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Accepted(testQueue())))
	assert.Equal(t, "Chrome Status Entry,Feature ID\n20,anchor-positioning\n50,grid\n30,popover\n", buf.String())
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	reviewPath := filepath.Join(dir, "mapping-review.json")
	csvPath := filepath.Join(dir, "mapping-export.csv")
	require.NoError(t, jsonfile.Write(reviewPath, testQueue()))

	rows, err := File(reviewPath, csvPath)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Chrome Status Entry,Feature ID\n")
}

func TestFileWithoutAcceptedRows(t *testing.T) {
	dir := t.TempDir()
	reviewPath := filepath.Join(dir, "mapping-review.json")
	csvPath := filepath.Join(dir, "mapping-export.csv")
	require.NoError(t, jsonfile.Write(reviewPath, []review.Mapping{
		{ChromestatusID: review.StringID("1"), WebFeaturesID: "grid", ReviewStatus: review.StatusReject},
	}))

	rows, err := File(reviewPath, csvPath)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NoFileExists(t, csvPath)
}

func TestFileMissingReview(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "missing.json"), "out.csv")
	assert.Error(t, err)
}
