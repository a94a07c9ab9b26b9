package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/mapreview/internal/cmd/table"
	"github.com/agentstation/mapreview/pkg/review"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"YAML", FormatYAML, false},
		{"csv", FormatCSV, false},
		{"", "", false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("Yaml"))
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	data := table.CountsToTableData(review.Counts{Total: 4, Pending: 1, Accepted: 2, Rejected: 1})
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, data))

	out := buf.String()
	assert.Contains(t, strings.ToUpper(out), "PENDING")
	assert.Contains(t, out, "75%")
	assert.Contains(t, out, "in progress")
}

func TestToTableData(t *testing.T) {
	type result struct {
		Entries  int    `json:"entries"`
		Release  string `json:"release_tag,omitempty"`
		Internal string `json:"-"`
		Plain    bool
		hidden   int
	}

	got := ToTableData(result{Entries: 3, Release: "v2", Internal: "x", Plain: true, hidden: 1})
	require.NotNil(t, got)
	assert.Equal(t, []string{"Entries", "Release Tag", "Plain"}, got.Headers)
	assert.Equal(t, [][]string{{"3", "v2", "true"}}, got.Rows)

	got = ToTableData(&[]result{{Entries: 1}, {Entries: 2}})
	require.NotNil(t, got)
	assert.Equal(t, [][]string{{"1", "", "false"}, {"2", "", "false"}}, got.Rows)

	assert.Nil(t, ToTableData(42))
	assert.Nil(t, ToTableData(nil))
	assert.Nil(t, ToTableData([]string{"a"}))
}

func TestPrintValue(t *testing.T) {
	counts := review.Counts{Total: 3, Pending: 1, Accepted: 2}

	var csvOut bytes.Buffer
	require.NoError(t, PrintValue(&csvOut, FormatCSV, counts))
	assert.Equal(t, "Total,Pending,Accepted,Rejected\n3,1,2,0\n", csvOut.String())

	var tbl bytes.Buffer
	require.NoError(t, PrintValue(&tbl, FormatTable, counts))
	assert.Contains(t, strings.ToUpper(tbl.String()), "ACCEPTED")

	var js bytes.Buffer
	require.NoError(t, PrintValue(&js, FormatJSON, counts))
	assert.JSONEq(t, `{"total":3,"pending":1,"accepted":2,"rejected":0}`, js.String())

	// values without fields fall back to JSON
	var raw bytes.Buffer
	require.NoError(t, PrintValue(&raw, FormatTable, map[string]int{"a": 1}))
	assert.JSONEq(t, `{"a":1}`, raw.String())
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	data := table.Data{Headers: []string{"a", "b"}, Rows: [][]string{{"1", "x,y"}}}
	require.NoError(t, NewFormatter(FormatCSV).Format(&buf, data))
	assert.Equal(t, "a,b\n1,\"x,y\"\n", buf.String())
}

func TestPrintStructuredUsesRaw(t *testing.T) {
	counts := review.Counts{Total: 2, Pending: 0, Accepted: 1, Rejected: 1}

	var js bytes.Buffer
	require.NoError(t, Print(&js, FormatJSON, counts, table.CountsToTableData(counts)))
	assert.JSONEq(t, `{"total":2,"pending":0,"accepted":1,"rejected":1}`, js.String())

	var y bytes.Buffer
	require.NoError(t, Print(&y, FormatYAML, counts, table.CountsToTableData(counts)))
	assert.Contains(t, y.String(), "accepted: 1")
}
