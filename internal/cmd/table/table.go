// Package table converts review data into rows for the CLI table formatter.
package table

import (
	"strconv"

	"github.com/agentstation/mapreview/internal/cmd/emoji"
	"github.com/agentstation/mapreview/internal/export"
	"github.com/agentstation/mapreview/pkg/review"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents data formatted for table output.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// CountsToTableData renders queue counts as a status table.
func CountsToTableData(c review.Counts) Data {
	done := c.Accepted + c.Rejected
	state := emoji.Pending + " in progress"
	if c.Pending == 0 {
		state = emoji.Success + " complete"
	}
	return Data{
		Headers: []string{"Total", "Pending", "Accepted", "Rejected", "Reviewed", "State"},
		Rows: [][]string{{
			strconv.Itoa(c.Total),
			strconv.Itoa(c.Pending),
			strconv.Itoa(c.Accepted),
			strconv.Itoa(c.Rejected),
			percent(done, c.Total),
			state,
		}},
		ColumnAlignment: []Align{AlignRight, AlignRight, AlignRight, AlignRight, AlignRight, AlignLeft},
	}
}

// QueueToTableData lists queue records, optionally only those with status.
func QueueToTableData(queue []review.Mapping, status review.Status) Data {
	rows := make([][]string, 0, len(queue))
	for _, m := range queue {
		if status != "" && m.ReviewStatus != status {
			continue
		}
		rows = append(rows, []string{
			m.ChromestatusID.String(),
			m.WebFeaturesID,
			m.Confidence.String(),
			string(m.ReviewStatus),
			truncate(m.DisplayNotes(), 60),
		})
	}
	return Data{
		Headers: []string{"Chrome Status", "Feature ID", "Confidence", "Status", "Notes"},
		Rows:    rows,
	}
}

// ExportToTableData lists exported rows.
func ExportToTableData(rows []export.Row) Data {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{r.ChromestatusID, r.WebFeaturesID}
	}
	return Data{Headers: export.Header, Rows: out}
}

func percent(n, total int) string {
	if total == 0 {
		return "-"
	}
	return strconv.Itoa(n*100/total) + "%"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
