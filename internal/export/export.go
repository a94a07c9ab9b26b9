// Package export writes the accepted mappings of a review as CSV for the
// chromestatus.com bulk import tool.
package export

import (
	"bytes"
	"cmp"
	"encoding/csv"
	"io"
	"slices"

	"github.com/agentstation/mapreview/internal/utils/jsonfile"
	"github.com/agentstation/mapreview/pkg/errors"
	"github.com/agentstation/mapreview/pkg/review"
)

// Header is the CSV header row.
var Header = []string{"Chrome Status Entry", "Feature ID"}

// Row is one exported mapping.
type Row struct {
	ChromestatusID string `json:"chromestatus_id" yaml:"chromestatus_id"`
	WebFeaturesID  string `json:"web_features_id" yaml:"web_features_id"`
}

// Accepted returns the accepted mappings ordered by web-features id, so the
// import can be skimmed feature by feature.
func Accepted(queue []review.Mapping) []Row {
	var rows []Row
	for _, m := range queue {
		if m.ReviewStatus == review.StatusAccept {
			rows = append(rows, Row{ChromestatusID: m.ChromestatusID.String(), WebFeaturesID: m.WebFeaturesID})
		}
	}
	slices.SortStableFunc(rows, func(a, b Row) int {
		return cmp.Compare(a.WebFeaturesID, b.WebFeaturesID)
	})
	return rows
}

// WriteCSV writes the header and rows.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.ChromestatusID, r.WebFeaturesID}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// File exports the review file at reviewPath to csvPath. No file is
// written when nothing was accepted. It returns the exported rows.
func File(reviewPath, csvPath string) ([]Row, error) {
	var queue []review.Mapping
	if err := jsonfile.Read(reviewPath, &queue); err != nil {
		return nil, err
	}
	rows := Accepted(queue)
	if len(rows) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		return nil, errors.WrapIO("encode", csvPath, err)
	}
	if err := jsonfile.WriteBytes(csvPath, buf.Bytes()); err != nil {
		return nil, err
	}
	return rows, nil
}
