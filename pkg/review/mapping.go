// Package review implements the review queue: the mapping records proposed
// between the chromestatus and web-features catalogs, and the Controller that
// walks a reviewer through them.
//
// The Controller owns the queue and the cursor. All of its state is touched
// from a single goroutine (Run); detail fetches and saves run detached and
// report back through that loop.
package review

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/agentstation/mapreview/pkg/errors"
)

// Status is the review decision recorded for a mapping.
type Status string

// Review statuses. A mapping starts pending and only moves to accept or
// reject through a reviewer action.
const (
	StatusPending Status = "pending"
	StatusAccept  Status = "accept"
	StatusReject  Status = "reject"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccept, StatusReject:
		return true
	}
	return false
}

// Decided reports whether a decision has been recorded.
func (s Status) Decided() bool {
	return s == StatusAccept || s == StatusReject
}

// ParseStatus converts a string to a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", errors.NewValidationError("review_status", s, "must be pending, accept or reject")
	}
	return st, nil
}

// ID is an opaque catalog identifier that may arrive as a JSON string or a
// JSON integer. It re-encodes in the form it was decoded from.
type ID struct {
	raw     string
	numeric bool
}

// StringID returns an ID that encodes as a JSON string.
func StringID(s string) ID {
	return ID{raw: s}
}

// IntID returns an ID that encodes as a JSON number.
func IntID(n int64) ID {
	return ID{raw: strconv.FormatInt(n, 10), numeric: true}
}

// String returns the identifier as used in URLs.
func (id ID) String() string {
	return id.raw
}

// IsZero reports whether the ID is empty.
func (id ID) IsZero() bool {
	return id.raw == ""
}

// MarshalJSON implements json.Marshaler.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.raw), nil
	}
	return json.Marshal(id.raw)
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ID{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = StringID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier must be a string or number: %w", err)
	}
	*id = ID{raw: n.String(), numeric: true}
	return nil
}

// Confidence is the precomputed score or label of a mapping. It is display
// only and round-trips verbatim.
type Confidence struct {
	raw json.RawMessage
}

// NewConfidence wraps any JSON-encodable value.
func NewConfidence(v any) Confidence {
	data, err := json.Marshal(v)
	if err != nil {
		return Confidence{}
	}
	return Confidence{raw: data}
}

// String returns the display text: strings unquoted, everything else as written.
func (c Confidence) String() string {
	if len(c.raw) == 0 || bytes.Equal(c.raw, []byte("null")) {
		return ""
	}
	if c.raw[0] == '"' {
		var s string
		if err := json.Unmarshal(c.raw, &s); err == nil {
			return s
		}
	}
	return string(c.raw)
}

// MarshalJSON implements json.Marshaler.
func (c Confidence) MarshalJSON() ([]byte, error) {
	if len(c.raw) == 0 {
		return []byte("null"), nil
	}
	return c.raw, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Confidence) UnmarshalJSON(data []byte) error {
	c.raw = append(c.raw[:0:0], data...)
	return nil
}

// NotesPlaceholder is displayed when a mapping has no notes.
const NotesPlaceholder = "N/A"

// Mapping is one candidate correspondence between a chromestatus entry and a
// web-features feature.
type Mapping struct {
	ChromestatusID ID         `json:"chromestatus_id"`
	WebFeaturesID  string     `json:"web_features_id"`
	Confidence     Confidence `json:"confidence"`
	Notes          string     `json:"notes"`
	ReviewStatus   Status     `json:"review_status"`
}

// DisplayNotes returns the notes, or the placeholder when there are none.
func (m Mapping) DisplayNotes() string {
	if m.Notes == "" {
		return NotesPlaceholder
	}
	return m.Notes
}

// Key identifies a mapping within a queue.
func (m Mapping) Key() string {
	return m.ChromestatusID.String() + "/" + m.WebFeaturesID
}
