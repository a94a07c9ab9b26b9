// Package catalogs loads the two catalog snapshots a review session works
// against: chromestatus entries and web-features features.
package catalogs

import (
	"encoding/json"
	"slices"
	"strconv"

	"github.com/agentstation/mapreview/internal/utils/jsonfile"
	"github.com/agentstation/mapreview/pkg/errors"
)

// Catalog names a catalog.
type Catalog string

// Catalogs known to mapreview. The names double as URL path segments.
const (
	Chromestatus Catalog = "chromestatus"
	WebFeatures  Catalog = "web-features"
)

func (c Catalog) String() string {
	return string(c)
}

// ParseCatalog converts a path segment to a Catalog.
func ParseCatalog(s string) (Catalog, error) {
	switch c := Catalog(s); c {
	case Chromestatus, WebFeatures:
		return c, nil
	}
	return "", errors.NewValidationError("catalog", s, "must be chromestatus or web-features")
}

// Entry is one chromestatus feature entry. Raw holds the entry exactly as
// it appears in the snapshot.
type Entry struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Summary    string `json:"summary"`
	WebFeature string `json:"web_feature"`
	Updated    struct {
		When string `json:"when"`
	} `json:"updated"`
	Standards struct {
		Spec string `json:"spec"`
	} `json:"standards"`

	Raw json.RawMessage `json:"-"`
}

// Key is the entry id as used in URLs and mapping files.
func (e Entry) Key() string {
	return strconv.FormatInt(e.ID, 10)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Entry) UnmarshalJSON(data []byte) error {
	type plain Entry
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = Entry(p)
	e.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON implements json.Marshaler, writing Raw back when present.
func (e Entry) MarshalJSON() ([]byte, error) {
	if len(e.Raw) > 0 {
		return e.Raw, nil
	}
	type plain Entry
	return json.Marshal(plain(e))
}

// Feature is one web-features feature.
type Feature struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	DescriptionHTML string          `json:"description_html"`
	Spec            json.RawMessage `json:"spec"`
	CompatFeatures  []string        `json:"compat_features"`
	Kind            string          `json:"kind"`

	Raw json.RawMessage `json:"-"`
}

// SpecLinks returns the spec URLs, which the data set stores as a string or a list.
func (f Feature) SpecLinks() []string {
	if len(f.Spec) == 0 {
		return nil
	}
	var one string
	if err := json.Unmarshal(f.Spec, &one); err == nil {
		if one == "" {
			return nil
		}
		return []string{one}
	}
	var many []string
	if err := json.Unmarshal(f.Spec, &many); err == nil {
		return many
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Feature) UnmarshalJSON(data []byte) error {
	type plain Feature
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*f = Feature(p)
	f.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON implements json.Marshaler, writing Raw back when present.
func (f Feature) MarshalJSON() ([]byte, error) {
	if len(f.Raw) > 0 {
		return f.Raw, nil
	}
	type plain Feature
	return json.Marshal(plain(f))
}

// WebFeaturesData is the top level of a web-features data file.
type WebFeaturesData struct {
	Features map[string]Feature `json:"features"`
}

// Catalogs holds both snapshots indexed by string id.
type Catalogs struct {
	entries  map[string]Entry
	features map[string]Feature
}

// New indexes already decoded snapshots.
func New(entries []Entry, features map[string]Feature) *Catalogs {
	c := &Catalogs{
		entries:  make(map[string]Entry, len(entries)),
		features: features,
	}
	if c.features == nil {
		c.features = map[string]Feature{}
	}
	for _, e := range entries {
		c.entries[e.Key()] = e
	}
	return c
}

// Load reads the chromestatus snapshot (a JSON array) and the web-features
// snapshot (an object with a features map).
func Load(chromestatusPath, webFeaturesPath string) (*Catalogs, error) {
	var entries []Entry
	if err := jsonfile.Read(chromestatusPath, &entries); err != nil {
		return nil, err
	}
	var data WebFeaturesData
	if err := jsonfile.Read(webFeaturesPath, &data); err != nil {
		return nil, err
	}
	if data.Features == nil {
		return nil, errors.NewParseError("json", webFeaturesPath, "missing features object", nil)
	}
	return New(entries, data.Features), nil
}

// Entry looks up a chromestatus entry.
func (c *Catalogs) Entry(id string) (Entry, bool) {
	e, ok := c.entries[id]
	return e, ok
}

// Feature looks up a web-features feature.
func (c *Catalogs) Feature(id string) (Feature, bool) {
	f, ok := c.features[id]
	return f, ok
}

// HasFeature reports whether id is a known web-features id.
func (c *Catalogs) HasFeature(id string) bool {
	_, ok := c.features[id]
	return ok
}

// Entries returns all chromestatus entries sorted by id.
func (c *Catalogs) Entries() []Entry {
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b Entry) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

// Features returns the web-features map.
func (c *Catalogs) Features() map[string]Feature {
	return c.features
}

// Size returns the number of entries and features.
func (c *Catalogs) Size() (entries, features int) {
	return len(c.entries), len(c.features)
}
