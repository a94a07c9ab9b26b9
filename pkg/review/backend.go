package review

import "context"

// Section names one of the two detail panes.
type Section string

// Detail sections, one per catalog.
const (
	SectionChromestatus Section = "chromestatus"
	SectionWebFeatures  Section = "web-features"
)

// Sections lists the detail sections in display order.
var Sections = []Section{SectionChromestatus, SectionWebFeatures}

// Detail is the content of one detail section. Backends either return
// pre-rendered Markup or the structured fields for the view to lay out.
type Detail struct {
	Markup  string
	Name    string
	Summary string
	Links   []string
}

// IsMarkup reports whether the detail was delivered pre-rendered.
func (d Detail) IsMarkup() bool {
	return d.Markup != ""
}

// Backend is the remote side of a review session.
type Backend interface {
	// Queue returns the full review queue in backend order.
	Queue(ctx context.Context) ([]Mapping, error)
	// Detail returns the content of one section for the given identifier.
	Detail(ctx context.Context, section Section, id string) (Detail, error)
	// Save persists the full record. Only success or failure matters.
	Save(ctx context.Context, m Mapping) error
}

// View renders controller state. Calls are made from the controller loop only.
type View interface {
	Section(section Section, detail Detail)
	SectionError(section Section)
	Meta(confidence, notes string)
	Progress(text string)
	Complete(total int)
}
