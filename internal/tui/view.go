// Package tui is the terminal front end of a review session: a tcell
// rendering of review.View and the key loop that feeds the controller.
package tui

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/agentstation/mapreview/pkg/review"
)

var sectionTitles = map[review.Section]string{
	review.SectionChromestatus: "Chrome Status",
	review.SectionWebFeatures:  "web-features",
}

const helpText = " [y] Accept  [n] Reject  [←] Prev  [→] Next  [q] Quit "

// View renders review state onto a tcell screen. It is safe for use from
// the controller loop and the key loop at the same time.
type View struct {
	screen tcell.Screen

	mu         sync.Mutex
	sections   map[review.Section][]string
	confidence string
	notes      string
	progress   string
	complete   bool
	total      int
	paused     bool
}

var _ review.View = (*View)(nil)

// NewView creates a view drawing on screen.
func NewView(screen tcell.Screen) *View {
	return &View{
		screen:   screen,
		sections: make(map[review.Section][]string, len(review.Sections)),
		progress: "Loading…",
	}
}

// Section implements review.View.
func (v *View) Section(section review.Section, detail review.Detail) {
	v.update(func() { v.sections[section] = DetailLines(detail) })
}

// SectionError implements review.View.
func (v *View) SectionError(section review.Section) {
	v.update(func() { v.sections[section] = []string{"Error"} })
}

// Meta implements review.View.
func (v *View) Meta(confidence, notes string) {
	v.update(func() { v.confidence, v.notes = confidence, notes })
}

// Progress implements review.View.
func (v *View) Progress(text string) {
	v.update(func() { v.progress = text })
}

// Complete implements review.View.
func (v *View) Complete(total int) {
	v.update(func() {
		v.complete, v.total = true, total
		v.progress = review.CompletionText(total)
	})
}

func (v *View) update(fn func()) {
	v.mu.Lock()
	fn()
	v.mu.Unlock()
	v.Draw()
}

// Pause stops repainting until Resume. State changes are still recorded,
// so a controller can be initialised before the screen is.
func (v *View) Pause() {
	v.mu.Lock()
	v.paused = true
	v.mu.Unlock()
}

// Resume re-enables painting and draws the current state.
func (v *View) Resume() {
	v.mu.Lock()
	v.paused = false
	v.mu.Unlock()
	v.Draw()
}

// Draw repaints and shows the whole screen.
func (v *View) Draw() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.paused {
		return
	}

	s := v.screen
	s.Clear()
	defer s.Show()
	width, height := s.Size()

	styleHeader := tcell.StyleDefault.Bold(true).Reverse(true)
	styleTitle := tcell.StyleDefault.Foreground(tcell.ColorTeal).Bold(true)
	styleLabel := tcell.StyleDefault.Foreground(tcell.ColorDarkBlue).Bold(true)
	styleHelp := tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleDone := tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)

	drawText(s, 0, 0, width, styleHeader, " mapreview  "+v.progress)

	if v.complete {
		msg := review.CompletionText(v.total)
		drawText(s, max(0, (width-len([]rune(msg)))/2), height/2, width, styleDone, msg)
		drawText(s, 0, height-1, width, styleHelp, " [q] Quit ")
		return
	}

	// meta and help take the last four rows
	bodyTop, bodyBottom := 2, height-5
	colWidth := (width - 3) / 2
	for i, section := range review.Sections {
		x := 1 + i*(colWidth+1)
		drawText(s, x, bodyTop, colWidth, styleTitle, sectionTitles[section])
		y := bodyTop + 2
		for _, para := range v.sections[section] {
			for _, line := range wrap(para, colWidth) {
				if y > bodyBottom {
					break
				}
				drawText(s, x, y, colWidth, tcell.StyleDefault, line)
				y++
			}
		}
	}

	drawText(s, 1, height-4, 12, styleLabel, "Confidence:")
	drawText(s, 13, height-4, width-13, tcell.StyleDefault, v.confidence)
	drawText(s, 1, height-3, 12, styleLabel, "Notes:")
	drawText(s, 13, height-3, width-13, tcell.StyleDefault, v.notes)
	drawText(s, 0, height-1, width, styleHelp, helpText)
}

// drawText draws a string at the given position, padding to maxWidth.
func drawText(screen tcell.Screen, x, y, maxWidth int, style tcell.Style, text string) {
	col := 0
	for _, r := range text {
		if col >= maxWidth {
			break
		}
		screen.SetContent(x+col, y, r, nil, style)
		col++
	}
	for col < maxWidth {
		screen.SetContent(x+col, y, ' ', nil, style)
		col++
	}
}
