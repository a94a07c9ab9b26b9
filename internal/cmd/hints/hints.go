// Package hints provides next-step guidance printed after pipeline commands.
package hints

import (
	"fmt"
	"io"
	"strings"
)

// Hint represents actionable user guidance.
type Hint struct {
	Message string // Human-readable guidance message
	Command string // Optional specific command to run
	URL     string // Optional documentation link
}

// New creates a new hint with the given message.
func New(message string) *Hint {
	return &Hint{Message: message}
}

// WithCommand adds a command to the hint.
func (h *Hint) WithCommand(command string) *Hint {
	h.Command = command
	return h
}

// WithURL adds a URL to the hint.
func (h *Hint) WithURL(url string) *Hint {
	h.URL = url
	return h
}

// String returns a string representation of the hint.
func (h *Hint) String() string {
	parts := []string{"💡 " + h.Message}
	if h.Command != "" {
		parts = append(parts, "   Run: "+h.Command)
	}
	if h.URL != "" {
		parts = append(parts, "   See: "+h.URL)
	}
	return strings.Join(parts, "\n")
}

// Context describes the command that just finished.
type Context struct {
	Command   string // update, classify, serve, review, export, status
	Succeeded bool
	Pending   int // pending review records, when known
	Exported  int // rows written by export
}

// Provider generates hints for a context.
type Provider func(Context) []*Hint

// Registry collects providers and caps how many hints are shown.
type Registry struct {
	providers []Provider
	MaxHints  int
}

// NewRegistry creates a registry showing at most two hints.
func NewRegistry(providers ...Provider) *Registry {
	return &Registry{providers: providers, MaxHints: 2}
}

// Register adds a provider.
func (r *Registry) Register(p Provider) {
	r.providers = append(r.providers, p)
}

// Hints returns the hints for ctx, deduplicated by message.
func (r *Registry) Hints(ctx Context) []*Hint {
	seen := make(map[string]bool)
	var out []*Hint
	for _, p := range r.providers {
		for _, h := range p(ctx) {
			if seen[h.Message] {
				continue
			}
			seen[h.Message] = true
			out = append(out, h)
			if r.MaxHints > 0 && len(out) == r.MaxHints {
				return out
			}
		}
	}
	return out
}

// Print writes the hints for ctx to w, separated by a blank line.
func (r *Registry) Print(w io.Writer, ctx Context) {
	for _, h := range r.Hints(ctx) {
		fmt.Fprintf(w, "\n%s\n", h)
	}
}
