package tui

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/agentstation/mapreview/pkg/review"
)

// blocks are elements that start and end a line.
var blocks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true,
	atom.Ul: true, atom.Ol: true, atom.Tr: true, atom.Table: true,
	atom.Section: true, atom.Header: true, atom.Footer: true, atom.Pre: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
}

// MarkupText flattens an HTML fragment into display lines. Block elements
// break lines, whitespace collapses, and a link whose text differs from its
// target gets the target appended in angle brackets.
func MarkupText(markup string) []string {
	z := html.NewTokenizer(strings.NewReader(markup))

	var (
		lines     []string
		cur       strings.Builder
		href      string
		linkStart int
	)
	flush := func() {
		if line := strings.Join(strings.Fields(cur.String()), " "); line != "" {
			lines = append(lines, line)
		}
		cur.Reset()
	}

	for {
		switch z.Next() {
		case html.ErrorToken:
			flush()
			return lines

		case html.TextToken:
			cur.Write(z.Text())

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			a := atom.Lookup(name)
			if blocks[a] {
				flush()
			}
			if a != atom.A {
				continue
			}
			href, linkStart = "", cur.Len()
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) == "href" {
					href = string(val)
				}
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if a == atom.A && href != "" {
				text := strings.TrimSpace(cur.String()[min(linkStart, cur.Len()):])
				if text != href {
					cur.WriteString(" <" + href + ">")
				}
				href = ""
			}
			if blocks[a] {
				flush()
			}
		}
	}
}

// DetailLines lays out one detail section. Markup is flattened; structured
// details use a fixed template of name, summary and spec links.
func DetailLines(d review.Detail) []string {
	if d.IsMarkup() {
		return MarkupText(d.Markup)
	}
	var lines []string
	if d.Name != "" {
		lines = append(lines, d.Name)
	}
	if d.Summary != "" {
		lines = append(lines, d.Summary)
	}
	for _, l := range d.Links {
		lines = append(lines, "Spec: "+l)
	}
	return lines
}

// wrap breaks text into lines of at most width runes, at spaces where
// possible.
func wrap(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	var (
		lines []string
		line  []rune
	)
	for _, word := range strings.Fields(text) {
		w := []rune(word)
		for len(w) > width {
			if len(line) > 0 {
				lines = append(lines, string(line))
				line = nil
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(line) == 0:
			line = w
		case len(line)+1+len(w) <= width:
			line = append(append(line, ' '), w...)
		default:
			lines = append(lines, string(line))
			line = w
		}
	}
	if len(line) > 0 {
		lines = append(lines, string(line))
	}
	return lines
}
