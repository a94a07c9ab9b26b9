package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/mapreview/pkg/review"
)

func TestMarkupText(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   []string
	}{
		{
			name: "headings and paragraphs",
			markup: `<h2><a href="https://chromestatus.com/feature/20">Popover</a></h2>
<p>Top   layer
 &lt;popover&gt;</p>`,
			want: []string{"Popover <https://chromestatus.com/feature/20>", "Top layer <popover>"},
		},
		{
			name:   "link text equal to target",
			markup: `<p>Spec: <a href="https://a.example">https://a.example</a></p>`,
			want:   []string{"Spec: https://a.example"},
		},
		{
			name:   "line breaks",
			markup: `one<br>two<br/>three`,
			want:   []string{"one", "two", "three"},
		},
		{
			name:   "empty",
			markup: "",
			want:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MarkupText(tt.markup))
		})
	}
}

func TestDetailLines(t *testing.T) {
	assert.Equal(t, []string{"Grid"}, DetailLines(review.Detail{Markup: "<h2>Grid</h2>"}))
	assert.Equal(t,
		[]string{"Grid", "CSS grid layout", "Spec: https://a.example"},
		DetailLines(review.Detail{Name: "Grid", Summary: "CSS grid layout", Links: []string{"https://a.example"}}),
	)
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"the quick", "brown fox"}, wrap("the quick brown fox", 10))
	assert.Equal(t, []string{"abcde", "fghij", "k"}, wrap("abcdefghijk", 5))
	assert.Nil(t, wrap("anything", 0))
	assert.Nil(t, wrap("   ", 10))
}
