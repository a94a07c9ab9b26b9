package hints

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHintString(t *testing.T) {
	h := New("Classify next").WithCommand("mapreview classify").WithURL("https://example.com")
	assert.Equal(t, "💡 Classify next\n   Run: mapreview classify\n   See: https://example.com", h.String())
	assert.Equal(t, "💡 Bare", New("Bare").String())
}

func TestPipeline(t *testing.T) {
	tests := []struct {
		name    string
		ctx     Context
		command string
		url     string
	}{
		{"update", Context{Command: "update", Succeeded: true}, "mapreview classify", ""},
		{"classify", Context{Command: "classify", Succeeded: true}, "mapreview serve", ""},
		{"status pending", Context{Command: "status", Succeeded: true, Pending: 3}, "mapreview review", ""},
		{"status done", Context{Command: "status", Succeeded: true}, "mapreview export", ""},
		{"export empty", Context{Command: "export", Succeeded: true}, "mapreview review", ""},
		{"export rows", Context{Command: "export", Succeeded: true, Exported: 2}, "", ImportToolURL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pipeline(tt.ctx)
			if assert.Len(t, got, 1) {
				assert.Equal(t, tt.command, got[0].Command)
				assert.Equal(t, tt.url, got[0].URL)
			}
		})
	}

	assert.Empty(t, Pipeline(Context{Command: "update"}))
	assert.Empty(t, Pipeline(Context{Command: "version", Succeeded: true}))
}

func TestRegistryDedupAndLimit(t *testing.T) {
	r := NewRegistry(
		func(Context) []*Hint { return []*Hint{New("a"), New("b")} },
		func(Context) []*Hint { return []*Hint{New("a"), New("c")} },
	)
	got := r.Hints(Context{})
	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Message)
	assert.Equal(t, "b", got[1].Message)

	r.MaxHints = 0
	assert.Len(t, r.Hints(Context{}), 3)
}

func TestRegistryPrint(t *testing.T) {
	var buf bytes.Buffer
	Default().Print(&buf, Context{Command: "update", Succeeded: true})
	assert.Contains(t, buf.String(), "mapreview classify")
}
