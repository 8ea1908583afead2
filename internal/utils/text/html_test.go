package text_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"smartnotes/internal/utils/text"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text is trimmed", input: "  just text  ", want: "just text"},
		{name: "paragraphs", input: "<p>Hello</p><p><b>world</b></p>", want: "Helloworld"},
		{name: "entities decoded", input: "<div>Tom &amp; Jerry</div>", want: "Tom & Jerry"},
		{name: "nested inline", input: "<p>A <em>quick</em> note.</p>", want: "A quick note."},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, text.StripHTML(tt.input))
		})
	}
}

func TestClean(t *testing.T) {
	assert.Equal(t, "Hello", text.Clean("<p>Hello world</p>", 5))
	assert.Equal(t, "Hello world", text.Clean("<p>Hello world</p>", 0))
}
