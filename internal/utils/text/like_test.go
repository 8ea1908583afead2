package text_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"smartnotes/internal/utils/text"
)

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "go", want: "%go%"},
		{input: "", want: "%%"},
		{input: "100%", want: `%100\%%`},
		{input: "snake_case", want: `%snake\_case%`},
		{input: `C:\tmp`, want: `%C:\\tmp%`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, text.ContainsPattern(tt.input), tt.input)
	}
}
