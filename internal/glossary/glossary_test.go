package glossary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func span(def, term string) string {
	return `<span class="glossary-term" data-definition="` + def + `">` + term + `</span>`
}

const (
	reactDef = "A JavaScript library for building user interfaces"
	jsDef    = "A programming language for the web"
	htmlDef  = "The standard markup language for documents"
	cssDef   = "A style sheet language used for styling HTML content"
)

func TestHighlight(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "no terms", in: "Plain note about groceries", want: "Plain note about groceries"},
		{
			name: "keeps original case",
			in:   "I like react and REACT",
			want: "I like " + span(reactDef, "react") + " and " + span(reactDef, "REACT"),
		},
		{
			name: "whole words only",
			in:   "Reactive HTML5 CSSOM",
			want: "Reactive HTML5 CSSOM",
		},
		{
			name: "definitions are not re-highlighted",
			in:   "CSS",
			want: span(cssDef, "CSS"),
		},
		{
			name: "several terms",
			in:   "JavaScript, HTML and CSS.",
			want: span(jsDef, "JavaScript") + ", " + span(htmlDef, "HTML") + " and " + span(cssDef, "CSS") + ".",
		},
		{
			name: "markup is preserved and attributes untouched",
			in:   `<p class="css">Learn <b>React</b></p>`,
			want: `<p class="css">Learn <b>` + span(reactDef, "React") + `</b></p>`,
		},
		{
			name: "idempotent on highlighted content",
			in:   span(reactDef, "React") + " and HTML",
			want: span(reactDef, "React") + " and " + span(htmlDef, "HTML"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Highlight(tt.in))
		})
	}
}

func TestNew_MergesAndEscapes(t *testing.T) {
	g := New(map[string]string{
		"Go":    `A "simple" language & runtime`,
		"react": "Overridden",
		"  ":    "ignored",
	})

	got := g.Highlight("Go with React")
	assert.Equal(t,
		span("A &#34;simple&#34; language &amp; runtime", "Go")+" with "+span("Overridden", "React"),
		got)

	terms := g.Terms()
	require.Len(t, terms, 5)
	assert.Equal(t, "CSS", terms[0].Name)
	assert.Equal(t, "Go", terms[1].Name)

	def, ok := g.Lookup("REACT")
	require.True(t, ok)
	assert.Equal(t, "Overridden", def.Definition)

	_, ok = g.Lookup("rust")
	assert.False(t, ok)
}

func TestDefault_IsNotModifiedByNew(t *testing.T) {
	_ = New(map[string]string{"React": "changed"})

	term, ok := Default().Lookup("react")
	require.True(t, ok)
	assert.Equal(t, reactDef, term.Definition)
	assert.Len(t, Default().Terms(), 4)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "glossary.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Kubernetes: A container orchestration system\nHTML: HyperText Markup Language\n"), 0o600))

	g, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, span("A container orchestration system", "kubernetes"), g.Highlight("kubernetes"))
	term, _ := g.Lookup("html")
	assert.Equal(t, "HyperText Markup Language", term.Definition)
	assert.Len(t, g.Terms(), 5)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("- just\n- a list\n"), 0o600))
	_, err = LoadFile(bad)
	assert.Error(t, err)
}
