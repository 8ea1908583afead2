// Package glossary marks known technical terms in note HTML so the editor can
// show their definitions on hover.
package glossary

import (
	"fmt"
	"html"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// builtin holds the terms every glossary starts from.
var builtin = map[string]string{
	"React":      "A JavaScript library for building user interfaces",
	"JavaScript": "A programming language for the web",
	"HTML":       "The standard markup language for documents",
	"CSS":        "A style sheet language used for styling HTML content",
}

// Term is a glossary entry.
type Term struct {
	Name       string `json:"name" yaml:"name"`
	Definition string `json:"definition" yaml:"definition"`
}

// Glossary is an immutable set of terms. It is safe for concurrent use.
type Glossary struct {
	byKey   map[string]Term
	pattern *regexp.Regexp
}

var (
	tagPattern = regexp.MustCompile(`<[^>]*>`)
	defaultG   = New(nil)
)

// Default returns the glossary of built-in terms.
func Default() *Glossary {
	return defaultG
}

// New returns a glossary of the built-in terms with extra merged over them.
// Terms are matched case-insensitively, so an extra term that differs from
// a built-in only in case replaces it.
func New(extra map[string]string) *Glossary {
	byKey := make(map[string]Term, len(builtin)+len(extra))
	for name, def := range builtin {
		byKey[strings.ToLower(name)] = Term{Name: name, Definition: def}
	}
	for name, def := range extra {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		byKey[strings.ToLower(name)] = Term{Name: name, Definition: strings.TrimSpace(def)}
	}

	names := make([]string, 0, len(byKey))
	for _, t := range byKey {
		names = append(names, regexp.QuoteMeta(t.Name))
	}
	// Longer names first so "JavaScript" wins over a shorter overlapping term.
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	return &Glossary{
		byKey:   byKey,
		pattern: regexp.MustCompile(`(?i)\b(` + strings.Join(names, "|") + `)\b`),
	}
}

// LoadFile reads a YAML mapping of term to definition and merges it over
// the built-in terms.
//
//	Go: A statically typed, compiled programming language
//	Kubernetes: A container orchestration system
func LoadFile(path string) (*Glossary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read glossary: %w", err)
	}

	var extra map[string]string
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("parse glossary %s: %w", path, err)
	}
	return New(extra), nil
}

// Lookup returns the definition of term, ignoring case.
func (g *Glossary) Lookup(term string) (Term, bool) {
	t, ok := g.byKey[strings.ToLower(strings.TrimSpace(term))]
	return t, ok
}

// Terms returns every entry sorted by name.
func (g *Glossary) Terms() []Term {
	out := make([]Term, 0, len(g.byKey))
	for _, t := range g.byKey {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out
}

// Highlight wraps whole-word, case-insensitive matches of the glossary terms
// in content with
//
//	<span class="glossary-term" data-definition="...">term</span>
//
// keeping the matched text as written. Matching is done in one pass over
// the text between tags, so definitions are never highlighted themselves and
// terms inside tags, attributes or existing glossary spans are left alone.
func (g *Glossary) Highlight(content string) string {
	if content == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(content))

	inTerm := false
	last := 0
	for _, loc := range tagPattern.FindAllStringIndex(content, -1) {
		g.writeText(&b, content[last:loc[0]], inTerm)

		tag := content[loc[0]:loc[1]]
		switch {
		case strings.HasPrefix(tag, "<span") && strings.Contains(tag, `class="glossary-term"`):
			inTerm = true
		case inTerm && strings.HasPrefix(tag, "</span"):
			inTerm = false
		}
		b.WriteString(tag)
		last = loc[1]
	}
	g.writeText(&b, content[last:], inTerm)

	return b.String()
}

func (g *Glossary) writeText(b *strings.Builder, segment string, verbatim bool) {
	if verbatim {
		b.WriteString(segment)
		return
	}
	b.WriteString(g.pattern.ReplaceAllStringFunc(segment, func(match string) string {
		t := g.byKey[strings.ToLower(match)]
		return `<span class="glossary-term" data-definition="` + html.EscapeString(t.Definition) + `">` + match + `</span>`
	}))
}

// Highlight marks the built-in terms in content.
func Highlight(content string) string {
	return defaultG.Highlight(content)
}
