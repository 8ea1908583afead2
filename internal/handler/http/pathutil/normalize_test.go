package pathutil

import (
	"testing"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{name: "note with ID", path: "/notes/123", expected: "/notes/:id"},
		{name: "note with another ID", path: "/notes/999999", expected: "/notes/:id"},
		{name: "note with trailing slash", path: "/notes/123/", expected: "/notes/:id"},
		{name: "note with query params", path: "/notes/123?x=1", expected: "/notes/:id"},
		{name: "pin toggle", path: "/notes/5/pin", expected: "/notes/:id/pin"},
		{name: "digest", path: "/notes/5/digest", expected: "/notes/:id/digest"},

		{name: "note list", path: "/notes", expected: "/notes"},
		{name: "note list with search", path: "/notes?q=react", expected: "/notes"},
		{name: "import", path: "/notes/import", expected: "/notes/import"},
		{name: "ai summary", path: "/ai/summary", expected: "/ai/summary"},
		{name: "grammar", path: "/grammar/check", expected: "/grammar/check"},
		{name: "health", path: "/health", expected: "/health"},
		{name: "metrics", path: "/metrics", expected: "/metrics"},
		{name: "root", path: "/", expected: "/"},

		{name: "non numeric id", path: "/notes/abc", expected: "/notes/abc"},
		{name: "unknown sub resource", path: "/notes/1/share", expected: "/notes/1/share"},
		{name: "too deep", path: "/notes/1/pin/x", expected: "/notes/1/pin/x"},
		{name: "other collection", path: "/users/1", expected: "/users/1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePath(tt.path); got != tt.expected {
				t.Errorf("NormalizePath(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}
