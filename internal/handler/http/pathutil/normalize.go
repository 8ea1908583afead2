package pathutil

import "strings"

// noteActions are the sub-resources routed under /notes/{id}.
var noteActions = map[string]bool{"pin": true, "digest": true}

// NormalizePath collapses note IDs into ":id" so metric labels and span
// names stay bounded. Query strings and a trailing slash are dropped;
// paths outside the /notes/{id} routes come back unchanged.
//
//	NormalizePath("/notes/123/pin") // "/notes/:id/pin"
//	NormalizePath("/notes/import")  // "/notes/import"
func NormalizePath(path string) string {
	path, _, _ = strings.Cut(path, "?")
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	segs := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(segs) < 2 || len(segs) > 3 || segs[0] != "notes" || !allDigits(segs[1]) {
		return path
	}
	if len(segs) == 2 {
		return "/notes/:id"
	}
	if noteActions[segs[2]] {
		return "/notes/:id/" + segs[2]
	}
	return path
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
