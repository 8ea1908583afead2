package pathutil

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidID is returned when the ID in the URL path is invalid.
var ErrInvalidID = errors.New("invalid id")

// ParseID parses a positive int64 ID taken from a path wildcard,
// typically r.PathValue("id").
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// ExtractID removes prefix and any trailing segment from path and parses the ID.
//
//	id, err := ExtractID("/notes/42/pin", "/notes/")
//	// Returns: 42, nil
func ExtractID(path, prefix string) (int64, error) {
	rest := strings.TrimPrefix(path, prefix)
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return ParseID(rest)
}
