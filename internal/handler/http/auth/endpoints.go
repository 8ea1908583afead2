package auth

import "strings"

// ProtectedPrefixes lists the path prefixes that require a token when
// authentication is enabled. Health, metrics and glossary routes stay public.
var ProtectedPrefixes = []string{
	"/notes",
	"/ai/",
	"/grammar/",
}

// IsProtectedEndpoint reports whether path needs a bearer token.
//
//	IsProtectedEndpoint("/notes")          // true
//	IsProtectedEndpoint("/notes/3/pin")    // true
//	IsProtectedEndpoint("/notebook")       // false
//	IsProtectedEndpoint("/health")         // false
func IsProtectedEndpoint(path string) bool {
	for _, prefix := range ProtectedPrefixes {
		if strings.HasSuffix(prefix, "/") {
			if strings.HasPrefix(path, prefix) {
				return true
			}
			continue
		}
		if path == prefix || strings.HasPrefix(path, prefix+"/") || strings.HasPrefix(path, prefix+"?") {
			return true
		}
	}
	return false
}
