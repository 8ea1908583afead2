// Package fetcher clips web pages into notes using the Readability algorithm.
package fetcher

import (
	"context"
	"fmt"
	"net"
	"net/url"

	"smartnotes/internal/usecase/note"
)

// validateURL rejects URLs that are not http/https and, when denyPrivateIPs
// is set, hosts that resolve to loopback, private or link-local addresses.
// It runs for the requested URL and again for every redirect target.
func validateURL(ctx context.Context, urlStr string, denyPrivateIPs bool) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("%w: parse error: %v", note.ErrInvalidURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme '%s' not allowed (only http/https)", note.ErrInvalidURL, u.Scheme)
	}

	hostname := u.Hostname()
	if hostname == "" {
		return fmt.Errorf("%w: empty hostname", note.ErrInvalidURL)
	}

	if !denyPrivateIPs {
		return nil
	}

	if ip := net.ParseIP(hostname); ip != nil {
		if isPrivateIP(ip) {
			return fmt.Errorf("%w: %s", note.ErrPrivateIP, ip.String())
		}
		return nil
	}

	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, hostname)
	if err != nil {
		return fmt.Errorf("%w: DNS lookup failed for %s: %v", note.ErrInvalidURL, hostname, err)
	}

	for _, addr := range addrs {
		if isPrivateIP(addr.IP) {
			return fmt.Errorf("%w: hostname '%s' resolves to private IP %s", note.ErrPrivateIP, hostname, addr.IP.String())
		}
	}

	return nil
}

// isPrivateIP reports loopback (127/8, ::1), private (RFC 1918, fc00::/7),
// link-local (169.254/16, fe80::/10) and unspecified addresses.
func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsUnspecified()
}
