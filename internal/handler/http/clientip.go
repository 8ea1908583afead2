package http

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"smartnotes/pkg/config"
)

// TrustedProxies decides whether forwarding headers on a request can be
// believed. The zero value trusts nobody, so the rate limiter keys on the
// TCP peer address.
type TrustedProxies struct {
	Enabled bool
	CIDRs   []netip.Prefix
}

// LoadTrustedProxies reads RATE_LIMIT_TRUST_PROXY and
// RATE_LIMIT_TRUSTED_PROXIES (comma-separated IPs or CIDRs).
// Enabling trust without a valid proxy list is an error.
func LoadTrustedProxies() (TrustedProxies, error) {
	return ParseTrustedProxies(
		config.GetEnvBool("RATE_LIMIT_TRUST_PROXY", false),
		config.GetEnvStringList("RATE_LIMIT_TRUSTED_PROXIES", nil),
	)
}

// ParseTrustedProxies builds a TrustedProxies from raw entries. A bare IP
// becomes a /32 or /128 prefix.
func ParseTrustedProxies(enabled bool, entries []string) (TrustedProxies, error) {
	if !enabled {
		return TrustedProxies{}, nil
	}
	if len(entries) == 0 {
		return TrustedProxies{}, fmt.Errorf("RATE_LIMIT_TRUST_PROXY is enabled but RATE_LIMIT_TRUSTED_PROXIES is empty")
	}

	tp := TrustedProxies{Enabled: true, CIDRs: make([]netip.Prefix, 0, len(entries))}
	for _, entry := range entries {
		prefix, err := netip.ParsePrefix(entry)
		if err != nil {
			addr, addrErr := netip.ParseAddr(entry)
			if addrErr != nil {
				return TrustedProxies{}, fmt.Errorf("invalid trusted proxy %q: want an IP or CIDR", entry)
			}
			prefix = netip.PrefixFrom(addr, addr.BitLen())
		}
		tp.CIDRs = append(tp.CIDRs, prefix.Masked())
	}
	return tp, nil
}

// Trusts reports whether remoteAddr ("ip:port" or "ip") is a trusted proxy.
func (tp TrustedProxies) Trusts(remoteAddr string) bool {
	if !tp.Enabled {
		return false
	}
	addr, err := netip.ParseAddr(hostOf(remoteAddr))
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range tp.CIDRs {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP returns the address a request is accounted to. X-Forwarded-For
// (first entry) and then X-Real-IP are honoured only when the peer is a
// trusted proxy; every other request uses the peer address.
func (tp TrustedProxies) ClientIP(r *http.Request) string {
	peer := hostOf(r.RemoteAddr)
	xff := r.Header.Get("X-Forwarded-For")
	xri := r.Header.Get("X-Real-IP")

	if !tp.Trusts(r.RemoteAddr) {
		if tp.Enabled && (xff != "" || xri != "") {
			slog.Warn("ignoring forwarding headers from untrusted peer",
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("x_forwarded_for", xff),
				slog.String("x_real_ip", xri))
		}
		return peer
	}

	if xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	if xri != "" {
		if ip := net.ParseIP(strings.TrimSpace(xri)); ip != nil {
			return ip.String()
		}
	}
	return peer
}

func hostOf(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return strings.Trim(addr, "[]")
	}
	return host
}
