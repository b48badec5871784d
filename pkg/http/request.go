package http

import (
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
)

// IPConfig holds configuration for IP extraction
type IPConfig struct {
	TrustedProxies []string // CIDR ranges of trusted proxies
}

// ExtractClientIP returns the caller's address. Forwarding headers are only
// honoured when the direct peer is a trusted proxy.
func ExtractClientIP(r *http.Request, config *IPConfig) string {
	remote := remoteIP(r)

	if config == nil || !isTrustedProxy(remote, config.TrustedProxies) {
		return remote
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, candidate := range strings.Split(xff, ",") {
			candidate = strings.TrimSpace(candidate)
			if _, err := netip.ParseAddr(candidate); err == nil {
				return candidate
			}
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		if _, err := netip.ParseAddr(xri); err == nil {
			return xri
		}
	}

	return remote
}

func remoteIP(r *http.Request) string {
	if r.RemoteAddr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func isTrustedProxy(ip string, trusted []string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	for _, cidr := range trusted {
		prefix, err := netip.ParsePrefix(strings.TrimSpace(cidr))
		if err != nil {
			continue
		}
		if prefix.Contains(addr.Unmap()) {
			return true
		}
	}
	return false
}

// QueryInt parses an integer query parameter. ok is false when the parameter is
// absent; malformed values parse as 0 so callers can clamp them.
func QueryInt(r *http.Request, key string) (value int, ok bool) {
	raw, present := r.URL.Query()[key]
	if !present || len(raw) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw[0]))
	if err != nil {
		return 0, true
	}
	return n, true
}
