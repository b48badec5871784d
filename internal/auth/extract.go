package auth

import (
	"net/http"
	"regexp"
	"strings"
)

var bearerPattern = regexp.MustCompile(`Bearer (\S+)`)

// ResolveToken extracts a bearer token from the request headers. The standard
// Authorization header is checked first, then X-Authorization (set by proxies
// that strip the standard header), then any header whose name is
// case-insensitively "authorization".
func ResolveToken(r *http.Request) (string, bool) {
	for _, name := range []string{"Authorization", "X-Authorization"} {
		if token, ok := matchBearer(r.Header.Get(name)); ok {
			return token, true
		}
	}

	for name, values := range r.Header {
		if !strings.EqualFold(name, "authorization") {
			continue
		}
		for _, v := range values {
			if token, ok := matchBearer(v); ok {
				return token, true
			}
		}
	}

	return "", false
}

func matchBearer(value string) (string, bool) {
	if value == "" {
		return "", false
	}
	m := bearerPattern.FindStringSubmatch(value)
	if m == nil {
		return "", false
	}
	return m[1], true
}
