package logger

import (
	"log/slog"
	"net/url"
	"strings"
)

// SanitizedEmail masks an email address for logging (e.g., "u***@*******.com")
func SanitizedEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" {
		return "[invalid-email]"
	}

	if len(local) > 1 {
		local = local[:1] + strings.Repeat("*", len(local)-1)
	}

	labels := strings.Split(domain, ".")
	for i := 0; i < len(labels)-1; i++ {
		labels[i] = strings.Repeat("*", len(labels[i]))
	}

	return local + "@" + strings.Join(labels, ".")
}

// RedactedAttr hides value in production and passes it through elsewhere
func RedactedAttr(key, value, env string) slog.Attr {
	if env == "production" {
		return slog.String(key, "[REDACTED]")
	}
	return slog.String(key, value)
}

var sensitiveParams = map[string]bool{
	"password": true,
	"token":    true,
	"secret":   true,
	"email":    true,
	"login":    true,
	"auth":     true,
	"csrf":     true,
}

// SanitizeQueryString reports whether any query parameter name is sensitive,
// in which case the whole query string should be redacted
func SanitizeQueryString(rawQuery string) bool {
	if rawQuery == "" {
		return false
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return true
	}
	for name := range values {
		lower := strings.ToLower(name)
		for param := range sensitiveParams {
			if strings.Contains(lower, param) {
				return true
			}
		}
	}
	return false
}
