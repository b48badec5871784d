package auth

import (
	"net/http"
	"strings"
	"time"
)

// CookieConfig holds session cookie settings
type CookieConfig struct {
	Name     string
	Domain   string // Empty string = current host only
	Secure   bool   // HTTPS only
	SameSite string // "strict", "lax", or "none"
}

// SetSessionCookie binds the session id to the browser
func SetSessionCookie(w http.ResponseWriter, id string, lifetime time.Duration, config CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     config.Name,
		Value:    id,
		Path:     "/",
		Domain:   config.Domain,
		Expires:  time.Now().Add(lifetime),
		MaxAge:   int(lifetime.Seconds()),
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: parseSameSite(config.SameSite),
	})
}

// ClearSessionCookie expires the session cookie immediately
func ClearSessionCookie(w http.ResponseWriter, config CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     config.Name,
		Value:    "",
		Path:     "/",
		Domain:   config.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: parseSameSite(config.SameSite),
	})
}

// SessionIDFromRequest returns the session id carried by the request cookie
func SessionIDFromRequest(r *http.Request, config CookieConfig) (string, bool) {
	cookie, err := r.Cookie(config.Name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func parseSameSite(sameSite string) http.SameSite {
	switch strings.ToLower(sameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteDefaultMode
	}
}
