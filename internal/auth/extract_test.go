package auth_test

import (
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/tunevault/internal/auth"
	"github.com/stretchr/testify/assert"
)

func TestResolveToken(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
		found   bool
	}{
		{"no header", nil, "", false},
		{"standard header", map[string]string{"Authorization": "Bearer abc123"}, "abc123", true},
		{"proxy header", map[string]string{"X-Authorization": "Bearer fromproxy"}, "fromproxy", true},
		{"standard wins", map[string]string{"Authorization": "Bearer first", "X-Authorization": "Bearer second"}, "first", true},
		{"basic auth ignored", map[string]string{"Authorization": "Basic dXNlcjpwYXNz"}, "", false},
		{"missing token", map[string]string{"Authorization": "Bearer "}, "", false},
		{"stops at whitespace", map[string]string{"Authorization": "Bearer tok extra"}, "tok", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			got, ok := auth.ResolveToken(req)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveToken_NonCanonicalHeaderName(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	// Bypass canonicalisation the way some servlet-style proxies deliver it
	req.Header["authorization"] = []string{"Bearer lowercase"}

	got, ok := auth.ResolveToken(req)
	assert.True(t, ok)
	assert.Equal(t, "lowercase", got)
}
