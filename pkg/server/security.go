package server

import (
	"net/http"
	"strings"
)

type header struct {
	name, value string
}

var (
	// sent with every response
	baseSecurityHeaders = []header{
		{"Strict-Transport-Security", "max-age=63072000; includeSubDomains"},
		{"X-Content-Type-Options", "nosniff"},
		{"X-Frame-Options", "DENY"},
		{"Referrer-Policy", "strict-origin-when-cross-origin"},
	}

	// estimates and projects are per caller and never rendered as a page
	apiSecurityHeaders = []header{
		{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
		{"Cache-Control", "no-store"},
	}
)

func setHeaders(w http.ResponseWriter, headers []header) {
	for _, h := range headers {
		w.Header().Set(h.name, h.value)
	}
}

func (s *Server) securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setHeaders(w, baseSecurityHeaders)
		if strings.HasPrefix(r.URL.Path, "/api/") {
			setHeaders(w, apiSecurityHeaders)
		}
		next.ServeHTTP(w, r)
	})
}
