package middleware

import (
	"net/http"
	"strings"
)

// CacheControl sets Cache-Control headers per path class:
// short-lived caching for proxied list endpoints, none for anything
// that mutates or depends on draft state.
func CacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Cache-Control", "no-store")
			next.ServeHTTP(w, r)
			return
		}

		switch {
		case r.URL.Path == "/health":
			w.Header().Set("Cache-Control", "no-cache")
		case strings.HasPrefix(r.URL.Path, "/api/"):
			// Upstream lists change rarely; one minute keeps tables snappy
			// without hiding edits for long.
			w.Header().Set("Cache-Control", "private, max-age=60, must-revalidate")
		default:
			w.Header().Set("Cache-Control", "no-cache")
		}
		next.ServeHTTP(w, r)
	})
}
