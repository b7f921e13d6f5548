package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ExtractIP returns the client IP for a request: the first entry of
// X-Forwarded-For, then X-Real-IP, then RemoteAddr without the port.
//
// These headers are only trustworthy behind a reverse proxy that
// overwrites them; when the gateway is exposed directly they can be
// spoofed to dodge rate limiting.
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
		if first != "" {
			return first
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
