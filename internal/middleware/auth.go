package middleware

import (
	"net/http"
	"strings"

	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/session"
)

// RoleHeader carries the caller's dashboard role alongside the bearer
// token.
const RoleHeader = "X-Dashboard-Role"

// Auth builds a session from the Authorization and role headers and
// stores it in the request context. Requests without a valid bearer
// token or with an unknown role are rejected.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		sess, err := session.New(token, r.Header.Get(RoleHeader))
		if err != nil {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r.WithContext(session.WithContext(r.Context(), sess)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return "", false
	}
	token := strings.TrimSpace(auth[len(prefix):])
	return token, token != ""
}
