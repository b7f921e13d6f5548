package session

import (
	"context"
	"errors"

	"github.com/samber/lo"

	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/config"
)

// Session carries the authenticated caller's bearer token and dashboard
// role. It is constructed once per request and passed explicitly to
// everything that talks to the upstream API, instead of being read from
// ambient storage at each call site.
type Session struct {
	Token string
	Role  string
}

// ErrNoSession is returned when a request context carries no session.
var ErrNoSession = errors.New("no session in context")

// New validates the token and role and returns a Session.
func New(token, role string) (*Session, error) {
	if token == "" {
		return nil, errors.New("bearer token is required")
	}
	if !lo.Contains(config.KnownRoles, role) {
		return nil, errors.New("unknown dashboard role: " + role)
	}
	return &Session{Token: token, Role: role}, nil
}

type contextKey struct{}

// WithContext returns a child context carrying the session.
func WithContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext extracts the session stored by WithContext.
func FromContext(ctx context.Context) (*Session, error) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	if !ok || s == nil {
		return nil, ErrNoSession
	}
	return s, nil
}
