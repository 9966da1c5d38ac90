package auth

import (
	"context"
	"strings"
)

// AuthContext is the authentication outcome for one request. A request
// with no usable credentials is still served an AuthContext; handlers
// and resolvers decide whether authentication is required.
type AuthContext struct {
	User          *Claims
	Authenticated bool
	Error         string
}

// FromHeader builds the auth context for a raw Authorization header.
// Only the exact form "Bearer <token>" is accepted; anything else,
// including a missing header, yields an unauthenticated context with
// the "No token provided" message rather than an error.
func (s *Service) FromHeader(header string) AuthContext {
	parts := strings.Split(header, " ")
	if header == "" || len(parts) != 2 || parts[0] != "Bearer" {
		return AuthContext{Error: "No token provided"}
	}

	claims, err := s.Verify(parts[1])
	if err != nil {
		return AuthContext{Error: err.Error()}
	}

	return AuthContext{User: claims, Authenticated: true}
}

type contextKey string

const authContextKey contextKey = "authContext"

// WithAuth adds the auth context to a request context
func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey, ac)
}

// FromContext extracts the auth context from a request context. A
// context that never saw the middleware reads as unauthenticated.
func FromContext(ctx context.Context) AuthContext {
	ac, ok := ctx.Value(authContextKey).(AuthContext)
	if !ok {
		return AuthContext{Error: "No token provided"}
	}
	return ac
}
