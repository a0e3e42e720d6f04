package auth

import "context"

// AuthenticatedUser holds the identity facts extracted from a verified
// session. It is built once per request by the session middleware and
// passed explicitly; nothing else reads claims from ambient state.
type AuthenticatedUser struct {
	SubjectID string // provider user id (sub claim), e.g. "auth0|abc123"
	Email     string
	Name      string
	Picture   string
}

type userContextKeyType struct{}

var userKey = userContextKeyType{}

// WithUser attaches the authenticated user to the request context.
func WithUser(ctx context.Context, u AuthenticatedUser) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext extracts the authenticated user from context.
func UserFromContext(ctx context.Context) (AuthenticatedUser, bool) {
	u, ok := ctx.Value(userKey).(AuthenticatedUser)
	return u, ok
}
