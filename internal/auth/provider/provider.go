package provider

import (
	"context"

	"github.com/codecooknucleus/secureAuth0/internal/auth"
)

// LoginProvider is the hosted-login contract the handlers talk to.
// Implementations return identity facts only and must not perform
// session management or consolidation decisions.
type LoginProvider interface {
	// AuthCodeURL returns the hosted-login authorization URL.
	// State and PKCE parameters are provided by the caller; forceLogin
	// adds prompt=login so the provider ignores any live SSO session.
	AuthCodeURL(state string, codeChallenge string, forceLogin bool) string

	// ExchangeCode exchanges the authorization code, verifies the id
	// token, and returns the authenticated user's claims.
	ExchangeCode(
		ctx context.Context,
		code string,
		codeVerifier string,
	) (*auth.AuthenticatedUser, error)

	// LogoutURL returns the provider's federated logout URL with the
	// given post-logout return target.
	LogoutURL(returnTo string) string
}
