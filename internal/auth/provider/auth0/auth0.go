package auth0

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/codecooknucleus/secureAuth0/internal/auth"
)

// Provider implements the hosted-login flow against an Auth0 tenant.
// It verifies id tokens through OIDC discovery and returns claim facts
// only; session issuance happens in the handler layer.
type Provider struct {
	domain      string
	clientID    string
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
}

func New(
	ctx context.Context,
	domain string,
	clientID string,
	clientSecret string,
	redirectURL string,
) (*Provider, error) {

	if domain == "" || clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("auth0 oauth config missing required fields")
	}

	issuer := "https://" + domain + "/"
	oidcProvider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init auth0 oidc provider: %w", err)
	}

	verifier := oidcProvider.Verifier(&oidc.Config{
		ClientID: clientID,
	})

	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     oidcProvider.Endpoint(),
		Scopes: []string{
			oidc.ScopeOpenID,
			"profile",
			"email",
		},
	}

	return &Provider{
		domain:      domain,
		clientID:    clientID,
		oauthConfig: oauthCfg,
		verifier:    verifier,
	}, nil
}

// AuthCodeURL builds the hosted-login URL with PKCE parameters.
// forceLogin adds prompt=login so a live SSO session is not reused;
// required after a merge, when old claims no longer describe the account.
func (p *Provider) AuthCodeURL(state string, codeChallenge string, forceLogin bool) string {
	opts := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	}
	if forceLogin {
		opts = append(opts, oauth2.SetAuthURLParam("prompt", "login"))
	}
	return p.oauthConfig.AuthCodeURL(state, opts...)
}

func (p *Provider) ExchangeCode(
	ctx context.Context,
	code string,
	codeVerifier string,
) (*auth.AuthenticatedUser, error) {

	token, err := p.oauthConfig.Exchange(
		ctx,
		code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		return nil, fmt.Errorf("auth0 token exchange failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("auth0 did not return id_token")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("auth0 id_token verification failed: %w", err)
	}

	var claims struct {
		Subject string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}

	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("auth0 id_token claims parse failed: %w", err)
	}

	if claims.Subject == "" || claims.Email == "" {
		return nil, errors.New("auth0 id_token missing required claims")
	}

	return &auth.AuthenticatedUser{
		SubjectID: claims.Subject,
		Email:     claims.Email,
		Name:      claims.Name,
		Picture:   claims.Picture,
	}, nil
}

// LogoutURL builds the federated logout URL. The provider ends its own
// session and then sends the browser to returnTo.
func (p *Provider) LogoutURL(returnTo string) string {
	q := url.Values{}
	q.Set("client_id", p.clientID)
	q.Set("returnTo", returnTo)
	return "https://" + p.domain + "/v2/logout?" + q.Encode()
}
