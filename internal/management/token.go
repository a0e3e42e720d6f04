package management

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// TokenProvider supplies bearer tokens for Management API calls.
// Refresh discards any cached token and acquires a fresh one; callers
// use it after an upstream 401/403.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
}

// Token is an opaque bearer token with its declared expiry.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// ClientCredentials performs the client-credentials grant against the
// provider's token endpoint. It holds no state; every call issues a
// fresh exchange. Wrap it in a CachedTokenProvider for reuse.
type ClientCredentials struct {
	Domain       string
	ClientID     string
	ClientSecret string
	Audience     string
	HTTPClient   *http.Client
}

func (c *ClientCredentials) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// Acquire exchanges the machine credentials for a management token.
func (c *ClientCredentials) Acquire(ctx context.Context) (Token, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.ClientID)
	form.Set("client_secret", c.ClientSecret)
	form.Set("audience", c.Audience)

	endpoint := "https://" + c.Domain + "/oauth/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, &AuthError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return Token{}, &AuthError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Token{}, &AuthError{Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Token{}, &AuthError{Status: resp.StatusCode, Body: string(body)}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return Token{}, &AuthError{Status: resp.StatusCode, Body: string(body), Err: err}
	}
	if tr.AccessToken == "" {
		return Token{}, &AuthError{Status: resp.StatusCode, Body: string(body)}
	}

	return Token{
		AccessToken: tr.AccessToken,
		ExpiresAt:   time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second),
	}, nil
}

// Token implements TokenProvider without caching.
func (c *ClientCredentials) Token(ctx context.Context) (string, error) {
	t, err := c.Acquire(ctx)
	if err != nil {
		return "", err
	}
	return t.AccessToken, nil
}

// Refresh implements TokenProvider.
func (c *ClientCredentials) Refresh(ctx context.Context) (string, error) {
	return c.Token(ctx)
}

// Acquirer is the exchange step a CachedTokenProvider wraps.
type Acquirer interface {
	Acquire(ctx context.Context) (Token, error)
}

// CachedTokenProvider caches a management token until its expiry minus a
// safety margin. Concurrent refreshes collapse into a single exchange.
type CachedTokenProvider struct {
	source Acquirer
	margin time.Duration

	mu     sync.Mutex
	cached Token

	group singleflight.Group
}

// NewCachedTokenProvider wraps source with a TTL cache. A margin of zero
// defaults to 60 seconds.
func NewCachedTokenProvider(source Acquirer, margin time.Duration) *CachedTokenProvider {
	if margin <= 0 {
		margin = 60 * time.Second
	}
	return &CachedTokenProvider{source: source, margin: margin}
}

func (p *CachedTokenProvider) current() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cached.AccessToken == "" {
		return "", false
	}
	if time.Now().After(p.cached.ExpiresAt.Add(-p.margin)) {
		return "", false
	}
	return p.cached.AccessToken, true
}

func (p *CachedTokenProvider) acquire(ctx context.Context) (string, error) {
	v, err, _ := p.group.Do("token", func() (any, error) {
		t, err := p.source.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.cached = t
		p.mu.Unlock()
		return t.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Token returns the cached token, refreshing it when it is missing or
// inside the expiry margin.
func (p *CachedTokenProvider) Token(ctx context.Context) (string, error) {
	if tok, ok := p.current(); ok {
		return tok, nil
	}
	return p.acquire(ctx)
}

// Refresh drops the cached token and acquires a new one.
func (p *CachedTokenProvider) Refresh(ctx context.Context) (string, error) {
	p.mu.Lock()
	p.cached = Token{}
	p.mu.Unlock()
	return p.acquire(ctx)
}
