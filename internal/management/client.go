package management

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Client talks to the identity provider's Management API v2. All calls
// are authenticated with a bearer token from the TokenProvider; an
// upstream 401/403 is retried exactly once with a force-refreshed token.
type Client struct {
	domain string
	tokens TokenProvider
	http   *http.Client
}

// NewClient builds a Management API client for the given tenant domain.
func NewClient(domain string, tokens TokenProvider, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{domain: domain, tokens: tokens, http: httpClient}
}

func (c *Client) endpoint(path string) string {
	return "https://" + c.domain + path
}

// do issues one authenticated request, retrying once on 401/403 with a
// freshly acquired token. It returns the response body and status.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) (int, []byte, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return 0, nil, err
	}

	status, body, err := c.doOnce(ctx, method, path, payload, token)
	if err != nil {
		return 0, nil, err
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		token, err = c.tokens.Refresh(ctx)
		if err != nil {
			return 0, nil, err
		}
		status, body, err = c.doOnce(ctx, method, path, payload, token)
		if err != nil {
			return 0, nil, err
		}
	}

	return status, body, nil
}

func (c *Client) doOnce(ctx context.Context, method, path string, payload []byte, token string) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return 0, nil, &DirectoryError{Kind: KindNetwork, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, &DirectoryError{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &DirectoryError{Kind: KindNetwork, Status: resp.StatusCode, Err: err}
	}

	return resp.StatusCode, body, nil
}

// UserByID fetches one account by its subject id.
func (c *Client) UserByID(ctx context.Context, subjectID string) (*Account, error) {
	path := "/api/v2/users/" + url.PathEscape(subjectID)

	status, body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if err := directoryStatus(status, body); err != nil {
		return nil, err
	}

	var account Account
	if err := json.Unmarshal(body, &account); err != nil {
		return nil, &DirectoryError{Kind: KindMalformed, Status: status, Body: string(body), Err: err}
	}
	account.normalize()

	return &account, nil
}

// UsersByEmail fetches every account registered under the given email.
// Zero matches yields an empty slice, not an error.
func (c *Client) UsersByEmail(ctx context.Context, email string) ([]Account, error) {
	path := "/api/v2/users-by-email?email=" + url.QueryEscape(email)

	status, body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if err := directoryStatus(status, body); err != nil {
		return nil, err
	}

	var accounts []Account
	if err := json.Unmarshal(body, &accounts); err != nil {
		return nil, &DirectoryError{Kind: KindMalformed, Status: status, Body: string(body), Err: err}
	}
	if accounts == nil {
		accounts = []Account{}
	}
	for i := range accounts {
		accounts[i].normalize()
	}

	return accounts, nil
}

// LinkIdentity merges the secondary account into the primary one by
// attaching it as an additional identity.
func (c *Client) LinkIdentity(ctx context.Context, primaryID, provider, secondaryID string) error {
	payload, err := json.Marshal(map[string]string{
		"provider": provider,
		"user_id":  secondaryID,
	})
	if err != nil {
		return fmt.Errorf("management: encode link request: %w", err)
	}

	path := "/api/v2/users/" + url.PathEscape(primaryID) + "/identities"

	status, body, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return &LinkError{Status: status, Body: string(body)}
	}

	return nil
}

// DeleteUser removes an account at the provider. Deletion semantics are
// entirely remote; nothing is cleaned up locally.
func (c *Client) DeleteUser(ctx context.Context, subjectID string) error {
	path := "/api/v2/users/" + url.PathEscape(subjectID)

	status, body, err := c.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return &DeletionError{Status: status, Body: string(body)}
	}

	return nil
}

func directoryStatus(status int, body []byte) error {
	switch {
	case status >= 200 && status <= 299:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		// Still unauthorized after the one refresh-and-retry.
		return &DirectoryError{Kind: KindUnauthorized, Status: status, Body: string(body)}
	default:
		return &DirectoryError{Kind: KindUpstream, Status: status, Body: string(body)}
	}
}
