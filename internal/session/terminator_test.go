package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	deleteErr error
	deleted   []string
	sessions  map[string]Session
}

func (f *fakeStore) Create(_ context.Context, s Session) error {
	if f.sessions == nil {
		f.sessions = map[string]Session{}
	}
	f.sessions[s.SessionID] = s
	return nil
}

func (f *fakeStore) Get(_ context.Context, id string) (*Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func logoutURL(returnTo string) string {
	return "https://tenant.auth0.local/v2/logout?returnTo=" + returnTo
}

func clearedSessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie set", CookieName)
	return nil
}

func TestTerminateDeletesSessionAndClearsCookie(t *testing.T) {
	store := &fakeStore{}
	term := NewTerminator(store, logoutURL)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/logout", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "sess-123"})

	redirect := term.Terminate(context.Background(), w, r, "https://app.local")

	assert.Equal(t, []string{"sess-123"}, store.deleted)
	assert.Equal(t, "https://tenant.auth0.local/v2/logout?returnTo=https://app.local", redirect)

	cookie := clearedSessionCookie(t, w)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestTerminateContinuesWhenLocalDeleteFails(t *testing.T) {
	store := &fakeStore{deleteErr: errors.New("redis down")}
	term := NewTerminator(store, logoutURL)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/logout", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "sess-123"})

	redirect := term.Terminate(context.Background(), w, r, "https://app.local")

	// Federated half still happens even when the local half fails.
	require.NotEmpty(t, redirect)
	assert.Contains(t, redirect, "/v2/logout")

	cookie := clearedSessionCookie(t, w)
	assert.Negative(t, cookie.MaxAge)
}

func TestTerminateWithoutCookieStillRedirects(t *testing.T) {
	store := &fakeStore{}
	term := NewTerminator(store, logoutURL)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/logout", nil)

	redirect := term.Terminate(context.Background(), w, r, "https://app.local")

	assert.Empty(t, store.deleted)
	assert.Contains(t, redirect, "/v2/logout")
}
