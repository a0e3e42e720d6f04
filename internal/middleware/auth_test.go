package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codecooknucleus/secureAuth0/internal/auth"
	"github.com/codecooknucleus/secureAuth0/internal/session"
)

type memoryStore struct {
	sessions map[string]session.Session
	deleted  []string
}

func (m *memoryStore) Create(_ context.Context, s session.Session) error {
	if m.sessions == nil {
		m.sessions = map[string]session.Session{}
	}
	m.sessions[s.SessionID] = s
	return nil
}

func (m *memoryStore) Get(_ context.Context, id string) (*session.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.sessions, id)
	return nil
}

func TestRequireAuth(t *testing.T) {
	store := &memoryStore{sessions: map[string]session.Session{
		"valid": {
			SessionID: "valid",
			SubjectID: "auth0|abc",
			Email:     "a@x.com",
			Name:      "Ada",
			Picture:   "https://cdn/p.png",
			ExpiresAt: time.Now().Add(time.Hour),
		},
		"expired": {
			SessionID: "expired",
			SubjectID: "auth0|old",
			Email:     "old@x.com",
			ExpiresAt: time.Now().Add(-time.Minute),
		},
	}}
	mw := NewAuthMiddleware(store)

	var gotUser auth.AuthenticatedUser
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotOK = auth.UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := mw.RequireAuth(next)

	t.Run("no cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/account/profile", nil)
		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown session", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/account/profile", nil)
		r.AddCookie(&http.Cookie{Name: session.CookieName, Value: "missing"})
		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired session is rejected and deleted", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/account/profile", nil)
		r.AddCookie(&http.Cookie{Name: session.CookieName, Value: "expired"})
		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, store.deleted, "expired")
	})

	t.Run("valid session attaches claims", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/account/profile", nil)
		r.AddCookie(&http.Cookie{Name: session.CookieName, Value: "valid"})
		handler.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		require.True(t, gotOK)
		assert.Equal(t, "auth0|abc", gotUser.SubjectID)
		assert.Equal(t, "a@x.com", gotUser.Email)
		assert.Equal(t, "Ada", gotUser.Name)
		assert.Equal(t, "https://cdn/p.png", gotUser.Picture)
	})
}
