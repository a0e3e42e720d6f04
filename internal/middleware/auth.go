package middleware

import (
	"net/http"
	"time"

	"github.com/codecooknucleus/secureAuth0/internal/auth"
	"github.com/codecooknucleus/secureAuth0/internal/session"
)

type AuthMiddleware struct {
	Store session.Store
}

func NewAuthMiddleware(store session.Store) *AuthMiddleware {
	return &AuthMiddleware{Store: store}
}

// RequireAuth loads the session behind the request's cookie and attaches
// the authenticated user's claims to the context. Claims are extracted
// exactly once here; handlers receive them as an explicit value.
func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(session.CookieName)
		if err != nil || cookie.Value == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		sessionID := cookie.Value

		sess, err := a.Store.Get(r.Context(), sessionID)
		if err != nil || sess == nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if time.Now().After(sess.ExpiresAt) {
			_ = a.Store.Delete(r.Context(), sessionID)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := auth.WithUser(r.Context(), auth.AuthenticatedUser{
			SubjectID: sess.SubjectID,
			Email:     sess.Email,
			Name:      sess.Name,
			Picture:   sess.Picture,
		})

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
