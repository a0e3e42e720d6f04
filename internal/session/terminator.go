package session

import (
	"context"
	"log/slog"
	"net/http"
)

// LogoutURLBuilder returns the federated provider's logout URL with the
// given post-logout return target.
type LogoutURLBuilder func(returnTo string) string

// Terminator ends both halves of an authenticated session: the local
// cookie-backed one and the federated provider's one. Local termination
// is best-effort; a store failure is logged and the federated half
// still proceeds.
type Terminator struct {
	store     Store
	logoutURL LogoutURLBuilder
}

func NewTerminator(store Store, logoutURL LogoutURLBuilder) *Terminator {
	return &Terminator{store: store, logoutURL: logoutURL}
}

// Terminate deletes the server-side session, clears the session cookie,
// and returns the federated logout URL the browser must be sent to.
// returnTo is where the provider redirects after its own sign-out.
func (t *Terminator) Terminate(ctx context.Context, w http.ResponseWriter, r *http.Request, returnTo string) string {
	cookie, err := r.Cookie(CookieName)
	if err == nil && cookie.Value != "" {
		if err := t.store.Delete(ctx, cookie.Value); err != nil {
			slog.Error("failed to delete session, continuing with logout",
				"session_id", cookie.Value,
				"error", err,
			)
		}
	}

	ClearCookie(w, CookieOptions{
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return t.logoutURL(returnTo)
}
