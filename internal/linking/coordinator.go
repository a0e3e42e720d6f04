package linking

import (
	"context"
	"log/slog"
	"net/http"
)

// ManagementAPI is the slice of the management client the coordinators
// drive. Both operations mutate remote state only.
type ManagementAPI interface {
	LinkIdentity(ctx context.Context, primaryID, provider, secondaryID string) error
	DeleteUser(ctx context.Context, subjectID string) error
}

// SessionEnder terminates the local and federated sessions and returns
// the federated logout URL the browser must be redirected to.
type SessionEnder interface {
	Terminate(ctx context.Context, w http.ResponseWriter, r *http.Request, returnTo string) string
}

// Coordinator drives the link operation and the forced re-authentication
// that must follow it. After a successful merge the old session's claims
// describe the pre-merge account, so both sessions are terminated before
// the caller is sent back through a fresh login.
type Coordinator struct {
	api         ManagementAPI
	sessions    SessionEnder
	reloginPath string // local path starting a forced fresh login
}

func NewCoordinator(api ManagementAPI, sessions SessionEnder, reloginPath string) *Coordinator {
	return &Coordinator{api: api, sessions: sessions, reloginPath: reloginPath}
}

// LinkResult signals the caller what to do after a successful merge.
type LinkResult struct {
	// RedirectURL is the federated logout URL; the provider then
	// returns the browser to the forced-relogin path.
	RedirectURL string
}

// Link merges the secondary account into the primary one. On success it
// terminates both sessions and returns the forced-relogin redirect. On
// failure no session state changes and the upstream error propagates
// verbatim (see management.LinkError).
func (c *Coordinator) Link(ctx context.Context, w http.ResponseWriter, r *http.Request, primaryID, secondaryID, provider string) (LinkResult, error) {
	if err := c.api.LinkIdentity(ctx, primaryID, provider, secondaryID); err != nil {
		return LinkResult{}, err
	}

	slog.Info("accounts linked, forcing re-authentication",
		"primary_subject_id", primaryID,
		"secondary_subject_id", secondaryID,
		"provider", provider,
	)

	redirect := c.sessions.Terminate(ctx, w, r, c.reloginPath)
	return LinkResult{RedirectURL: redirect}, nil
}
