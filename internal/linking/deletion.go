package linking

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/codecooknucleus/secureAuth0/internal/auth"
)

// DeletionCoordinator deletes a remote account and, when the caller
// deleted themself, terminates their session. No local identity cleanup
// happens; deletion semantics are entirely the provider's.
type DeletionCoordinator struct {
	api      ManagementAPI
	sessions SessionEnder
	returnTo string // post-logout landing page for self-deletion
}

func NewDeletionCoordinator(api ManagementAPI, sessions SessionEnder, returnTo string) *DeletionCoordinator {
	return &DeletionCoordinator{api: api, sessions: sessions, returnTo: returnTo}
}

// DeletionResult tells the caller whether they just deleted their own
// account and, if so, where to send the browser.
type DeletionResult struct {
	SelfDeleted bool
	RedirectURL string
}

// Delete removes the account with the given subject id. The upstream
// error propagates verbatim on failure (see management.DeletionError).
func (d *DeletionCoordinator) Delete(ctx context.Context, w http.ResponseWriter, r *http.Request, subjectID string, caller auth.AuthenticatedUser) (DeletionResult, error) {
	if err := d.api.DeleteUser(ctx, subjectID); err != nil {
		return DeletionResult{}, err
	}

	slog.Info("account deleted",
		"subject_id", subjectID,
		"caller_subject_id", caller.SubjectID,
	)

	if subjectID != caller.SubjectID {
		return DeletionResult{}, nil
	}

	redirect := d.sessions.Terminate(ctx, w, r, d.returnTo)
	return DeletionResult{SelfDeleted: true, RedirectURL: redirect}, nil
}
