package linking

import (
	"encoding/json"
	"time"

	"github.com/codecooknucleus/secureAuth0/internal/management"
)

// The functions in this file are the consolidation decision core. They
// are pure and total over an already-fetched account list for one email;
// no I/O happens here.

// HasUnlinkedMultipleAccounts reports whether separate accounts exist
// for one email, i.e. candidates for a merge. It is independent of
// whether any individual account is itself linked.
func HasUnlinkedMultipleAccounts(accounts []management.Account) bool {
	return len(accounts) > 1
}

// HasLinkedAccounts reports whether the email resolves to exactly one
// account that already carries multiple identities.
func HasLinkedAccounts(accounts []management.Account) bool {
	return len(accounts) == 1 && len(accounts[0].Identities) > 1
}

// PrimaryAccount selects the account that should survive or represent a
// merge: the first one (in received order) with multiple identities,
// falling back to the first account. Returns nil for an empty list.
// Order is never re-sorted; received order is the tie-break.
func PrimaryAccount(accounts []management.Account) *management.Account {
	if len(accounts) == 0 {
		return nil
	}
	if len(accounts) == 1 {
		return &accounts[0]
	}
	for i := range accounts {
		if len(accounts[i].Identities) > 1 {
			return &accounts[i]
		}
	}
	return &accounts[0]
}

// IdentityDetail is the caller-facing projection of one linked identity.
type IdentityDetail struct {
	Provider    string          `json:"provider"`
	UserID      string          `json:"userId"`
	Connection  string          `json:"connection"`
	IsSocial    bool            `json:"isSocial"`
	ProfileData json.RawMessage `json:"profileData,omitempty"`
}

// LinkedIdentityDetails projects an account's identities in order.
// A nil account or one without identities yields an empty slice.
func LinkedIdentityDetails(account *management.Account) []IdentityDetail {
	if account == nil || len(account.Identities) == 0 {
		return []IdentityDetail{}
	}
	details := make([]IdentityDetail, 0, len(account.Identities))
	for _, identity := range account.Identities {
		details = append(details, IdentityDetail{
			Provider:    identity.Provider,
			UserID:      identity.UserID,
			Connection:  identity.Connection,
			IsSocial:    identity.IsSocial,
			ProfileData: identity.ProfileData,
		})
	}
	return details
}

// AccountSummary is the primary-account projection rendered to callers.
type AccountSummary struct {
	SubjectID string `json:"userId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Picture   string `json:"picture,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Summary bundles every derived fact the account views need.
type Summary struct {
	HasLinkedAccounts           bool             `json:"hasLinkedAccounts"`
	HasUnlinkedMultipleAccounts bool             `json:"hasUnlinkedMultipleAccounts"`
	TotalAccounts               int              `json:"totalAccounts"`
	PrimaryAccount              *AccountSummary  `json:"primaryAccount"`
	LinkedAccounts              []IdentityDetail `json:"linkedAccounts"`
}

// Summarize computes the full consolidation summary for one email's
// accounts.
func Summarize(accounts []management.Account) Summary {
	primary := PrimaryAccount(accounts)

	summary := Summary{
		HasLinkedAccounts:           HasLinkedAccounts(accounts),
		HasUnlinkedMultipleAccounts: HasUnlinkedMultipleAccounts(accounts),
		TotalAccounts:               len(accounts),
		LinkedAccounts:              LinkedIdentityDetails(primary),
	}

	if primary != nil {
		summary.PrimaryAccount = &AccountSummary{
			SubjectID: primary.SubjectID,
			Name:      primary.Name,
			Email:     primary.Email,
			Picture:   primary.Picture,
			CreatedAt: formatTime(primary.CreatedAt),
			UpdatedAt: formatTime(primary.UpdatedAt),
		}
	}

	return summary
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
