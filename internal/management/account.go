package management

import (
	"encoding/json"
	"time"
)

// Account is one user record at the identity provider. Accounts are
// read-only projections of remote state, fetched per request and never
// persisted locally.
type Account struct {
	SubjectID     string         `json:"user_id"`
	Email         string         `json:"email"`
	EmailVerified bool           `json:"email_verified"`
	Name          string         `json:"name"`
	Nickname      string         `json:"nickname,omitempty"`
	Picture       string         `json:"picture,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	Identities    []Identity     `json:"identities"`
	AppMetadata   map[string]any `json:"app_metadata,omitempty"`
	UserMetadata  map[string]any `json:"user_metadata,omitempty"`
	LastLogin     time.Time      `json:"last_login,omitempty"`
	LoginsCount   int            `json:"logins_count,omitempty"`
}

// Identity is one federated-provider linkage inside an Account.
// ProfileData is provider-specific and opaque; keeping it as raw JSON
// lets it round-trip without interpretation.
type Identity struct {
	Provider    string          `json:"provider"`
	UserID      string          `json:"user_id"`
	Connection  string          `json:"connection"`
	IsSocial    bool            `json:"isSocial"`
	ProfileData json.RawMessage `json:"profileData,omitempty"`
}

// Linked reports whether the account carries more than one identity.
func (a *Account) Linked() bool {
	return a != nil && len(a.Identities) > 1
}

// PrivacyPoliciesAccepted reads the consent flag from app_metadata.
func (a *Account) PrivacyPoliciesAccepted() bool {
	if a == nil || a.AppMetadata == nil {
		return false
	}
	accepted, _ := a.AppMetadata["privacy_policies"].(bool)
	return accepted
}

// normalize enforces the wire invariant that identities is never nil.
func (a *Account) normalize() {
	if a.Identities == nil {
		a.Identities = []Identity{}
	}
}
