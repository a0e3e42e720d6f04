package management

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityProfileDataRoundTrips(t *testing.T) {
	// Provider-specific profile data is opaque; serializing and
	// deserializing must reproduce it byte-for-byte.
	profile := `{"email":"a@x.com","email_verified":true,"name":"Ada Lovelace","given_name":"Ada","family_name":"Lovelace","picture":"https://cdn/p.png","locale":"en"}`

	identity := Identity{
		Provider:    "google-oauth2",
		UserID:      "1234567890",
		Connection:  "google-oauth2",
		IsSocial:    true,
		ProfileData: json.RawMessage(profile),
	}

	encoded, err := json.Marshal(identity)
	require.NoError(t, err)

	var decoded Identity
	require.NoError(t, json.Unmarshal(encoded, &decoded))

	assert.Equal(t, profile, string(decoded.ProfileData))
}

func TestAccountRoundTrip(t *testing.T) {
	wire := `{
		"user_id": "auth0|abc",
		"email": "a@x.com",
		"email_verified": true,
		"name": "Ada",
		"created_at": "2024-05-01T12:00:00.000Z",
		"updated_at": "2024-06-01T08:30:00.000Z",
		"identities": [
			{"provider": "google-oauth2", "user_id": "g1", "connection": "google-oauth2", "isSocial": true, "profileData": {"given_name":"Ada","hd":"example.com"}},
			{"provider": "auth0", "user_id": "abc", "connection": "Username-Password-Authentication", "isSocial": false}
		],
		"app_metadata": {"privacy_policies": true, "privacy_policies_timestamp": 1714564800},
		"user_metadata": {"company_name": "Analytical Engines Ltd"},
		"logins_count": 42
	}`

	var account Account
	require.NoError(t, json.Unmarshal([]byte(wire), &account))

	assert.Equal(t, "auth0|abc", account.SubjectID)
	require.Len(t, account.Identities, 2)
	assert.JSONEq(t, `{"given_name":"Ada","hd":"example.com"}`, string(account.Identities[0].ProfileData))
	assert.True(t, account.PrivacyPoliciesAccepted())
	assert.Equal(t, 42, account.LoginsCount)

	// Re-encoding keeps the opaque maps intact.
	encoded, err := json.Marshal(account)
	require.NoError(t, err)

	var again Account
	require.NoError(t, json.Unmarshal(encoded, &again))
	assert.Equal(t, account.Identities[0].ProfileData, again.Identities[0].ProfileData)
	assert.Equal(t, account.UserMetadata["company_name"], again.UserMetadata["company_name"])
	assert.True(t, again.PrivacyPoliciesAccepted())
}

func TestAccountLinked(t *testing.T) {
	var nilAccount *Account
	assert.False(t, nilAccount.Linked())

	one := &Account{Identities: []Identity{{Provider: "auth0"}}}
	assert.False(t, one.Linked())

	two := &Account{Identities: []Identity{{Provider: "auth0"}, {Provider: "google-oauth2"}}}
	assert.True(t, two.Linked())
}

func TestPrivacyPoliciesAccepted(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]any
		want     bool
	}{
		{"nil metadata", nil, false},
		{"missing key", map[string]any{"other": 1}, false},
		{"accepted", map[string]any{"privacy_policies": true}, true},
		{"declined", map[string]any{"privacy_policies": false}, false},
		{"wrong type", map[string]any{"privacy_policies": "yes"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := &Account{AppMetadata: tc.metadata}
			assert.Equal(t, tc.want, a.PrivacyPoliciesAccepted())
		})
	}
}
