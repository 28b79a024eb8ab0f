package auth

import "context"

// Logical names of the entries the client keeps in a CredentialStore.
const (
	KeyAccessToken  = "auth_token"
	KeyRefreshToken = "refresh_token"
	KeyUserProfile  = "user_profile"
)

// sessionKeys lists every entry that belongs to a signed-in session.
var sessionKeys = []string{KeyAccessToken, KeyRefreshToken, KeyUserProfile}

// CredentialStore defines the contract for a scoped key-value store holding session credentials.
// Get reports ok=false for a missing key; that is not an error.
type CredentialStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Invalidator ends the current session. Implemented by *Session.
type Invalidator interface {
	Invalidate(ctx context.Context) (bool, error)
}
