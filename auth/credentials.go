package auth

import (
	"context"
	"fmt"
)

// Pair is the access and refresh credential of a session.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Complete reports whether both tokens are present.
func (p Pair) Complete() bool {
	return p.AccessToken != "" && p.RefreshToken != ""
}

// LoadPair reads the credential pair from the store.
// A partial pair is reported as absent (ok=false).
func LoadPair(ctx context.Context, store CredentialStore) (Pair, bool, error) {
	access, _, err := store.Get(ctx, KeyAccessToken)
	if err != nil {
		return Pair{}, false, fmt.Errorf("failed to read access token: %w", err)
	}
	refresh, _, err := store.Get(ctx, KeyRefreshToken)
	if err != nil {
		return Pair{}, false, fmt.Errorf("failed to read refresh token: %w", err)
	}
	p := Pair{AccessToken: access, RefreshToken: refresh}
	if !p.Complete() {
		return Pair{}, false, nil
	}
	return p, true, nil
}

// SavePair writes both tokens to the store.
func SavePair(ctx context.Context, store CredentialStore, p Pair) error {
	if !p.Complete() {
		return fmt.Errorf("access token and refresh token are both required")
	}
	if err := store.Set(ctx, KeyRefreshToken, p.RefreshToken); err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	if err := store.Set(ctx, KeyAccessToken, p.AccessToken); err != nil {
		return fmt.Errorf("failed to save access token: %w", err)
	}
	return nil
}
