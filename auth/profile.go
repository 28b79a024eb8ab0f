package auth

import (
	"context"
	"encoding/json"
	"fmt"
)

// Address is the postal address attached to a user profile.
type Address struct {
	ID      string `json:"id,omitempty"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// Profile is the user record cached after sign-in.
type Profile struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	PhoneNumber string   `json:"phoneNumber,omitempty"`
	DateOfBirth string   `json:"dateOfBirth,omitempty"`
	Address     *Address `json:"address,omitempty"`
	Role        string   `json:"role"`
	IsActive    bool     `json:"isActive"`
	CreatedAt   string   `json:"createdAt,omitempty"`
	UpdatedAt   string   `json:"updatedAt,omitempty"`
}

// SaveProfile caches the profile in the store.
func SaveProfile(ctx context.Context, store CredentialStore, p Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	return store.Set(ctx, KeyUserProfile, string(data))
}

// LoadProfile returns the cached profile, if any.
func LoadProfile(ctx context.Context, store CredentialStore) (Profile, bool, error) {
	raw, ok, err := store.Get(ctx, KeyUserProfile)
	if err != nil || !ok {
		return Profile{}, false, err
	}
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Profile{}, false, fmt.Errorf("failed to decode cached profile: %w", err)
	}
	return p, true, nil
}
