package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/habedi/tixshell/auth"
	"github.com/rs/zerolog/log"
)

// Backend endpoints, relative to the base URL.
const (
	EndpointAuthRefresh = "/api/auth/refresh"
	EndpointUserProfile = "/api/users/profile"
)

// Envelope is the response wrapper used by the backend services.
type Envelope[T any] struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Data      T      `json:"data"`
	Timestamp string `json:"timestamp,omitempty"`
	ErrorCode string `json:"errorCode,omitempty"`
}

// DecodeEnvelope parses body as an Envelope and returns its data.
// An envelope with success=false is reported as an error.
func DecodeEnvelope[T any](body []byte) (T, error) {
	var env Envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		log.Error().Err(err).Str("body_preview", string(body[:min(len(body), 200)])).Msg("Failed to parse response envelope")
		return env.Data, fmt.Errorf("failed to parse response envelope: %w", err)
	}
	if !env.Success {
		if env.ErrorCode != "" {
			return env.Data, fmt.Errorf("request unsuccessful (%s): %s", env.ErrorCode, env.Message)
		}
		return env.Data, fmt.Errorf("request unsuccessful: %s", env.Message)
	}
	return env.Data, nil
}

// FetchProfile retrieves the signed-in user's profile and caches it in the store.
func (c *Client) FetchProfile(ctx context.Context) (auth.Profile, error) {
	resp, err := c.Get(ctx, EndpointUserProfile)
	if err != nil {
		return auth.Profile{}, fmt.Errorf("failed to fetch profile: %w", err)
	}
	profile, err := DecodeEnvelope[auth.Profile](resp.Body)
	if err != nil {
		return auth.Profile{}, fmt.Errorf("failed to decode profile: %w", err)
	}
	if err := auth.SaveProfile(ctx, c.store, profile); err != nil {
		return auth.Profile{}, fmt.Errorf("failed to cache profile: %w", err)
	}
	log.Info().Str("role", profile.Role).Msg("Profile fetched and cached")
	return profile, nil
}
