package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/habedi/tixshell/auth"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// errNoRefreshToken means the store holds no complete credential pair.
var errNoRefreshToken = errors.New("no refresh token stored")

const refreshFlightKey = "refresh"

// refresher exchanges the stored refresh token for a new access token.
// Concurrent callers share one in-flight refresh call.
type refresher struct {
	http    *http.Client
	store   auth.CredentialStore
	url     string
	timeout time.Duration
	session auth.Invalidator
	single  singleflight.Group
}

type refreshPayload struct {
	Token        string `json:"token"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// refreshResponse accepts the tokens at the top level or inside the
// {success, data, ...} envelope used by the backend services.
type refreshResponse struct {
	refreshPayload
	Data *refreshPayload `json:"data"`
}

func (r refreshResponse) tokens() (access, refresh string) {
	candidates := []refreshPayload{r.refreshPayload}
	if r.Data != nil {
		candidates = append([]refreshPayload{*r.Data}, candidates...)
	}
	for _, p := range candidates {
		if access == "" {
			access = firstNonEmpty(p.Token, p.AccessToken)
		}
		if refresh == "" {
			refresh = p.RefreshToken
		}
	}
	return access, refresh
}

// obtain returns an access token to replay with. sentToken is the token
// the failed request carried. If the store already holds a different
// complete pair, another request refreshed in the meantime and its token
// is used without a new refresh call. Otherwise the caller joins the
// shared refresh. Cancelling ctx stops the wait but not the refresh.
//
// A failed refresh ends the session before the flight completes, so a
// request arriving after the failure finds no refresh token and cannot
// start a second refresh call.
func (r *refresher) obtain(ctx context.Context, sentToken string) (string, error) {
	pair, ok, err := auth.LoadPair(ctx, r.store)
	if err != nil {
		return "", err
	}
	if ok && pair.AccessToken != sentToken {
		log.Debug().Msg("Access token already replaced, skipping refresh")
		return pair.AccessToken, nil
	}

	ch := r.single.DoChan(refreshFlightKey, func() (any, error) {
		detached := context.WithoutCancel(ctx)
		flightCtx, cancel := context.WithTimeout(detached, r.timeout)
		defer cancel()
		token, err := r.refresh(flightCtx, sentToken)
		if err != nil {
			if _, invErr := r.session.Invalidate(detached); invErr != nil {
				log.Error().Err(invErr).Msg("Failed to invalidate session after refresh failure")
			}
			return "", err
		}
		return token, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// refresh performs the refresh call. It bypasses the interceptor so a
// failing refresh never triggers another refresh.
//
// The pair is read again inside the flight: a request that passed the
// check in obtain may join only after an earlier flight stored a new
// token, and then that token is returned without a network call. A
// partial pair counts as no credential.
func (r *refresher) refresh(ctx context.Context, sentToken string) (string, error) {
	pair, ok, err := auth.LoadPair(ctx, r.store)
	if err != nil {
		return "", fmt.Errorf("failed to read credentials: %w", err)
	}
	if !ok {
		return "", errNoRefreshToken
	}
	if pair.AccessToken != sentToken {
		log.Debug().Msg("Access token replaced by an earlier refresh")
		return pair.AccessToken, nil
	}
	refreshToken := pair.RefreshToken

	payload, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return "", fmt.Errorf("failed to encode refresh request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create refresh request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Accept", contentTypeJSON)

	log.Info().Str("url", r.url).Msg("Refreshing access token")
	resp, err := r.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to post refresh request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read refresh response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("token refresh failed with status %d", resp.StatusCode)
	}

	var result refreshResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse refresh response: %w", err)
	}
	access, rotated := result.tokens()
	if access == "" {
		return "", fmt.Errorf("refresh response carried no access token")
	}

	if err := r.store.Set(ctx, auth.KeyAccessToken, access); err != nil {
		return "", fmt.Errorf("failed to save refreshed access token: %w", err)
	}
	if rotated != "" && rotated != refreshToken {
		if err := r.store.Set(ctx, auth.KeyRefreshToken, rotated); err != nil {
			return "", fmt.Errorf("failed to save rotated refresh token: %w", err)
		}
	}
	log.Info().Bool("rotated", rotated != "" && rotated != refreshToken).Msg("Token refreshed and saved successfully.")
	return access, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
