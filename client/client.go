package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/habedi/tixshell/auth"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Defaults mirror the values the backend gateway expects.
const (
	DefaultBaseURL     = "http://localhost:8081"
	DefaultTimeout     = 10 * time.Second
	DefaultRefreshPath = EndpointAuthRefresh
)

// Options configures a Client. Zero values fall back to the defaults.
type Options struct {
	BaseURL        string
	Timeout        time.Duration
	RefreshTimeout time.Duration
	RefreshPath    string
	HTTPClient     *http.Client
}

// Client sends requests with the stored bearer credential and recovers
// from a 401 by refreshing the credential once and replaying the request.
type Client struct {
	baseURL   string
	http      *http.Client
	timeout   time.Duration
	store     auth.CredentialStore
	session   auth.Invalidator
	refresher *refresher
}

// New creates a Client. The session is invalidated whenever a 401 cannot be recovered.
func New(opts Options, store auth.CredentialStore, session auth.Invalidator) (*Client, error) {
	if store == nil {
		return nil, fmt.Errorf("credential store is required")
	}
	if session == nil {
		return nil, fmt.Errorf("session invalidator is required")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if !isAbsoluteURL(opts.BaseURL) {
		return nil, fmt.Errorf("base URL must be absolute, got %q", opts.BaseURL)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RefreshTimeout <= 0 {
		opts.RefreshTimeout = opts.Timeout
	}
	if opts.RefreshPath == "" {
		opts.RefreshPath = DefaultRefreshPath
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		timeout: opts.Timeout,
		store:   store,
		session: session,
		refresher: &refresher{
			http:    httpClient,
			store:   store,
			url:     joinURL(baseURL, opts.RefreshPath),
			timeout: opts.RefreshTimeout,
			session: session,
		},
	}, nil
}

// BaseURL returns the origin requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, NewRequest(http.MethodGet, path))
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, NewRequest(http.MethodDelete, path))
}

// Post sends body as JSON with POST.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.doJSON(ctx, http.MethodPost, path, body)
}

// Put sends body as JSON with PUT.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.doJSON(ctx, http.MethodPut, path, body)
}

// Patch sends body as JSON with PATCH.
func (c *Client) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.doJSON(ctx, http.MethodPatch, path, body)
}

// Upload sends form as multipart/form-data with POST.
func (c *Client) Upload(ctx context.Context, path string, form Form) (*Response, error) {
	req, err := NewUploadRequest(path, form)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any) (*Response, error) {
	req, err := NewJSONRequest(method, path, body)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// Do sends req and returns the response.
//
// A non-2xx response is returned together with a *StatusError. A request
// that got no response returns a *TransportError. The first 401 of a
// request is never returned directly: the credential is refreshed and the
// request replayed once, and the caller sees the replay's outcome. If the
// 401 cannot be recovered the session is invalidated and the original 401
// is returned.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	r := *req
	r.Header = req.Header.Clone()
	r.retried = false
	if r.requestID == "" {
		r.requestID = uuid.NewString()
	}
	c.trace(&r, stateInitial).Msg("Preparing request")

	resp, err := c.send(ctx, &r)
	if err != nil {
		c.trace(&r, stateFailed).Err(err).Msg("Request failed")
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		c.trace(&r, outcome(resp)).Int("status", resp.StatusCode).Msg("Request finished")
		return statusResult(&r, resp)
	}
	return c.recoverUnauthorized(ctx, &r, resp)
}

// recoverUnauthorized runs the refresh-and-replay protocol for a request
// that received its first 401.
func (c *Client) recoverUnauthorized(ctx context.Context, r *Request, original *Response) (*Response, error) {
	replay := r.replay()
	c.trace(r, stateRefreshing).Msg("Received 401, refreshing credentials")

	token, err := c.refresher.obtain(ctx, r.sentToken)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			c.trace(r, stateFailed).Err(ctxErr).Msg("Request cancelled while waiting for refresh")
			return nil, &TransportError{Method: r.Method, Path: r.Path, Err: ctxErr}
		}
		if errors.Is(err, errNoRefreshToken) {
			c.trace(r, stateFailed).Msg("No refresh token stored")
		} else {
			c.trace(r, stateFailed).Err(err).Msg("Credential refresh failed")
		}
		// A refresh failure already ended the session inside the flight.
		// A store read failure in obtain never reached the flight and
		// leaves the session alone.
		return statusResult(r, original)
	}

	c.trace(replay, stateReplayed).Msg("Replaying request with refreshed credentials")
	resp, err := c.dispatch(ctx, replay, token)
	if err != nil {
		c.trace(replay, stateFailed).Err(err).Msg("Replay failed")
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		c.trace(replay, stateFailed).Msg("Replay rejected with 401")
		c.endSession(ctx)
	} else {
		c.trace(replay, outcome(resp)).Int("status", resp.StatusCode).Msg("Replay finished")
	}
	return statusResult(replay, resp)
}

// send attaches the stored access token, if any, and dispatches r.
func (c *Client) send(ctx context.Context, r *Request) (*Response, error) {
	pair, ok, err := auth.LoadPair(ctx, c.store)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}
	token := ""
	if ok {
		token = pair.AccessToken
	}
	return c.dispatch(ctx, r, token)
}

// dispatch performs one network call under the client timeout.
func (c *Client) dispatch(ctx context.Context, r *Request, token string) (*Response, error) {
	httpReq, err := r.build(c.baseURL)
	if err != nil {
		return nil, err
	}
	r.sentToken = token
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	c.trace(r, stateAttempted).Bool("authenticated", token != "").Msg("Sending HTTP request")

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.http.Do(httpReq.WithContext(callCtx))
	if err != nil {
		return nil, &TransportError{Method: r.Method, Path: r.Path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: r.Method, Path: r.Path, Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

// endSession invalidates the session; a failure is logged because the
// caller is already getting the authorization error.
func (c *Client) endSession(ctx context.Context) {
	if _, err := c.session.Invalidate(context.WithoutCancel(ctx)); err != nil {
		log.Error().Err(err).Msg("Failed to invalidate session")
	}
}

func (c *Client) trace(r *Request, s attemptState) *zerolog.Event {
	return log.Debug().
		Str("request_id", r.requestID).
		Str("method", r.Method).
		Str("path", r.Path).
		Bool("retried", r.retried).
		Stringer("state", s)
}
