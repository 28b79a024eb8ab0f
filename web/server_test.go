package web_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/habedi/tixshell/auth"
	"github.com/habedi/tixshell/db"
	"github.com/habedi/tixshell/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionWithRole(t *testing.T, role string) *auth.Session {
	t.Helper()
	store := db.NewMemoryCredentialRepository()
	session := auth.NewSession(store)
	if role == "" {
		return session
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": role}).SignedString([]byte("k"))
	require.NoError(t, err)
	require.NoError(t, auth.SavePair(context.Background(), store, auth.Pair{AccessToken: token, RefreshToken: "R1"}))
	return session
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRouter_Access(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		path       string
		wantStatus int
	}{
		{"public home signed out", "", "/", http.StatusOK},
		{"public event signed out", "", "/events/42", http.StatusOK},
		{"login signed out", "", "/login", http.StatusOK},
		{"profile signed out", "", "/profile", http.StatusFound},
		{"ticket signed out", "", "/tickets/7", http.StatusFound},
		{"dashboard signed out", "", "/dashboard", http.StatusFound},
		{"profile as user", auth.RoleUser, "/profile", http.StatusOK},
		{"my tickets as user", auth.RoleUser, "/my-tickets", http.StatusOK},
		{"dashboard as user", auth.RoleUser, "/dashboard", http.StatusForbidden},
		{"create event as user", auth.RoleUser, "/events/create", http.StatusForbidden},
		{"edit event as organizer", auth.RoleOrganizer, "/events/9/edit", http.StatusOK},
		{"dashboard as admin", auth.RoleAdmin, "/dashboard", http.StatusOK},
		{"unknown path", auth.RoleAdmin, "/nowhere", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, web.NewRouter(sessionWithRole(t, tt.role)), tt.path)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusFound {
				assert.Equal(t, "/login", rec.Header().Get("Location"))
			}
		})
	}
}

func TestRouter_PageContent(t *testing.T) {
	h := web.NewRouter(sessionWithRole(t, auth.RoleUser))

	rec := get(t, h, "/events")
	assert.Contains(t, rec.Body.String(), "Coming soon.")
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	rec = get(t, h, "/dashboard")
	assert.Contains(t, rec.Body.String(), "Access Denied")

	rec = get(t, h, "/nowhere")
	assert.Contains(t, rec.Body.String(), "Page Not Found")
}

func TestRouter_NavFollowsRole(t *testing.T) {
	signedOut := get(t, web.NewRouter(sessionWithRole(t, "")), "/").Body.String()
	assert.NotContains(t, signedOut, `href="/my-tickets"`)
	assert.NotContains(t, signedOut, `href="/dashboard"`)
	assert.Contains(t, signedOut, `href="/login"`)

	user := get(t, web.NewRouter(sessionWithRole(t, auth.RoleUser)), "/").Body.String()
	assert.Contains(t, user, `href="/my-tickets"`)
	assert.NotContains(t, user, `href="/dashboard"`)
	assert.Contains(t, user, `action="/logout"`)

	organizer := get(t, web.NewRouter(sessionWithRole(t, auth.RoleOrganizer)), "/").Body.String()
	assert.Contains(t, organizer, `href="/dashboard"`)
}

func TestRouter_LogoutEndsSession(t *testing.T) {
	session := sessionWithRole(t, auth.RoleUser)
	signal, cancel := session.Subscribe()
	defer cancel()
	h := web.NewRouter(session)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	select {
	case <-signal:
	default:
		t.Fatal("logout did not signal session end")
	}
	assert.Equal(t, http.StatusFound, get(t, h, "/profile").Code)
}

func TestRouter_SeesInvalidationFromElsewhere(t *testing.T) {
	session := sessionWithRole(t, auth.RoleUser)
	h := web.NewRouter(session)
	require.Equal(t, http.StatusOK, get(t, h, "/profile").Code)

	_, err := session.Invalidate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, get(t, h, "/profile").Code)
}

func TestNav(t *testing.T) {
	labels := func(items []web.NavItem) []string {
		var out []string
		for _, i := range items {
			out = append(out, i.Label)
		}
		return out
	}
	assert.Equal(t, []string{"Home", "Events"}, labels(web.Nav(auth.State{})))
	assert.Equal(t, []string{"Home", "Events", "My Tickets"}, labels(web.Nav(auth.State{Authenticated: true, Role: auth.RoleUser})))
	assert.Equal(t, []string{"Home", "Events", "My Tickets", "Dashboard"}, labels(web.Nav(auth.State{Authenticated: true, Role: auth.RoleAdmin})))
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	session := sessionWithRole(t, "")
	srv := web.NewServer("127.0.0.1:0", session, session)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	cancel()
	assert.NoError(t, <-done)
}
