package web

import (
	"context"
	"net/http"

	"github.com/habedi/tixshell/auth"
	"github.com/rs/zerolog/log"
)

type ctxKey int

const stateKey ctxKey = iota

// SessionView is what the shell needs from the session.
type SessionView interface {
	State(ctx context.Context) (auth.State, error)
	auth.Invalidator
}

// loadState reads the session view once per request and stores it in the context.
func loadState(session SessionView) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state, err := session.State(r.Context())
			if err != nil {
				log.Error().Err(err).Msg("Failed to read session state")
				state = auth.State{}
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), stateKey, state)))
		})
	}
}

func stateFrom(ctx context.Context) auth.State {
	s, _ := ctx.Value(stateKey).(auth.State)
	return s
}

// guard enforces access: signed-out visitors are sent to /login and
// sessions without a permitted role get 403.
func guard(access Access, p *pages) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := stateFrom(r.Context())
			if access == Public || access.Allows(state) {
				next.ServeHTTP(w, r)
				return
			}
			if !state.Authenticated {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			log.Debug().Str("path", r.URL.Path).Str("role", state.Role).Msg("Access denied")
			p.render(w, r, http.StatusForbidden, page{
				Title:   "Access Denied",
				Message: "You don't have permission to view this page.",
			})
		})
	}
}
