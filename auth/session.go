package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// Roles known to the route guards.
const (
	RoleUser      = "USER"
	RoleAdmin     = "ADMIN"
	RoleOrganizer = "ORGANIZER"
)

// State is the view of the session that routing and UI code consume.
type State struct {
	Authenticated bool
	Role          string
}

// HasRole reports whether the session role is one of roles.
// An empty roles list matches any authenticated session.
func (s State) HasRole(roles ...string) bool {
	if !s.Authenticated {
		return false
	}
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if strings.EqualFold(r, s.Role) {
			return true
		}
	}
	return false
}

// Session derives the authentication state from a CredentialStore and
// broadcasts a signal when the session ends.
type Session struct {
	store CredentialStore

	mu     sync.Mutex
	nextID int
	subs   map[int]chan struct{}
}

// NewSession is the constructor for Session.
func NewSession(store CredentialStore) *Session {
	return &Session{
		store: store,
		subs:  make(map[int]chan struct{}),
	}
}

// Invalidate removes the session entries from the store and emits the
// session-ended signal. It reports whether a session actually ended; on
// an already empty store it does nothing.
func (s *Session) Invalidate(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	present := false
	for _, key := range sessionKeys {
		_, ok, err := s.store.Get(ctx, key)
		if err != nil {
			return false, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if ok {
			present = true
			break
		}
	}
	if !present {
		log.Debug().Msg("Session already cleared, nothing to invalidate")
		return false, nil
	}

	for _, key := range sessionKeys {
		if err := s.store.Remove(ctx, key); err != nil {
			return false, fmt.Errorf("failed to remove %s: %w", key, err)
		}
	}

	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
			// a signal is already pending for this subscriber
		}
	}
	log.Info().Int("subscribers", len(s.subs)).Msg("Session ended")
	return true, nil
}

// Subscribe registers for the session-ended signal. The returned function
// unregisters the subscriber and closes the channel.
func (s *Session) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// State recomputes the session view from the store.
func (s *Session) State(ctx context.Context) (State, error) {
	pair, ok, err := LoadPair(ctx, s.store)
	if err != nil {
		return State{}, err
	}
	if !ok {
		return State{}, nil
	}

	role := roleFromToken(pair.AccessToken)
	if role == "" {
		profile, found, err := LoadProfile(ctx, s.store)
		if err != nil {
			log.Warn().Err(err).Msg("Ignoring unreadable cached profile")
		} else if found {
			role = profile.Role
		}
	}
	return State{Authenticated: true, Role: strings.ToUpper(role)}, nil
}

// roleFromToken reads the role claim from a JWT access token without verifying it.
// Opaque tokens yield an empty role.
func roleFromToken(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	if role, ok := claims["role"].(string); ok {
		return role
	}
	if roles, ok := claims["roles"].([]interface{}); ok && len(roles) > 0 {
		if role, ok := roles[0].(string); ok {
			return role
		}
	}
	return ""
}
