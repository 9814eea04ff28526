// Package session provides authenticated browser storage states, one per
// actor, cached in memory and persisted to disk.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/themizzi/simplecom/internal/handlers"
)

// CookieName is the cookie that carries the shop login
const CookieName = handlers.SessionCookieName

// Session errors
var (
	ErrInvalidActor     = errors.New("actor id must be letters, digits, '-' or '_'")
	ErrNotAuthenticated = errors.New("login did not produce a session cookie")
)

var actorPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Authenticator logs an actor in and returns the resulting storage state
type Authenticator interface {
	Authenticate(ctx context.Context, actorID string) (*State, error)
}

// Session is the authenticated state of one actor
type Session struct {
	ActorID   string
	StatePath string
	State     *State
}

// Provider hands out sessions per actor. Lookups go to the in-memory cache,
// then the state file, then the Authenticator. Concurrent lookups for the
// same actor share one authentication.
type Provider struct {
	dir  string
	auth Authenticator
	now  func() time.Time

	group singleflight.Group
	mu    sync.Mutex
	cache map[string]*Session
}

// NewProvider creates a Provider storing state files in dir
func NewProvider(dir string, auth Authenticator) *Provider {
	return &Provider{
		dir:   dir,
		auth:  auth,
		now:   time.Now,
		cache: make(map[string]*Session),
	}
}

// StatePath returns the state file of actorID
func (p *Provider) StatePath(actorID string) string {
	return filepath.Join(p.dir, "storage-state-"+actorID+".json")
}

// Ensure returns an authenticated session for actorID
func (p *Provider) Ensure(ctx context.Context, actorID string) (*Session, error) {
	if !actorPattern.MatchString(actorID) {
		return nil, fmt.Errorf("%q: %w", actorID, ErrInvalidActor)
	}
	if s := p.cached(actorID); s != nil {
		return s, nil
	}

	v, err, shared := p.group.Do(actorID, func() (any, error) {
		if s := p.cached(actorID); s != nil {
			return s, nil
		}
		s, err := p.load(ctx, actorID)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.cache[actorID] = s
		p.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debug().Str("actor", actorID).Msg("shared session lookup")
	}
	return v.(*Session), nil
}

// Invalidate forgets the session of actorID and removes its state file
func (p *Provider) Invalidate(actorID string) error {
	if !actorPattern.MatchString(actorID) {
		return fmt.Errorf("%q: %w", actorID, ErrInvalidActor)
	}
	p.mu.Lock()
	delete(p.cache, actorID)
	p.mu.Unlock()

	if err := os.Remove(p.StatePath(actorID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove storage state: %w", err)
	}
	log.Debug().Str("actor", actorID).Msg("session invalidated")
	return nil
}

func (p *Provider) cached(actorID string) *Session {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.cache[actorID]
	if !ok {
		return nil
	}
	if !s.State.Valid(CookieName, p.now()) {
		delete(p.cache, actorID)
		return nil
	}
	return s
}

func (p *Provider) load(ctx context.Context, actorID string) (*Session, error) {
	path := p.StatePath(actorID)

	state, err := ReadState(path)
	switch {
	case err == nil && state.Valid(CookieName, p.now()):
		log.Debug().Str("actor", actorID).Str("path", path).Msg("reusing storage state")
		return &Session{ActorID: actorID, StatePath: path, State: state}, nil
	case err == nil:
		log.Info().Str("actor", actorID).Msg("stored session expired")
	case !errors.Is(err, os.ErrNotExist):
		log.Warn().Err(err).Str("actor", actorID).Msg("ignoring unreadable storage state")
	}

	state, err = p.auth.Authenticate(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate %s: %w", actorID, err)
	}
	if !state.Valid(CookieName, p.now()) {
		return nil, fmt.Errorf("failed to authenticate %s: %w", actorID, ErrNotAuthenticated)
	}
	if err := state.Write(path); err != nil {
		return nil, fmt.Errorf("failed to store session of %s: %w", actorID, err)
	}
	log.Info().Str("actor", actorID).Str("path", path).Msg("authenticated")
	return &Session{ActorID: actorID, StatePath: path, State: state}, nil
}
