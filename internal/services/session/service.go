package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"landval/internal/domain"
	"landval/internal/logging"
)

const module = "session"

// Listener is told about every session change, with the state before and after.
type Listener func(prev, next domain.Session)

// Service holds the one session of this client.
//
// Validation and network failures are deliberately not told apart: either
// way the stored token is discarded and the session ends unauthenticated.
type Service struct {
	api    domain.ValuationAPI
	tokens domain.TokenStore
	log    logging.Logger

	// storeMu serializes token store writes with the generation check that
	// guards them, so a superseded call never touches the newer token.
	storeMu sync.Mutex

	mu        sync.Mutex
	state     domain.Session
	gen       uint64 // bumped by every Initialize, Login and Logout
	ready     chan struct{}
	readyOnce sync.Once
	listeners map[int]Listener
	nextID    int
}

// New constructs a Session Service over the given API and token store.
func New(api domain.ValuationAPI, tokens domain.TokenStore, log logging.Logger) *Service {
	if log == nil {
		log = logging.NewNop()
	}
	return &Service{
		api:       api,
		tokens:    tokens,
		log:       log,
		state:     domain.Session{Status: domain.StatusUninitialized},
		ready:     make(chan struct{}),
		listeners: map[int]Listener{},
	}
}

// Initialize restores the persisted token, if any, and validates it.
//
// Steps:
//  1. Read the stored token. None (or unreadable) means unauthenticated and no network call.
//  2. Otherwise move to validating and resolve the user with GET /me.
//  3. On success the session is authenticated; on any failure the stored
//     token is cleared and the session is unauthenticated.
func (s *Service) Initialize(ctx context.Context) domain.Session {
	defer s.markReady()

	token, ok, err := s.tokens.LoadToken()
	gen := s.begin()
	if err != nil {
		s.log.Warn(module, "stored token unreadable, discarding", map[string]any{"error": err.Error()})
		s.clearStored(gen)
	}
	if err != nil || !ok {
		s.apply(gen, domain.Session{Status: domain.StatusUnauthenticated})
		return s.Snapshot()
	}

	sess, _ := s.validate(ctx, gen, token)
	return sess
}

// Login persists token and validates it exactly as Initialize does.
// ErrNotAuthenticated is returned when the token is rejected.
func (s *Service) Login(ctx context.Context, token string) (domain.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		s.Logout()
		return s.Snapshot(), domain.ErrNotAuthenticated
	}
	gen := s.begin()
	s.persist(gen, token)
	return s.validate(ctx, gen, token)
}

// Logout clears the stored and in-memory token and user. Calling it again is a no-op.
func (s *Service) Logout() {
	gen := s.begin()
	s.clearStored(gen)
	if s.apply(gen, domain.Session{Status: domain.StatusUnauthenticated}) {
		s.log.Info(module, "logged out", nil)
	}
}

// Snapshot returns a copy of the current session.
func (s *Service) Snapshot() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSession(s.state)
}

// Token returns the session token, or "" when there is none.
func (s *Service) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

// User returns the resolved user; ok is false unless authenticated.
func (s *Service) User() (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.User == nil {
		return domain.User{}, false
	}
	return *s.state.User, true
}

func (s *Service) Status() domain.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Status
}

// Loading reports whether the first Initialize is still in flight.
func (s *Service) Loading() bool {
	select {
	case <-s.ready:
		return false
	default:
		return true
	}
}

// Wait blocks until the first Initialize has resolved or ctx is done.
func (s *Service) Wait(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe registers fn for session changes and returns its cancel func.
// fn runs synchronously on the goroutine that changed the session.
func (s *Service) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// validate resolves the user behind token and settles the session under gen.
func (s *Service) validate(ctx context.Context, gen uint64, token string) (domain.Session, error) {
	s.apply(gen, domain.Session{Token: token, Status: domain.StatusValidating})

	user, err := s.api.FetchMe(ctx, token)
	if err != nil {
		s.log.Warn(module, "token validation failed", map[string]any{"error": err.Error()})
		s.clearStored(gen)
		s.apply(gen, domain.Session{Status: domain.StatusUnauthenticated})
		return s.Snapshot(), domain.ErrNotAuthenticated
	}

	if !s.apply(gen, domain.Session{Token: token, User: &user, Status: domain.StatusAuthenticated}) {
		// Superseded by a later Login or Logout while /me was in flight.
		return s.Snapshot(), domain.ErrNotAuthenticated
	}
	s.log.Info(module, "session authenticated", map[string]any{"username": user.Username})
	return s.Snapshot(), nil
}

func (s *Service) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

func (s *Service) isCurrent(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen == gen
}

// apply replaces the session if gen is still current and notifies listeners
// when something changed. Token and user are swapped in one step.
func (s *Service) apply(gen uint64, next domain.Session) bool {
	s.mu.Lock()
	if s.gen != gen || sameSession(s.state, next) {
		s.mu.Unlock()
		return false
	}
	prev := s.state
	s.state = next
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(cloneSession(prev), cloneSession(next))
	}
	return true
}

// persist saves token unless gen has been superseded.
func (s *Service) persist(gen uint64, token string) {
	s.storeMu.Lock()
	defer s.storeMu.Unlock()
	if !s.isCurrent(gen) {
		return
	}
	if err := s.tokens.SaveToken(token); err != nil {
		// Still usable for this process; just not remembered.
		s.log.Error(module, "persist token failed", map[string]any{"error": err})
	}
}

// clearStored removes the stored token unless gen has been superseded.
func (s *Service) clearStored(gen uint64) {
	s.storeMu.Lock()
	defer s.storeMu.Unlock()
	if !s.isCurrent(gen) {
		return
	}
	if err := s.tokens.ClearToken(); err != nil {
		s.log.Error(module, "clear stored token failed", map[string]any{"error": err})
	}
}

func (s *Service) markReady() {
	s.readyOnce.Do(func() { close(s.ready) })
}

func sameSession(a, b domain.Session) bool {
	if a.Token != b.Token || a.Status != b.Status {
		return false
	}
	if (a.User == nil) != (b.User == nil) {
		return false
	}
	return a.User == nil || *a.User == *b.User
}

func cloneSession(in domain.Session) domain.Session {
	out := in
	if in.User != nil {
		u := *in.User
		out.User = &u
	}
	return out
}

// TokenExpiry reads the exp claim of a JWT without verifying it.
// ok is false for opaque tokens or tokens without an expiry.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Compile-time assertion that Service implements domain.SessionService.
var _ domain.SessionService = (*Service)(nil)
