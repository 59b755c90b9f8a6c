package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landval/internal/domain"
)

type memTokens struct {
	mu      sync.Mutex
	token   string
	loadErr error
	clears  int
}

func (m *memTokens) LoadToken() (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return "", false, m.loadErr
	}
	return m.token, m.token != "", nil
}

func (m *memTokens) SaveToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *memTokens) ClearToken() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.loadErr = nil
	m.clears++
	return nil
}

func (m *memTokens) stored() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// fakeAPI answers /me from a token→user table; only FetchMe is used here.
type fakeAPI struct {
	domain.ValuationAPI

	mu      sync.Mutex
	users   map[string]domain.User
	calls   int
	release chan struct{} // when set, FetchMe blocks until closed
}

func (f *fakeAPI) FetchMe(ctx context.Context, token string) (domain.User, error) {
	f.mu.Lock()
	f.calls++
	release := f.release
	u, ok := f.users[token]
	f.mu.Unlock()

	if release != nil {
		<-release
	}
	if !ok {
		return domain.User{}, errors.New("http 401")
	}
	return u, nil
}

func (f *fakeAPI) meCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var ana = domain.User{Username: "ana", Email: "ana@example.com"}

// checkInvariant fails the test whenever a published session breaks user ⇔ authenticated.
func checkInvariant(t *testing.T, s *Service) {
	t.Helper()
	s.Subscribe(func(_, next domain.Session) {
		assert.Equal(t, next.User != nil, next.Status == domain.StatusAuthenticated,
			"user present must match authenticated status: %+v", next)
	})
}

func TestInitialize_NoToken(t *testing.T) {
	api := &fakeAPI{}
	s := New(api, &memTokens{}, nil)
	assert.True(t, s.Loading())
	assert.Equal(t, domain.StatusUninitialized, s.Status())

	sess := s.Initialize(context.Background())

	assert.Equal(t, domain.StatusUnauthenticated, sess.Status)
	assert.Nil(t, sess.User)
	assert.Empty(t, s.Token())
	assert.False(t, s.Loading())
	assert.Zero(t, api.meCalls(), "no network call without a stored token")
}

func TestInitialize_ValidToken(t *testing.T) {
	api := &fakeAPI{users: map[string]domain.User{"good": ana}}
	s := New(api, &memTokens{token: "good"}, nil)
	checkInvariant(t, s)

	sess := s.Initialize(context.Background())

	assert.True(t, sess.Authenticated())
	assert.Equal(t, "good", sess.Token)
	user, ok := s.User()
	assert.True(t, ok)
	assert.Equal(t, ana, user)
}

func TestInitialize_RejectedTokenIsCleared(t *testing.T) {
	tokens := &memTokens{token: "expired"}
	s := New(&fakeAPI{}, tokens, nil)
	checkInvariant(t, s)

	var seen []domain.SessionStatus
	s.Subscribe(func(_, next domain.Session) { seen = append(seen, next.Status) })

	sess := s.Initialize(context.Background())

	assert.Equal(t, domain.StatusUnauthenticated, sess.Status)
	assert.Empty(t, sess.Token)
	assert.Empty(t, tokens.stored(), "stored token must be cleared")
	assert.Equal(t, []domain.SessionStatus{domain.StatusValidating, domain.StatusUnauthenticated}, seen)
}

func TestInitialize_UnreadableTokenIsDiscarded(t *testing.T) {
	tokens := &memTokens{loadErr: errors.New("corrupt")}
	api := &fakeAPI{}
	s := New(api, tokens, nil)

	sess := s.Initialize(context.Background())

	assert.Equal(t, domain.StatusUnauthenticated, sess.Status)
	assert.Equal(t, 1, tokens.clears)
	assert.Zero(t, api.meCalls())
}

func TestLogin(t *testing.T) {
	tokens := &memTokens{}
	s := New(&fakeAPI{users: map[string]domain.User{"good": ana}}, tokens, nil)
	checkInvariant(t, s)
	s.Initialize(context.Background())

	sess, err := s.Login(context.Background(), "good")
	require.NoError(t, err)
	assert.True(t, sess.Authenticated())
	assert.Equal(t, "good", tokens.stored())

	sess, err = s.Login(context.Background(), "bad")
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	assert.Equal(t, domain.StatusUnauthenticated, sess.Status)
	assert.Empty(t, tokens.stored())

	_, err = s.Login(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestLogout_Idempotent(t *testing.T) {
	tokens := &memTokens{token: "good"}
	s := New(&fakeAPI{users: map[string]domain.User{"good": ana}}, tokens, nil)
	s.Initialize(context.Background())

	changes := 0
	s.Subscribe(func(prev, next domain.Session) {
		changes++
		assert.True(t, prev.Authenticated())
		assert.Equal(t, domain.StatusUnauthenticated, next.Status)
	})

	s.Logout()
	first := s.Snapshot()
	s.Logout()

	assert.Equal(t, first, s.Snapshot())
	assert.Equal(t, 1, changes, "second logout changes nothing")
	assert.Empty(t, tokens.stored())
	assert.Empty(t, s.Token())
}

func TestLogoutDuringValidationWins(t *testing.T) {
	api := &fakeAPI{users: map[string]domain.User{"good": ana}, release: make(chan struct{})}
	tokens := &memTokens{token: "good"}
	s := New(api, tokens, nil)

	done := make(chan domain.Session)
	go func() { done <- s.Initialize(context.Background()) }()

	require.Eventually(t, func() bool { return s.Status() == domain.StatusValidating }, time.Second, time.Millisecond)
	s.Logout()
	close(api.release)

	<-done
	assert.Equal(t, domain.StatusUnauthenticated, s.Status())
	assert.Empty(t, s.Token())
	assert.False(t, s.Loading())
}

func TestLoginDuringFailingValidationKeepsNewToken(t *testing.T) {
	api := &fakeAPI{users: map[string]domain.User{"fresh": ana}, release: make(chan struct{})}
	tokens := &memTokens{token: "stale"}
	s := New(api, tokens, nil)
	checkInvariant(t, s)

	initDone := make(chan domain.Session)
	go func() { initDone <- s.Initialize(context.Background()) }()
	require.Eventually(t, func() bool { return api.meCalls() == 1 }, time.Second, time.Millisecond)

	type loginResult struct {
		sess domain.Session
		err  error
	}
	loginDone := make(chan loginResult)
	go func() {
		sess, err := s.Login(context.Background(), "fresh")
		loginDone <- loginResult{sess, err}
	}()
	require.Eventually(t, func() bool { return api.meCalls() == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, "fresh", tokens.stored())

	close(api.release)
	<-initDone
	got := <-loginDone

	require.NoError(t, got.err)
	assert.True(t, got.sess.Authenticated())
	assert.Equal(t, "fresh", s.Token())
	assert.Equal(t, "fresh", tokens.stored(), "stale validation must not clear the newer token")
}

func TestUnsubscribe(t *testing.T) {
	s := New(&fakeAPI{}, &memTokens{}, nil)
	calls := 0
	cancel := s.Subscribe(func(_, _ domain.Session) { calls++ })
	cancel()

	s.Initialize(context.Background())
	assert.Zero(t, calls)
}

func TestWait(t *testing.T) {
	s := New(&fakeAPI{}, &memTokens{}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Wait(ctx), context.DeadlineExceeded)

	s.Initialize(context.Background())
	assert.NoError(t, s.Wait(context.Background()))
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "ana",
		"exp": exp.Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	got, ok := TokenExpiry(signed)
	assert.True(t, ok)
	assert.True(t, got.Equal(exp))

	_, ok = TokenExpiry("opaque-token")
	assert.False(t, ok)
}
