package history

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landval/internal/domain"
)

type fakeAPI struct {
	domain.ValuationAPI
	byToken map[string][]domain.HistoryEntry
	err     error
	calls   int
	started chan struct{} // closed when a fetch begins, if set
	release chan struct{} // fetch blocks until closed, if set
}

func (f *fakeAPI) FetchHistory(_ context.Context, token string) ([]domain.HistoryEntry, error) {
	f.calls++
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.byToken[token], nil
}

func TestRefresh_ReplacesWholesale(t *testing.T) {
	fake := &fakeAPI{byToken: map[string][]domain.HistoryEntry{
		"a": {{ID: 1, City: "Mumbai"}, {ID: 2, City: "Pune"}},
		"b": {{ID: 9, City: "Goa", Timestamp: "2026-01-02 03:04:05"}},
	}}
	s := New(fake, nil, nil)

	require.NoError(t, s.Refresh(context.Background(), "a"))
	assert.Len(t, s.Entries(), 2)

	require.NoError(t, s.Refresh(context.Background(), "b"))
	got := s.Entries()
	require.Len(t, got, 1)
	assert.Equal(t, int64(9), got[0].ID)
	assert.Equal(t, 2026, got[0].Time().Year())
}

func TestRefresh_NoTokenIsNoop(t *testing.T) {
	fake := &fakeAPI{}
	s := New(fake, nil, nil)

	require.NoError(t, s.Refresh(context.Background(), ""))
	assert.Zero(t, fake.calls)
}

func TestRefresh_FailureKeepsList(t *testing.T) {
	fake := &fakeAPI{byToken: map[string][]domain.HistoryEntry{"a": {{ID: 1}}}}
	s := New(fake, nil, nil)
	require.NoError(t, s.Refresh(context.Background(), "a"))

	fake.err = errors.New("boom")
	assert.Error(t, s.Refresh(context.Background(), "a"))
	assert.Len(t, s.Entries(), 1)
}

func TestClear(t *testing.T) {
	fake := &fakeAPI{byToken: map[string][]domain.HistoryEntry{"a": {{ID: 1}}}}
	s := New(fake, nil, nil)
	require.NoError(t, s.Refresh(context.Background(), "a"))

	s.Clear()
	assert.Empty(t, s.Entries())
}

type tokenSource struct {
	mu    sync.Mutex
	token string
}

func (t *tokenSource) Token() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.token
}

func (t *tokenSource) set(token string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = token
}

func TestRefresh_ClearDuringFetchDiscardsResult(t *testing.T) {
	fake := &fakeAPI{
		byToken: map[string][]domain.HistoryEntry{"a": {{ID: 1}}},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := New(fake, nil, nil)

	done := make(chan error, 1)
	go func() { done <- s.Refresh(context.Background(), "a") }()
	<-fake.started

	s.Clear()
	close(fake.release)
	require.NoError(t, <-done)
	assert.Empty(t, s.Entries())
}

func TestRefresh_TokenNoLongerCurrentDiscardsResult(t *testing.T) {
	fake := &fakeAPI{
		byToken: map[string][]domain.HistoryEntry{"a": {{ID: 1}}},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	session := &tokenSource{token: "a"}
	s := New(fake, session, nil)

	done := make(chan error, 1)
	go func() { done <- s.Refresh(context.Background(), "a") }()
	<-fake.started

	session.set("")
	close(fake.release)
	require.NoError(t, <-done)
	assert.Empty(t, s.Entries())
}

func TestRefresh_CurrentTokenIsKept(t *testing.T) {
	fake := &fakeAPI{byToken: map[string][]domain.HistoryEntry{"a": {{ID: 1}}}}
	s := New(fake, &tokenSource{token: "a"}, nil)

	require.NoError(t, s.Refresh(context.Background(), "a"))
	assert.Len(t, s.Entries(), 1)
}
