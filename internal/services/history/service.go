package history

import (
	"context"
	"fmt"
	"sync"

	"landval/internal/domain"
	"landval/internal/logging"
)

const module = "history"

// Service holds the history list. Every Refresh replaces it wholesale;
// overlapping refreshes are not ordered and the last one to finish wins.
//
// A list fetched for a token that is no longer the session's, or fetched
// across a Clear, is dropped.
type Service struct {
	api     domain.ValuationAPI
	session domain.TokenSource
	log     logging.Logger

	mu      sync.Mutex
	entries []domain.HistoryEntry
	epoch   uint64 // bumped by Clear
}

// New constructs the history log. session may be nil, in which case a
// refresh is only discarded by Clear.
func New(api domain.ValuationAPI, session domain.TokenSource, log logging.Logger) *Service {
	if log == nil {
		log = logging.NewNop()
	}
	return &Service{api: api, session: session, log: log}
}

// Refresh reloads the list for token. Without a token it does nothing.
// On failure the current list is kept.
func (s *Service) Refresh(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	entries, err := s.api.FetchHistory(ctx, token)
	if err != nil {
		return fmt.Errorf("refresh history: %w", err)
	}

	s.mu.Lock()
	if s.epoch != epoch || (s.session != nil && s.session.Token() != token) {
		s.mu.Unlock()
		s.log.Debug(module, "discarded refresh for a previous session", nil)
		return nil
	}
	s.entries = append([]domain.HistoryEntry{}, entries...)
	s.mu.Unlock()

	s.log.Debug(module, "refreshed", map[string]any{"entries": len(entries)})
	return nil
}

// Entries returns a copy of the list in the order the service sent it.
func (s *Service) Entries() []domain.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.HistoryEntry{}, s.entries...)
}

// Clear drops the list, e.g. when the session ends.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.entries = nil
}

var _ domain.HistoryRefresher = (*Service)(nil)
