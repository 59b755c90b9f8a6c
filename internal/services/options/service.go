package options

import (
	"context"
	"fmt"
	"sync"

	"github.com/patrickmn/go-cache"

	"landval/internal/api"
	"landval/internal/domain"
	"landval/internal/logging"
)

const (
	module   = "options"
	cacheKey = "reference"
)

// Service fetches reference options once per Load and fans them out to sinks.
// Options are not session-scoped; Load may run alongside session startup.
type Service struct {
	api   domain.ValuationAPI
	cache *cache.Cache
	log   logging.Logger

	mu      sync.Mutex
	sinks   []domain.OptionsSink
	lastErr string
}

// New constructs an Options Service. Sinks are notified after every successful Load.
func New(api domain.ValuationAPI, log logging.Logger, sinks ...domain.OptionsSink) *Service {
	if log == nil {
		log = logging.NewNop()
	}
	return &Service{
		api:   api,
		cache: cache.New(cache.NoExpiration, 0),
		log:   log,
		sinks: sinks,
	}
}

// AddSink registers another receiver for loaded options.
func (s *Service) AddSink(sink domain.OptionsSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinks = append(s.sinks, sink)
}

// Load fetches the options and replaces the held copy wholesale. On failure
// the previous copy (if any) is kept, sinks are not called and LastError
// reports the connectivity message.
func (s *Service) Load(ctx context.Context) error {
	s.setErr("")

	opts, err := s.api.FetchOptions(ctx)
	if err != nil {
		s.setErr(api.MsgConnectivity)
		s.log.Warn(module, "load failed", map[string]any{"error": err.Error()})
		return fmt.Errorf("load options: %w", err)
	}

	s.cache.Set(cacheKey, opts.Clone(), cache.NoExpiration)
	s.log.Debug(module, "loaded", map[string]any{
		"cities": len(opts.Cities),
		"types":  len(opts.Types),
	})

	s.mu.Lock()
	sinks := append([]domain.OptionsSink(nil), s.sinks...)
	s.mu.Unlock()
	for _, sink := range sinks {
		sink.ApplyOptions(opts.Clone())
	}
	return nil
}

// Options returns the held options; ok is false before the first successful Load.
func (s *Service) Options() (domain.ReferenceOptions, bool) {
	x, found := s.cache.Get(cacheKey)
	if !found {
		return domain.ReferenceOptions{}, false
	}
	return x.(domain.ReferenceOptions).Clone(), true
}

// LastError is the user-facing message of the most recent failed Load, or "".
func (s *Service) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Service) setErr(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}
