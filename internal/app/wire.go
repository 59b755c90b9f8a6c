package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"landval/internal/api"
	"landval/internal/config"
	"landval/internal/domain"
	"landval/internal/logging"
	authsvc "landval/internal/services/auth"
	formsvc "landval/internal/services/form"
	historysvc "landval/internal/services/history"
	optionssvc "landval/internal/services/options"
	predictsvc "landval/internal/services/predict"
	sessionsvc "landval/internal/services/session"
	"landval/internal/store"
)

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	API     *api.HTTP
	Tokens  domain.TokenStore
	Session *sessionsvc.Service
	Auth    *authsvc.Service
	Options *optionssvc.Service
	Form    *formsvc.Service
	Predict *predictsvc.Service
	History *historysvc.Service
	Log     logging.Logger

	closers []io.Closer
}

// NewWire constructs the dependency graph from cfg.
func NewWire(ctx context.Context, cfg Config) (*Wire, error) {
	log := cfg.Log
	if log == nil {
		log = logging.NewNop()
	}
	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}

	w := &Wire{Log: log}

	// Token store
	switch cfg.Backend {
	case "", config.BackendFile:
		w.Tokens = store.NewTokenFileStore(cfg.Home)
	case config.BackendSQLite:
		s, err := store.OpenTokenSQLiteStore(ctx, cfg.Home)
		if err != nil {
			return nil, fmt.Errorf("open token store: %w", err)
		}
		w.Tokens = s
		w.closers = append(w.closers, s)
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}

	// Scoring service client
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = api.NewHTTPClient(cfg.Timeout)
	}
	w.API = api.NewHTTP(cfg.BaseURL, httpClient, log)

	// Services
	w.Session = sessionsvc.New(w.API, w.Tokens, log)
	w.Auth = authsvc.New(w.API, w.Session, log)
	w.Form = formsvc.New(now())
	w.Options = optionssvc.New(w.API, log, w.Form)
	w.History = historysvc.New(w.API, w.Session, log)
	w.Predict = predictsvc.New(w.API, w.Session, w.Form, w.History, log)

	// Session-scoped data goes whenever the token does.
	w.Session.Subscribe(func(prev, next domain.Session) {
		if prev.Token == next.Token {
			return
		}
		// Reset first: a submission settling after it can no longer store a result.
		w.Predict.Reset()
		w.Form.ClearResult()
		w.History.Clear()
	})

	return w, nil
}

// Close releases stores that hold open handles.
func (w *Wire) Close() error {
	var first error
	for _, c := range w.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	w.closers = nil
	return first
}
