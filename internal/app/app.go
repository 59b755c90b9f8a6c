package app

import (
	"context"
	"sync"

	"landval/internal/domain"
)

// Client is the running application: a wired graph plus its startup.
type Client struct {
	*Wire
}

func New(w *Wire) *Client {
	return &Client{Wire: w}
}

// StartResult reports how startup went. The session always resolves;
// options may fail independently.
type StartResult struct {
	Session    domain.Session
	OptionsErr error
}

// Start restores the session and loads the reference options concurrently.
// They may finish in either order; the form reconciles on each.
func (c *Client) Start(ctx context.Context) StartResult {
	var (
		wg  sync.WaitGroup
		res StartResult
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		res.Session = c.Session.Initialize(ctx)
	}()
	go func() {
		defer wg.Done()
		res.OptionsErr = c.Options.Load(ctx)
	}()
	wg.Wait()
	return res
}

// RefreshHistory reloads the history for the current session, if any.
func (c *Client) RefreshHistory(ctx context.Context) error {
	return c.History.Refresh(ctx, c.Session.Token())
}

// Shutdown waits for background follow-ups and releases resources.
func (c *Client) Shutdown() error {
	c.Predict.Wait()
	return c.Close()
}
