package app

import (
	"net/http"
	"time"

	"landval/internal/config"
	"landval/internal/logging"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home    string       // state directory, e.g. $HOME/.landval
	BaseURL string       // scoring service base URL, e.g. http://localhost:8000
	Backend string       // token store backend: "file" or "sqlite"
	HTTP    *http.Client // optional; defaults to a client with Timeout
	Timeout time.Duration
	Log     logging.Logger   // optional; defaults to a no-op logger
	Now     func() time.Time // optional; seeds the draft date
}

// FromSettings maps loaded settings onto wiring options.
func FromSettings(s config.Config, log logging.Logger) Config {
	return Config{
		Home:    s.Home,
		BaseURL: s.API.BaseURL,
		Backend: s.Session.Backend,
		Timeout: s.API.Timeout,
		Log:     log,
	}
}
