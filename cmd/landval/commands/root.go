package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"landval/internal/app"
	"landval/internal/config"
	"landval/internal/logging"
)

var (
	home    string
	apiURL  string
	backend string
	verbose bool

	appCtx  *app.Client
	started app.StartResult
	logger  logging.Logger
)

func Execute() error {
	err := NewRootCmd().Execute()
	// Post-run hooks are skipped when a command fails.
	if serr := shutdown(); err == nil {
		err = serr
	}
	return err
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "landval",
		Short:         "Land price valuation client",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load()
			if err != nil {
				return err
			}
			if home != "" {
				settings = settings.WithHome(home)
			}
			if apiURL != "" {
				settings.API.BaseURL = apiURL
			}
			if backend != "" {
				settings.Session.Backend = backend
			}
			if verbose {
				settings.Log.Verbose = true
			}
			if err := settings.Validate(); err != nil {
				return err
			}
			if err := os.MkdirAll(settings.Home, 0o700); err != nil {
				return err
			}

			logger = logging.NewZapLogger(logging.Options{
				FilePath:   settings.Log.File,
				Production: settings.Log.Production,
				Verbose:    settings.Log.Verbose,
			})

			w, err := app.NewWire(cmd.Context(), app.FromSettings(settings, logger))
			if err != nil {
				return err
			}
			appCtx = app.New(w)
			started = appCtx.Start(cmd.Context())
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return shutdown()
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "state dir (default ~/.landval)")
	root.PersistentFlags().StringVar(&apiURL, "api", "", "scoring service base URL (e.g. http://localhost:8000)")
	root.PersistentFlags().StringVar(&backend, "backend", "", "session store backend: file or sqlite")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		registerCmd(),
		loginCmd(),
		googleLoginCmd(),
		logoutCmd(),
		whoamiCmd(),
		optionsCmd(),
		predictCmd(),
		historyCmd(),
	)
	return root
}

func shutdown() error {
	var err error
	if appCtx != nil {
		err = appCtx.Shutdown()
		appCtx = nil
	}
	if logger != nil {
		_ = logger.Sync()
	}
	return err
}

// requireSession fails unless startup resolved an authenticated session.
func requireSession() error {
	if !appCtx.Session.Snapshot().Authenticated() {
		return fmt.Errorf("not logged in; run `landval login` first")
	}
	return nil
}

// requireOptions fails when the reference options could not be loaded.
func requireOptions() error {
	if started.OptionsErr != nil {
		return errors.New(appCtx.Options.LastError())
	}
	return nil
}
