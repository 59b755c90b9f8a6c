package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"landval/internal/devserver"
	"landval/internal/domain"
	"landval/internal/logging"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		addr        string
		secret      string
		tokenTTL    time.Duration
		optionsPath string
		production  bool
	)
	cmd := &cobra.Command{
		Use:          "landval-devserver",
		Short:        "In-memory development scoring service",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			if secret == "" {
				secret = os.Getenv("LANDVAL_DEV_SECRET")
			}

			log := logging.NewZapLogger(logging.Options{Production: production, Verbose: true})
			defer log.Sync() //nolint:errcheck

			var opts domain.ReferenceOptions
			if optionsPath != "" {
				b, err := os.ReadFile(optionsPath)
				if err != nil {
					return fmt.Errorf("read options: %w", err)
				}
				if err := json.Unmarshal(b, &opts); err != nil {
					return fmt.Errorf("parse options %s: %w", optionsPath, err)
				}
			}

			srv := devserver.New(devserver.Config{
				Secret:   []byte(secret),
				TokenTTL: tokenTTL,
				Options:  opts,
				Log:      log,
			})
			httpSrv := &http.Server{
				Addr:              addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() {
				log.Info("devserver", "listening", map[string]any{"addr": addr})
				errc <- httpSrv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			log.Info("devserver", "shutting down", nil)
			return httpSrv.Shutdown(shutdownCtx)
		},
	}
	f := cmd.Flags()
	f.StringVar(&addr, "addr", ":8000", "listen address")
	f.StringVar(&secret, "secret", "", "HMAC secret for session tokens (env LANDVAL_DEV_SECRET)")
	f.DurationVar(&tokenTTL, "token-ttl", 30*time.Minute, "session token lifetime")
	f.StringVar(&optionsPath, "options", "", "JSON file with cities, types and neighborhood_mapping")
	f.BoolVar(&production, "production", false, "JSON logs on stderr")
	return cmd
}
