package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/evcraddock/visitor-pass/internal/auth"
	"github.com/evcraddock/visitor-pass/internal/logging"
	"github.com/evcraddock/visitor-pass/internal/pass"
	"github.com/evcraddock/visitor-pass/internal/web"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var (
		port          int
		secureCookies bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI",
		Long:  "Start an HTTP server for the web UI and JSON API.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), port, secureCookies)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (default: VP_PORT or 8080)")
	cmd.Flags().BoolVar(&secureCookies, "secure-cookies", false, "mark session cookies Secure (serve behind HTTPS)")

	return cmd
}

func runServe(ctx context.Context, port int, secureCookies bool) error {
	cfg, err := settings()
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Port = port
	}

	logging.Setup(cfg.DevMode)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeBackend(context.Background(), b)

	if cfg.SessionSecret == "" {
		slog.Warn("VP_SESSION_SECRET is not set; sessions will not survive a restart")
	}

	srv, err := web.NewServer(web.Options{
		Users:    b.users,
		Requests: b.requests,
		Sessions: auth.NewSessionStore(auth.SessionKey(cfg.SessionSecret), secureCookies),
		Passes:   pass.New(cfg.LogoPath),
	})
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting web UI", "addr", fmt.Sprintf("http://localhost%s", cfg.Addr()), "store", cfg.Store)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}
