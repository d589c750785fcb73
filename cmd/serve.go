package main

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/texttube/internal/auth"
	"github.com/desertthunder/texttube/internal/server"
	"github.com/desertthunder/texttube/internal/shared"
	"github.com/desertthunder/texttube/internal/web"
	"github.com/urfave/cli/v3"
)

const (
	shutdownTimeout = 10 * time.Second
	sessionSweep    = time.Hour
	throttleSweep   = 10 * time.Minute
)

// openBrowser is replaced in tests.
var openBrowser = shared.OpenBrowser

// Serve runs the web application until SIGINT or SIGTERM, then drains in-flight requests.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = cmd.Int("port")
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	authSvc, err := r.authService()
	if err != nil {
		return err
	}
	videos, err := r.videos()
	if err != nil {
		return err
	}

	throttle := auth.NewThrottle(r.config.Auth.LoginRate, r.config.Auth.LoginBurst)
	throttle.StartCleanup(ctx, throttleSweep)
	go r.purgeSessions(ctx, authSvc)

	app, err := web.New(videos, authSvc, r.metadataService(), throttle, web.Options{
		Site:          r.config.Site,
		BaseURL:       cfg.BaseURL,
		SecureCookies: cfg.SecureCookies,
		TrustProxy:    cfg.TrustProxy,
		Logger:        shared.WithLogger(r.logger, "component", "web"),
	})
	if err != nil {
		return fmt.Errorf("failed to build app: %w", err)
	}

	l, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr(), err)
	}

	srv := server.NewServer(cfg.Addr(), app.Handler(), r.logger)
	errs := make(chan error, 1)
	go func() { errs <- srv.Serve(l) }()

	r.logger.Info("serving", "url", siteURL(cfg.BaseURL, l.Addr()), "database", r.config.Database.Path)
	if cmd.Bool("open") {
		if err := openBrowser(siteURL(cfg.BaseURL, l.Addr())); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errs
}

// purgeSessions deletes expired sessions on start and then every [sessionSweep].
func (r *Runner) purgeSessions(ctx context.Context, svc *auth.Service) {
	ticker := time.NewTicker(sessionSweep)
	defer ticker.Stop()

	for {
		n, err := svc.PurgeExpired()
		if err != nil {
			r.logger.Warn("failed to purge sessions", "error", err)
		} else if n > 0 {
			r.logger.Debug("purged expired sessions", "count", n)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// siteURL prefers the configured public URL and falls back to the bound address.
func siteURL(baseURL string, addr net.Addr) string {
	if baseURL != "" {
		return baseURL
	}
	return "http://" + addr.String()
}
