package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/claimdesk/claimdesk/internal/api"
	"github.com/claimdesk/claimdesk/internal/authz"
	"github.com/claimdesk/claimdesk/internal/config"
	"github.com/claimdesk/claimdesk/internal/crypto"
	"github.com/claimdesk/claimdesk/internal/db"
	"github.com/claimdesk/claimdesk/internal/metrics"
	"github.com/claimdesk/claimdesk/internal/middleware"
	"github.com/claimdesk/claimdesk/internal/notify"
	"github.com/claimdesk/claimdesk/internal/service"
	"github.com/claimdesk/claimdesk/internal/store"
	"github.com/claimdesk/claimdesk/internal/ws"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API and metrics servers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			return serve(cmd.Context(), cfg, newLogger(cfg.LogLevel))
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	log.WithFields(logrus.Fields{"version": config.Version, "addr": cfg.Addr()}).Info("claimdesk starting")

	pool, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := metrics.RegisterPool(prometheus.DefaultRegisterer, func() (int32, int32, int32) {
		s := pool.Stat()
		return s.Total, s.Idle, s.Acquired
	}); err != nil {
		return fmt.Errorf("registering pool metrics: %w", err)
	}

	keys, err := newKeyProvider(cfg)
	if err != nil {
		return err
	}

	base := store.Base{Pool: pool, Log: log, Crypto: crypto.NewService(keys)}
	claimStore := store.NewClaimStore(base)
	partyStore := store.NewPartyStore(base)

	hub := ws.NewHub(log, ws.DefaultLimits)
	publisher := db.NewPublisher(log, pool)

	outbox := notify.NewOutbox(emailSender(cfg), chatPoster(cfg), log, cfg.NotifyQueueSize)
	dispatcher := notify.NewDispatcher(partyStore, outbox, cfg.AppBaseURL, log)

	guard := authz.NewGuard(nil)
	auditor := service.NewAuditRecorder(store.NewAuditStore(base), guard, log)

	deps := &api.RouterDeps{
		Log:         log,
		DB:          pool,
		Hub:         hub,
		Claims:      service.NewClaimService(claimStore, guard, auditor, dispatcher, publisher, log),
		Supplements: service.NewSupplementService(store.NewSupplementStore(base), claimStore, guard, auditor, dispatcher, publisher, log),
		Parties:     service.NewPartyService(partyStore, guard, auditor, log),
		Notes:       service.NewNoteService(store.NewNoteStore(base), claimStore, guard, auditor, publisher, log),
		Audit:       auditor,
		Reports:     service.NewReportService(store.NewReportStore(base), guard, log),
		Tenants:     store.NewTenantStore(pool),
		Verifier:    middleware.NewTokenVerifier(cfg.JWTSecret.Value(), cfg.JWTIssuer),
		CORSOrigins: cfg.CORSOrigins,
		Version:     config.Version,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		outbox.Run(gctx)
		return nil
	})

	if err := db.NewNotifyBridge(log, pool, hub).Start(gctx); err != nil {
		return err
	}

	apiSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(gctx, deps),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	metricsSrv := &http.Server{
		Addr:              cfg.MetricsAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error { return listen(apiSrv, log, "api") })
	g.Go(func() error { return listen(metricsSrv, log, "metrics") })

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()

		return errors.Join(apiSrv.Shutdown(shutdownCtx), metricsSrv.Shutdown(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("claimdesk stopped")

	return nil
}

func listen(srv *http.Server, log *logrus.Logger, name string) error {
	log.WithFields(logrus.Fields{"server": name, "addr": srv.Addr}).Info("listening")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server: %w", name, err)
	}

	return nil
}

// emailSender returns nil when no email API is configured so the outbox skips email.
func emailSender(cfg *config.Config) notify.Sender {
	if !cfg.EmailEnabled() {
		return nil
	}

	return notify.NewHTTPSender(cfg.EmailAPIURL, cfg.EmailAPIKey.Value(), cfg.EmailFrom, &http.Client{Timeout: 10 * time.Second})
}

func chatPoster(cfg *config.Config) notify.Poster {
	if cfg.SlackWebhookURL.Value() == "" {
		return nil
	}

	return notify.NewSlackMirror(cfg.SlackWebhookURL.Value())
}
