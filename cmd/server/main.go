package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"verigate/internal/platform/config"
	"verigate/internal/platform/health"
	"verigate/internal/platform/logger"
	"verigate/internal/platform/metrics"
	httptransport "verigate/internal/transport/http"
	"verigate/internal/verification/handler"
	"verigate/internal/verification/provider"
	"verigate/internal/verification/service"
	"verigate/internal/verification/signature"
	"verigate/internal/verification/store/memory"
)

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	verifier := signature.New(cfg.WebhookSecret)
	log.Info("initializing verigate",
		"addr", cfg.Addr,
		"provider_base_url", cfg.ProviderBaseURL,
		"signature_mode", verifier.Mode().String(),
	)
	if verifier.Mode() == signature.ModeUnverified {
		log.Warn("webhook signature verification is DISABLED; every payload will be accepted as authentic. Set WEBHOOK_HMAC_SECRET before exposing this server.")
	}
	if cfg.ProviderAPIKey == "" {
		log.Warn("PROVIDER_API_KEY is not set; session creation will fail until it is configured")
	}

	m := metrics.New()

	providerClient := provider.NewHTTPClient(cfg.ProviderBaseURL, cfg.ProviderAPIKey, cfg.ProviderTimeout,
		provider.WithDocumentDefaults(cfg.ProviderLang, cfg.ProviderCountry),
	)

	svc, err := service.New(providerClient, memory.NewInMemory(), verifier, log,
		service.WithMetrics(m),
	)
	if err != nil {
		log.Error("service initialization failed", "error", err)
		os.Exit(1)
	}

	router := httptransport.NewRouter(handler.New(svc, log), health.New(envName()), m, log)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

func envName() string {
	if env := os.Getenv("VERIGATE_ENV"); env != "" {
		return env
	}
	return "development"
}
