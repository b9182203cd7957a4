package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/GoosefleetEO/miningtaxes/internal/app"
	httpAdapter "github.com/GoosefleetEO/miningtaxes/internal/adapter/http"
	"github.com/GoosefleetEO/miningtaxes/internal/adapter/http/handler"
	"github.com/GoosefleetEO/miningtaxes/internal/adapter/http/middleware"
	"github.com/GoosefleetEO/miningtaxes/internal/infrastructure/config"
	"github.com/GoosefleetEO/miningtaxes/internal/infrastructure/logger"
	"github.com/GoosefleetEO/miningtaxes/internal/infrastructure/redis"
	"github.com/GoosefleetEO/miningtaxes/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "miningtax-server"})
	zerolog.DefaultContextLogger = &log.Logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log.Logger, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start engine")
	}
	defer a.Close()

	var limiter *middleware.RateLimiter
	if cfg.HTTPRateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.HTTPRateLimit, cfg.HTTPRateBurst)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		EntityHandler:  handler.NewEntityHandler(a.Aggregate, a.Ledger),
		AccountHandler: handler.NewAccountHandler(a.Aggregate),
		StatsHandler:   handler.NewStatsHandler(a.Stats),
		LedgerHandler:  handler.NewLedgerHandler(a.Reconciliation),
		HealthHandler:  handler.NewHealthHandler(a.Pool, handler.PingFunc(redis.Ping(a.Redis))),
		RateLimiter:    limiter,
		Logger:         log.Logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		if err := a.Publisher.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		a.ReportPoolStats(gctx)
		return nil
	})

	if limiter != nil {
		g.Go(func() error {
			sweepLimiter(gctx, limiter, time.Minute)
			return nil
		})
	}

	if cfg.CycleInterval > 0 {
		g.Go(func() error {
			scheduleCycles(gctx, a, cfg.CycleInterval)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

// sweepLimiter drops per-client limiters idle for longer than idle.
func sweepLimiter(ctx context.Context, limiter *middleware.RateLimiter, idle time.Duration) {
	ticker := time.NewTicker(idle)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := limiter.Sweep(idle); n > 0 {
				log.Debug().Int("clients", n).Msg("rate limiter swept")
			}
		}
	}
}

// scheduleCycles runs a maintenance cycle every interval. Interest accrues at most
// once per month through the period guard.
func scheduleCycles(ctx context.Context, a *app.App, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report := a.RunCycle(ctx, cycleOptions(a.Engine))
			if report.Failed() {
				log.Warn().Err(report.Err()).Str("cycle_id", report.RunID).Msg("scheduled cycle failed")
			}
		}
	}
}

func cycleOptions(engine usecase.EngineConfig) usecase.CycleOptions {
	return usecase.CycleOptions{AccrueInterest: engine.Interest.RatePercent.IsPositive()}
}
