// Package app wires configuration, storage, services, sweepers, and the
// admin HTTP server into a running process.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/adapter/natsnotify"
	"github.com/ApexAppLabs/hu-counseling-bot/internal/adapter/postgres"
	counselorrepo "github.com/ApexAppLabs/hu-counseling-bot/internal/adapter/postgres/counselor"
	messagerepo "github.com/ApexAppLabs/hu-counseling-bot/internal/adapter/postgres/message"
	sessionrepo "github.com/ApexAppLabs/hu-counseling-bot/internal/adapter/postgres/session"
	statsrepo "github.com/ApexAppLabs/hu-counseling-bot/internal/adapter/postgres/stats"
	userrepo "github.com/ApexAppLabs/hu-counseling-bot/internal/adapter/postgres/user"
	"github.com/ApexAppLabs/hu-counseling-bot/internal/config"
	"github.com/ApexAppLabs/hu-counseling-bot/internal/flowstate"
	"github.com/ApexAppLabs/hu-counseling-bot/internal/notify"
	"github.com/ApexAppLabs/hu-counseling-bot/internal/ratelimit"
	counselorsvc "github.com/ApexAppLabs/hu-counseling-bot/internal/service/counselor"
	"github.com/ApexAppLabs/hu-counseling-bot/internal/service/matching"
	sessionsvc "github.com/ApexAppLabs/hu-counseling-bot/internal/service/session"
	"github.com/ApexAppLabs/hu-counseling-bot/internal/sweeper"
	"github.com/ApexAppLabs/hu-counseling-bot/internal/transport/rest"
)

// Run is the application entry point. It blocks until ctx is cancelled or
// a fatal component error occurs.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if cfg.Database.MigrateOnStart {
		if err := postgres.Migrate(ctx, cfg.Database.DSN); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	{
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis unavailable, flow state degraded", slog.Any("error", err))
		}
		cancel()
	}

	var notifier notify.Notifier
	if cfg.NATS.URL != "" {
		publisher, err := natsnotify.New(cfg.NATS, logger)
		if err != nil {
			return fmt.Errorf("connect nats: %w", err)
		}
		defer publisher.Close()
		notifier = publisher
	} else {
		logger.Info("nats not configured, notifications go to the log")
		notifier = notify.NewLogNotifier(logger)
	}

	sessions := sessionrepo.New(pool)
	messages := messagerepo.New(pool)
	counselors := counselorrepo.New(pool)
	users := userrepo.New(pool)
	stats := statsrepo.New(pool)
	txManager := postgres.NewTxManager(pool)

	limiter := ratelimit.New(cfg.RateLimit)
	flows := flowstate.New(redisClient, cfg.Redis)

	matcher := matching.NewService(logger, counselors, cfg.Matching)
	sessionService := sessionsvc.NewService(
		logger, sessions, messages, counselors, users, stats, matcher, txManager, notifier, limiter, cfg.Matching)
	counselorService := counselorsvc.NewService(
		logger, counselors, sessions, users, stats, sessionService, notifier, limiter, cfg.Matching)

	router := rest.NewRouter(rest.Handlers{
		Health:    rest.NewHealthHandler(pool, redisPinger{redisClient}, BuildVersion()),
		Session:   rest.NewSessionHandler(sessionService, logger),
		Counselor: rest.NewCounselorHandler(counselorService, logger),
		Stats:     rest.NewStatsHandler(stats, logger),
		Flow:      rest.NewFlowHandler(flows, logger),
	}, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	loops := []*sweeper.Loop{
		sweeper.NewLoop("timeout", cfg.Sweep.TimeoutInterval,
			sweeper.NewTimeoutSweeper(sessions, sessionService, cfg.Sweep.SessionTimeout, logger).Sweep,
			logger, notifier, cfg.Admin.ChatID),
		sweeper.NewLoop("automatch", cfg.Sweep.AutoMatchInterval,
			sweeper.NewAutoMatchSweeper(sessionService, logger).Sweep,
			logger, notifier, cfg.Admin.ChatID),
		sweeper.NewLoop("retention", cfg.Sweep.RetentionInterval,
			sweeper.NewRetentionSweeper(sessions, cfg.Sweep.RetentionAge, logger).Sweep,
			logger, notifier, cfg.Admin.ChatID),
	}

	g, gctx := errgroup.WithContext(ctx)

	for _, loop := range loops {
		g.Go(func() error {
			if err := loop.Run(gctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		limiter.Run(cfg.RateLimit.ReapInterval)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		limiter.Stop()
		return nil
	})

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logger.Info("stopped")
	return err
}

// redisPinger adapts the go-redis client to the health check interface.
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
