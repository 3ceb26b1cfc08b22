package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"mindbloom-api/internal/app"
	"mindbloom-api/internal/config"
	"mindbloom-api/internal/handler"
	"mindbloom-api/internal/metrics"
	"mindbloom-api/internal/middleware"
	"mindbloom-api/internal/scheduler"
	"mindbloom-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db", zap.Error(err))
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}
	logger.Info("connected to postgres")

	if err := app.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrations", zap.Error(err))
	}
	logger.Info("migrations applied")

	st := store.New(pool)
	m := metrics.New()
	sched := scheduler.New(st, scheduler.Options{
		Slots:         cfg.SlotLabels,
		HorizonDays:   cfg.HorizonDays,
		AllowWeekends: cfg.AllowWeekends,
		StoreTimeout:  cfg.StoreTimeout,
		Logger:        logger.Named("scheduler"),
	})
	h := handler.New(sched, st, m, logger.Named("http"), cfg.JWTSecret, cfg.RefreshTTL)
	rl := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Router(h, m, rl, logger.Named("http")),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http", zap.Error(err))
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}
