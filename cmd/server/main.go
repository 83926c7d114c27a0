package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/tablekeep/pos-api/internal/config"
	"github.com/tablekeep/pos-api/internal/database"
	"github.com/tablekeep/pos-api/internal/kitchen"
	"github.com/tablekeep/pos-api/internal/logger"
	"github.com/tablekeep/pos-api/internal/menu"
	"github.com/tablekeep/pos-api/internal/notify"
	"github.com/tablekeep/pos-api/internal/router"
	"github.com/tablekeep/pos-api/internal/service"
	"github.com/tablekeep/pos-api/internal/ws"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	queries := database.New(pool)

	// Notification sinks: websocket hub always, RabbitMQ when configured.
	hub := ws.NewHub(log)
	sinks := []notify.Sink{hub}
	if cfg.AMQPURL != "" {
		amqpSink, closeAMQP, err := notify.DialAMQP(cfg.AMQPURL, notify.DefaultExchange)
		if err != nil {
			return err
		}
		defer closeAMQP() //nolint:errcheck
		sinks = append(sinks, amqpSink)
		log.Info("amqp sink enabled", zap.String("exchange", notify.DefaultExchange))
	}
	dispatcher := notify.NewDispatcher(log, cfg.NotifyTimeout, sinks...)

	// Menu catalog, cached in Redis when configured.
	var catalog menu.Catalog = menu.NewDBCatalog(queries)
	var invalidator menu.Invalidator
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse redis url: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		cached := menu.NewCachedCatalog(catalog, rdb, cfg.MenuCacheTTL, log)
		catalog, invalidator = cached, cached
		log.Info("menu cache enabled", zap.Duration("ttl", cfg.MenuCacheTTL))
	}

	orders := service.NewOrderService(pool, func(db database.DBTX) service.OrderStore {
		return database.New(db)
	}, catalog, dispatcher, log)

	r := router.New(cfg, router.Deps{
		Users:  queries,
		Orders: orders,
		Kitchen: kitchen.NewService(queries, kitchen.Thresholds{
			CookingAfter: cfg.KitchenCookingAfter,
			LateAfter:    cfg.KitchenLateAfter,
		}),
		Menu: menu.NewService(queries, invalidator, dispatcher, log),
		Hub:  hub,
		Log:  log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		log.Info("starting server", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	dispatcher.Wait()
	return err
}
