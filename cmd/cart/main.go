package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/shopcart/internal/config"
	"github.com/Skotchmaster/shopcart/internal/db"
	"github.com/Skotchmaster/shopcart/internal/events"
	"github.com/Skotchmaster/shopcart/internal/httpserver"
	"github.com/Skotchmaster/shopcart/internal/logging"
	loggingmw "github.com/Skotchmaster/shopcart/internal/middleware/logging"
	"github.com/Skotchmaster/shopcart/internal/repo"
	"github.com/Skotchmaster/shopcart/internal/service"
)

type publisher interface {
	service.EventPublisher
	Close() error
}

func newPublisher(ctx context.Context, cfg config.Config, logger *slog.Logger) publisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("kafka disabled", "reason", "KAFKA_BROKERS is empty")
		return events.Nop{}
	}

	topicCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := events.EnsureTopics(topicCtx, cfg.KafkaBrokers[0], cfg.CartEventsTopic); err != nil {
		logger.Warn("kafka topic check failed", "topic", cfg.CartEventsTopic, "error", err)
	}

	prod, err := events.NewProducer(cfg.KafkaBrokers)
	if err != nil {
		logger.Warn("kafka producer disabled", "error", err)
		return events.Nop{}
	}
	return prod
}

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err == nil {
		err = db.Migrate(ctx, gdb)
	}
	cancel()
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	r := &repo.GormRepo{DB: gdb}
	reference := &service.ReferenceService{Repo: r}
	catalog := &service.CatalogService{Repo: r}

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if _, err := reference.EnsureDefaults(seedCtx, cfg.DefaultStore); err != nil {
		seedCancel()
		log.Fatalf("seed reference data: %v", err)
	}
	seedCancel()

	prod := newPublisher(context.Background(), cfg, logger)

	cartService := &service.CartService{
		Repo:     r,
		Pricing:  &service.PricingService{},
		Products: catalog,
		Events:   prod,
		Topic:    cfg.CartEventsTopic,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		DB: gdb,
		CartHandler: &httpserver.CartHTTP{
			Svc:          cartService,
			Reference:    reference,
			DefaultStore: cfg.DefaultStore,
			CookieName:   cfg.CartCookie,
		},
		JWTSecret: cfg.JWTAccessSecret,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("cart listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	if err := prod.Close(); err != nil {
		logger.Error("kafka close", "error", err)
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("cart stopped")
}
