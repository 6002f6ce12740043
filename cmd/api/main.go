package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"pet-grooming-manager/internal/adapters/auth/jwtauth"
	"pet-grooming-manager/internal/adapters/notify/logonly"
	"pet-grooming-manager/internal/adapters/notify/redisqueue"
	"pet-grooming-manager/internal/adapters/notify/webhook"
	pg "pet-grooming-manager/internal/adapters/storage/postgres"
	"pet-grooming-manager/internal/platform/config"
	"pet-grooming-manager/internal/platform/logger"
	"pet-grooming-manager/internal/platform/tracing"
	"pet-grooming-manager/internal/ports/notify"
	"pet-grooming-manager/internal/router"
	"pet-grooming-manager/internal/worker"
)

// @title Pet Grooming Manager API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewFromEnv().Error("invalid config", map[string]any{"err": err})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.App.Name,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, log, tracing.Options{
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
		Environment: cfg.App.Env,
	})
	if err != nil {
		log.Error("tracing init failed", map[string]any{"err": err})
		os.Exit(1)
	}

	var db *sql.DB
	if cfg.DB.DSN != "" {
		db, err = pg.Open(cfg.DB.DSN, pg.Pool{
			MaxOpenConns:    cfg.DB.MaxOpenConns,
			MaxIdleConns:    cfg.DB.MaxIdleConns,
			ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
		})
		if err != nil {
			log.Error("postgres connect failed", map[string]any{"err": err})
			os.Exit(1)
		}
		defer db.Close()

		if cfg.DB.AutoMigrate {
			if err := pg.Migrate(ctx, db); err != nil {
				log.Error("postgres migrate failed", map[string]any{"err": err})
				os.Exit(1)
			}
		}
		log.Info("storage: postgres", nil)
	} else {
		log.Warn("storage: in-memory (DB_DSN not set)", nil)
	}

	sender, closeSender, err := newNotifier(ctx, cfg, log)
	if err != nil {
		log.Error("notifier init failed", map[string]any{"err": err, "driver": cfg.Notify.Driver})
		os.Exit(1)
	}
	defer closeSender()

	opts := router.Options{
		DB:       db,
		Notifier: sender,
		Logger:   log,
	}
	if cfg.DevMode() {
		log.Warn("auth: dev mode, X-Debug-* headers accepted", nil)
	} else {
		mgr := jwtauth.NewManager(jwtauth.Config{
			Secret: cfg.Auth.JWTSecret,
			Issuer: cfg.Auth.Issuer,
			TTL:    cfg.Auth.TokenTTL,
		})
		opts.AuthVerifier = mgr
		opts.Tokens = mgr
	}

	svcs := router.NewServices(opts)
	opts.Services = svcs

	sweeper := worker.NewExpirySweeper(svcs.Packages, cfg.Expiry.SweepInterval, log)
	go sweeper.Run(ctx)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      otelhttp.NewHandler(router.NewRouter(opts), "http.server"),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "env": cfg.App.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", map[string]any{"err": err})
			sigChan <- syscall.SIGTERM
		}
	}()

	<-sigChan
	log.Info("shutdown signal received", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", map[string]any{"err": err})
	}
	cancel()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracing shutdown error", map[string]any{"err": err})
	}
	log.Info("server stopped", nil)
}

func newNotifier(ctx context.Context, cfg *config.Config, log logger.Logger) (notify.Sender, func(), error) {
	switch cfg.Notify.Driver {
	case "webhook":
		return webhook.NewSender(webhook.Config{
			URL:     cfg.Notify.WebhookURL,
			Secret:  cfg.Notify.WebhookSecret,
			Timeout: cfg.Notify.Timeout,
		}), func() {}, nil
	case "redis":
		rdb, err := redisqueue.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, nil, err
		}
		return redisqueue.NewSender(rdb, cfg.Redis.NotificationQueue), func() { _ = rdb.Close() }, nil
	default:
		return logonly.NewSender(log), func() {}, nil
	}
}
