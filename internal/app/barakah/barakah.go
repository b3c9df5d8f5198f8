// Package barakah собирает основное HTTP-приложение: хранилище,
// миграции, кеш, брокер сообщений, платёжного провайдера и маршруты.
package barakah

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/barakahtool/barakah-backend/internal/cache"
	"github.com/barakahtool/barakah-backend/internal/config"
	"github.com/barakahtool/barakah-backend/internal/lib/jwt"
	"github.com/barakahtool/barakah-backend/internal/lib/rabbitmq"
	"github.com/barakahtool/barakah-backend/internal/lib/sl"
	"github.com/barakahtool/barakah-backend/internal/migrations"
	"github.com/barakahtool/barakah-backend/internal/paymentprovider"
	accessservice "github.com/barakahtool/barakah-backend/internal/services/access"
	authservice "github.com/barakahtool/barakah-backend/internal/services/auth"
	catalogservice "github.com/barakahtool/barakah-backend/internal/services/catalog"
	checkoutservice "github.com/barakahtool/barakah-backend/internal/services/checkout"
	reconcileservice "github.com/barakahtool/barakah-backend/internal/services/reconcile"
	usageservice "github.com/barakahtool/barakah-backend/internal/services/usage"
	userservice "github.com/barakahtool/barakah-backend/internal/services/user"
	"github.com/barakahtool/barakah-backend/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	conn   *amqp.Connection
	ch     *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.AddressRabbitMQ, cfg.ConnectRetries, cfg.ConnectDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, []rabbitmq.QueueConfig{rabbitmq.ReceiptQueue})
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Error("failed to close rabbitmq connection", sl.Err(closeErr))
		}
		return nil, err
	}

	providerClient := paymentprovider.NewClient(cfg.Stripe.SecretKey)
	verifier := paymentprovider.NewWebhookVerifier(cfg.Stripe.WebhookSecret)
	publisher := rabbitmq.NewPurchasePublisher(ch)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	accessService := accessservice.New(db, cacheRedis, logger)
	services := &Services{
		Catalog:   catalogservice.New(db, logger),
		User:      userservice.New(db, logger),
		Checkout:  checkoutservice.New(db, providerClient, cfg.FrontendURL, logger),
		Reconcile: reconcileservice.New(db, providerClient, publisher, accessService, logger),
		Access:    accessService,
		Auth:      authservice.New(db, jwtMaker, cfg.SessionTTL, logger),
		Usage:     usageservice.New(db, logger),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, db, services, verifier, jwtMaker)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
		conn:   conn,
		ch:     ch,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.ch.Close(); closeErr != nil {
			a.logger.Error("failed to close rabbitmq channel", sl.Err(closeErr))
		}
		if closeErr := a.conn.Close(); closeErr != nil {
			a.logger.Error("failed to close rabbitmq connection", sl.Err(closeErr))
		}
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", sl.Err(closeErr))
		}
		return err
	}
}
