// Package identity собирает сервис идентификации: хранилища, кэш,
// шину событий, бизнес-логику и HTTP-сервер.
package identity

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/identity-service/internal/cache"
	"github.com/magabrotheeeer/identity-service/internal/config"
	"github.com/magabrotheeeer/identity-service/internal/lib/jwt"
	"github.com/magabrotheeeer/identity-service/internal/lib/sl"
	"github.com/magabrotheeeer/identity-service/internal/migrations"
	"github.com/magabrotheeeer/identity-service/internal/rabbitmq"
	services "github.com/magabrotheeeer/identity-service/internal/services/auth"
	"github.com/magabrotheeeer/identity-service/internal/storage/postgres"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *postgres.Storage
	cache  *cache.Cache
	rabbit *amqp.Connection
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := postgres.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(cfg.StorageConnectionString, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	tokens, err := jwt.NewCreator(cfg.Tokens)
	if err != nil {
		return nil, err
	}

	// Шина событий опциональна: без RabbitMQ сервис стартует, события
	// не публикуются.
	var rabbitConn *amqp.Connection
	var events services.EventPublisher
	if cfg.RabbitURL != "" {
		rabbitConn, err = rabbitmq.Connect(cfg.RabbitURL, 5, 2*time.Second)
		if err != nil {
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(rabbitConn, cfg.EventsExchange)
		if err != nil {
			return nil, err
		}
		events = rabbitmq.NewPublisher(ch, cfg.EventsExchange)
	} else {
		logger.Warn("rabbitmq url is empty, domain events are disabled")
	}

	dbUoW := postgres.NewUnitOfWork(db.Pool)
	cacheUoW := cache.NewUnitOfWork(cacheRedis, cache.NewKeySchema(""))

	authService := services.NewAuthService(dbUoW, cacheUoW, tokens, events, cfg.DefaultRoleName, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService)

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
		rabbit: rabbitConn,
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
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	a.db.Close()
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis client", sl.Err(err))
	}
	if a.rabbit != nil {
		if err := a.rabbit.Close(); err != nil {
			a.logger.Error("failed to close rabbitmq connection", sl.Err(err))
		}
	}
}
