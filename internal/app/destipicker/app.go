package destipicker

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/magabrotheeeer/destipicker/internal/cache"
	"github.com/magabrotheeeer/destipicker/internal/config"
	"github.com/magabrotheeeer/destipicker/internal/lib/jwt"
	"github.com/magabrotheeeer/destipicker/internal/lib/metrics"
	"github.com/magabrotheeeer/destipicker/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/destipicker/internal/lib/sl"
	"github.com/magabrotheeeer/destipicker/internal/migrations"
	"github.com/magabrotheeeer/destipicker/internal/places"
	accountservice "github.com/magabrotheeeer/destipicker/internal/services/account"
	assistantservice "github.com/magabrotheeeer/destipicker/internal/services/assistant"
	decisionservice "github.com/magabrotheeeer/destipicker/internal/services/decision"
	"github.com/magabrotheeeer/destipicker/internal/services/quota"
	"github.com/magabrotheeeer/destipicker/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// App — HTTP‑сервер со всеми зависимостями.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	db      *repository.Storage
	closers []func() error
}

// New подключает хранилище, кэш, брокер и внешних провайдеров и собирает маршруты.
// Необязательные зависимости (Redis, RabbitMQ, Gemini, Stripe) отключаются при пустой настройке.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	app := &App{logger: logger, db: db}

	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		app.close()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	geocodeCache := app.initCache(ctx, cfg)
	events := app.initEvents(cfg)

	placesClient := places.NewClient(cfg.Places, geocodeCache, logger)
	tracker := quota.NewTracker(db, cfg.Quota.DailyLimit, logger, m)

	decisionSvc := decisionservice.NewService(db, tracker, placesClient,
		decisionservice.NewSelector(nil), events, logger, m).
		WithDefaultLocation(cfg.Places.DefaultLocale)

	var model assistantservice.Model
	gemini, err := assistantservice.NewGemini(ctx, cfg.Gemini)
	switch {
	case errors.Is(err, assistantservice.ErrNoAPIKey):
		logger.Warn("gemini api key missing, assistant will use canned replies")
	case err != nil:
		logger.Error("failed to init gemini, assistant will use canned replies", sl.Err(err))
	default:
		model = gemini
	}
	assistantSvc := assistantservice.NewService(db, tracker, model, logger, m)

	var checkoutProvider accountservice.CheckoutProvider
	if cfg.Stripe.SecretKey != "" {
		checkoutProvider = accountservice.NewStripeCheckout(cfg.Stripe, nil)
	} else {
		logger.Warn("stripe secret key missing, checkout returns mock urls")
	}
	accountSvc := accountservice.NewService(db, checkoutProvider, cfg.Stripe.WebhookSecret,
		cfg.FrontendURL, logger, m)

	tokens := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	router := chi.NewRouter()
	RegisterRoutes(router, cfg, logger, Services{
		Decision:  decisionSvc,
		Assistant: assistantSvc,
		Account:   accountSvc,
		Tokens:    tokens,
		DB:        db,
		Gatherer:  reg,
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// initCache возвращает Redis, если он настроен и доступен, иначе кэш в памяти процесса.
func (a *App) initCache(ctx context.Context, cfg *config.Config) cache.Cache {
	if cfg.AddressRedis == "" {
		a.logger.Info("redis address is empty, using in-memory cache")
		return cache.NewMemory(cfg.Places.GeocodeTTL)
	}
	r, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		a.logger.Warn("redis is unavailable, using in-memory cache", sl.Err(err))
		return cache.NewMemory(cfg.Places.GeocodeTTL)
	}
	a.closers = append(a.closers, r.Close)
	return r
}

// initEvents подключает RabbitMQ. Без брокера события не публикуются.
func (a *App) initEvents(cfg *config.Config) decisionservice.EventPublisher {
	if cfg.RabbitMQ.URL == "" {
		return rabbitmq.NopPublisher{}
	}
	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.Retries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		a.logger.Warn("rabbitmq is unavailable, decision events disabled", sl.Err(err))
		return rabbitmq.NopPublisher{}
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.DecisionQueues())
	if err != nil {
		a.logger.Warn("failed to set up rabbitmq channel, decision events disabled", sl.Err(err))
		_ = conn.Close()
		return rabbitmq.NopPublisher{}
	}
	a.closers = append(a.closers, conn.Close, ch.Close)
	return rabbitmq.NewPublisher(ch)
}

// Run запускает сервер и останавливает его при отмене ctx.
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
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to close resource", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", sl.Err(err))
	}
}
