// Package analytics собирает воркер, который читает события решений из RabbitMQ
// и отдаёт счётчики на /metrics.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/destipicker/internal/config"
	"github.com/magabrotheeeer/destipicker/internal/lib/metrics"
	"github.com/magabrotheeeer/destipicker/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/destipicker/internal/lib/sl"
	analyticsservice "github.com/magabrotheeeer/destipicker/internal/services/analytics"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	recorder *analyticsservice.Recorder
	server   *http.Server
	workers  int
	logger   *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.analytics.New"
	if cfg.RabbitMQ.URL == "" {
		return nil, fmt.Errorf("%s: rabbitmq url is not configured", op)
	}
	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.Retries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.DecisionQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	router := chi.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return &App{
		conn:     conn,
		ch:       ch,
		recorder: analyticsservice.NewRecorder(logger, metrics.New(reg)),
		server:   &http.Server{Addr: cfg.Analytics.MetricsAddress, Handler: router, ReadHeaderTimeout: 5 * time.Second},
		workers:  cfg.Analytics.Workers,
		logger:   logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	for _, q := range rabbitmq.DecisionQueues() {
		if err := rabbitmq.ConsumeMessages(ctx, a.ch, q.QueueName, a.workers, a.logger, a.recorder.HandleDecisionEvent); err != nil {
			a.logger.Error("failed to start consumer", slog.String("queue", q.QueueName), sl.Err(err))
			a.close()
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("metrics server starting on", slog.String("address", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		a.logger.Info("analytics worker shutting down gracefully")
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = a.server.Shutdown(timeoutCtx)
	}
	a.close()
	return err
}

func (a *App) close() {
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
}
