// Package destipicker собирает HTTP‑приложение сервиса.
package destipicker

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/destipicker/internal/config"
	"github.com/magabrotheeeer/destipicker/internal/http/handlers/account/cancel"
	"github.com/magabrotheeeer/destipicker/internal/http/handlers/account/checkout"
	"github.com/magabrotheeeer/destipicker/internal/http/handlers/account/remove"
	"github.com/magabrotheeeer/destipicker/internal/http/handlers/account/webhook"
	"github.com/magabrotheeeer/destipicker/internal/http/handlers/assistant"
	"github.com/magabrotheeeer/destipicker/internal/http/handlers/currencies"
	"github.com/magabrotheeeer/destipicker/internal/http/handlers/decision/decide"
	"github.com/magabrotheeeer/destipicker/internal/http/handlers/decision/history"
	"github.com/magabrotheeeer/destipicker/internal/http/handlers/health"
	"github.com/magabrotheeeer/destipicker/internal/http/middlewarectx"
	accountservice "github.com/magabrotheeeer/destipicker/internal/services/account"
	assistantservice "github.com/magabrotheeeer/destipicker/internal/services/assistant"
	decisionservice "github.com/magabrotheeeer/destipicker/internal/services/decision"
)

// Services — зависимости обработчиков.
type Services struct {
	Decision  *decisionservice.Service
	Assistant *assistantservice.Service
	Account   *accountservice.Service
	Tokens    middlewarectx.TokenParser
	DB        health.Pinger
	Gatherer  prometheus.Gatherer
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, cfg *config.Config, logger *slog.Logger, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		cors.New(cors.Options{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "Stripe-Signature"},
			AllowCredentials: true,
		}).Handler,
	)

	r.Get("/health", health.New(logger, s.DB).ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(cfg.RateLimit, logger))

		// Открытые конечные точки
		r.Get("/currencies", currencies.New(logger).ServeHTTP)
		r.Post("/webhook/stripe", webhook.New(logger, s.Account).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Tokens, logger))
			r.Post("/decide", decide.New(logger, s.Decision).ServeHTTP)
			r.Get("/decisions", history.New(logger, s.Decision).ServeHTTP)
			r.Post("/menu", assistant.NewMenu(logger, s.Assistant).ServeHTTP)
			r.Post("/outfit", assistant.NewOutfit(logger, s.Assistant).ServeHTTP)
			r.Post("/checkout", checkout.New(logger, s.Account).ServeHTTP)
			r.Post("/subscription/cancel", cancel.New(logger, s.Account).ServeHTTP)
			r.Delete("/account", remove.New(logger, s.Account).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
