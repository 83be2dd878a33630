// Package webhook принимает события Stripe.
package webhook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/destipicker/internal/http/response"
	"github.com/magabrotheeeer/destipicker/internal/lib/sl"
	"github.com/magabrotheeeer/destipicker/internal/models"
	"github.com/magabrotheeeer/destipicker/internal/services/account"
)

const maxBodyBytes = int64(65536)

// Service описывает обработку события.
type Service interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Вебхук Stripe
// @Tags Account
// @Accept  json
// @Produce  json
// @Param Stripe-Signature header string true "Подпись события"
// @Success 200 {object} map[string]bool "received"
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /webhook/stripe [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid payload"))
		return
	}

	err = h.service.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	switch {
	case errors.Is(err, account.ErrInvalidSignature):
		log.Warn("stripe webhook rejected", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Webhook Error: signature verification failed"))
		return
	case errors.Is(err, account.ErrWebhookNotConfigured):
		log.Error("stripe webhook secret is not set")
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Webhook not configured"))
		return
	case errors.Is(err, models.ErrUserNotFound):
		// Повтор от Stripe не поможет: пользователя нет.
		log.Warn("paid session does not match any user", sl.Err(err))
	case err != nil:
		log.Error("failed to handle stripe webhook", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Database update failed"))
		return
	}

	render.JSON(w, r, map[string]bool{"received": true})
}
