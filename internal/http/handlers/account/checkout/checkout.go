// Package checkout создаёт страницу оплаты премиум‑доступа.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/destipicker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/destipicker/internal/http/response"
	"github.com/magabrotheeeer/destipicker/internal/lib/sl"
	"github.com/magabrotheeeer/destipicker/internal/models"
)

// Service описывает создание оплаты.
type Service interface {
	Checkout(ctx context.Context, userID string) (string, error)
}

// Handler обрабатывает запрос на оплату.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Оплата премиума
// @Description Возвращает адрес страницы оплаты Stripe Checkout.
// @Tags Account
// @Produce  json
// @Success 200 {object} map[string]string "url"
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.checkout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := middlewarectx.UserIDFrom(r.Context())
	if !ok {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("Unauthorized"))
		return
	}

	url, err := h.service.Checkout(r.Context(), userID)
	switch {
	case errors.Is(err, models.ErrUserNotFound):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("User not found"))
		return
	case err != nil:
		log.Error("failed to create checkout session", sl.Err(err), sl.User(userID))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create checkout session"))
		return
	}

	render.JSON(w, r, map[string]string{"url": url})
}
