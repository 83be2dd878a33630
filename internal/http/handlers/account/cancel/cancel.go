// Package cancel возвращает пользователя на бесплатный тариф.
package cancel

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

type Service interface {
	CancelPremium(ctx context.Context, userID string) error
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отмена премиума
// @Tags Account
// @Produce  json
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Нет активной подписки"
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /subscription/cancel [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.cancel"
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

	err := h.service.CancelPremium(r.Context(), userID)
	switch {
	case errors.Is(err, models.ErrNotPremium):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("No active subscription"))
		return
	case err != nil:
		log.Error("failed to cancel premium", sl.Err(err), sl.User(userID))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Failed to cancel subscription"))
		return
	}

	log.Info("premium cancelled", sl.User(userID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "Subscription cancelled successfully. You now have the Free plan.",
	}))
}
