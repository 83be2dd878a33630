// Package remove удаляет аккаунт пользователя вместе с историей решений.
package remove

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
	DeleteAccount(ctx context.Context, userID string) error
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удаление аккаунта
// @Tags Account
// @Produce  json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /account [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.remove"
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

	err := h.service.DeleteAccount(r.Context(), userID)
	switch {
	case errors.Is(err, models.ErrUserNotFound):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("User not found"))
		return
	case err != nil:
		log.Error("failed to delete account", sl.Err(err), sl.User(userID))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Failed to delete account"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{"deleted": true}))
}
