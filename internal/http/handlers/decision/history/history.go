// Package history отдаёт историю решений пользователя, новые сначала.
package history

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/destipicker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/destipicker/internal/http/response"
	"github.com/magabrotheeeer/destipicker/internal/lib/sl"
	"github.com/magabrotheeeer/destipicker/internal/models"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Handler обрабатывает запросы истории решений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает чтение истории.
type Service interface {
	History(ctx context.Context, userID string, limit, offset int) ([]models.Decision, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary История решений
// @Tags Decisions
// @Produce  json
// @Param limit query int false "Количество записей (1..100)"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response{data=[]models.DecisionView}
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /decisions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.decision.history"
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

	limit, err := queryInt(r, "limit", defaultLimit)
	if err != nil || limit < 1 || limit > maxLimit {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid limit"))
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid offset"))
		return
	}

	decisions, err := h.service.History(r.Context(), userID, limit, offset)
	if err != nil {
		log.Error("failed to list decisions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list decisions"))
		return
	}

	views := make([]models.DecisionView, 0, len(decisions))
	for _, d := range decisions {
		views = append(views, d.View())
	}
	render.JSON(w, r, response.OKWithData(views))
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
