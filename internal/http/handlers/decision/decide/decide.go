// Package decide реализует HTTP-обработчик подбора заведений.
//
// Handler принимает JSON с категорией, бюджетом и радиусом, валидирует его,
// берёт пользователя из контекста и возвращает выбранные заведения.
// При исчерпанной квоте отвечает 429 с признаком limit_reached.
package decide

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/destipicker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/destipicker/internal/http/response"
	"github.com/magabrotheeeer/destipicker/internal/lib/sl"
	"github.com/magabrotheeeer/destipicker/internal/models"
)

// Handler управляет запросами на подбор заведений.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает бизнес-логику подбора.
type Service interface {
	Decide(ctx context.Context, userID string, req models.DecisionRequest) (*models.DecisionResult, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подобрать заведения
// @Description Возвращает до 2 заведений для бесплатного тарифа и до 5 для премиума.
// @Tags Decisions
// @Accept  json
// @Produce  json
// @Param request body models.DecisionRequest true "Параметры подбора"
// @Success 200 {object} models.DecisionResult
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Профиль не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 429 {object} response.LimitResponse "Дневной лимит исчерпан"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /decide [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.decision.decide"
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
	log = log.With(sl.User(userID))

	var req models.DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			log.Error("validation failed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request body"))
			return
		}
		log.Info("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(verrs))
		return
	}

	result, err := h.service.Decide(r.Context(), userID, req)
	switch {
	case errors.Is(err, models.ErrQuotaExceeded):
		log.Info("daily limit reached")
		w.WriteHeader(http.StatusTooManyRequests)
		render.JSON(w, r, response.LimitReached())
		return
	case errors.Is(err, models.ErrUserNotFound):
		log.Warn("user profile not found")
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("User not found"))
		return
	case err != nil:
		log.Error("failed to decide", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Internal Server Error"))
		return
	}

	log.Info("decision made", slog.Int("count", result.Count), slog.Bool("demo", result.IsDemo))
	render.JSON(w, r, result)
}
