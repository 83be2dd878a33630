// Package assistant реализует HTTP-обработчики анализа меню и сравнения образов.
//
// Оба обработчика принимают multipart/form-data с изображениями, текстом
// сообщения и историей разговора в JSON и возвращают {"result": "..."}.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/destipicker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/destipicker/internal/http/response"
	"github.com/magabrotheeeer/destipicker/internal/lib/sl"
	"github.com/magabrotheeeer/destipicker/internal/models"
	svc "github.com/magabrotheeeer/destipicker/internal/services/assistant"
)

const (
	maxFormMemory = 10 << 20
	maxImageBytes = 8 << 20
)

// Service описывает оба инструмента.
type Service interface {
	Menu(ctx context.Context, userID string, req svc.Request) (string, error)
	Outfit(ctx context.Context, userID string, req svc.Request) (string, error)
}

// Result — ответ инструмента.
type Result struct {
	Result string `json:"result"`
}

// Handler обслуживает один инструмент.
type Handler struct {
	log    *slog.Logger
	op     string
	fields []string
	call   func(ctx context.Context, userID string, req svc.Request) (string, error)
}

// NewMenu создаёт обработчик анализа меню (поле image).
//
// @Summary Анализ меню
// @Tags Assistant
// @Accept  multipart/form-data
// @Produce  json
// @Param image formData file false "Фото меню"
// @Param message formData string false "Вопрос"
// @Param history formData string false "История разговора в JSON"
// @Success 200 {object} Result
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 429 {object} response.LimitResponse
// @Security BearerAuth
// @Router /menu [post]
func NewMenu(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, op: "handlers.assistant.menu", fields: []string{"image"}, call: service.Menu}
}

// NewOutfit создаёт обработчик сравнения образов (поля image1 и image2).
//
// @Summary Сравнение образов
// @Tags Assistant
// @Accept  multipart/form-data
// @Produce  json
// @Param image1 formData file false "Первый образ"
// @Param image2 formData file false "Второй образ"
// @Param message formData string false "Вопрос"
// @Param history formData string false "История разговора в JSON"
// @Success 200 {object} Result
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 429 {object} response.LimitResponse
// @Security BearerAuth
// @Router /outfit [post]
func NewOutfit(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, op: "handlers.assistant.outfit", fields: []string{"image1", "image2"}, call: service.Outfit}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(
		slog.String("op", h.op),
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

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		log.Info("failed to parse form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid form data"))
		return
	}

	req := svc.Request{Message: r.FormValue("message")}
	if raw := r.FormValue("history"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.History); err != nil {
			log.Warn("failed to parse conversation history", sl.Err(err))
			req.History = nil
		}
	}
	for _, field := range h.fields {
		img, err := readImage(r.MultipartForm, field)
		if err != nil {
			log.Info("failed to read image", slog.String("field", field), sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid image"))
			return
		}
		if img != nil {
			req.Images = append(req.Images, *img)
		}
	}

	result, err := h.call(r.Context(), userID, req)
	switch {
	case errors.Is(err, models.ErrQuotaExceeded):
		w.WriteHeader(http.StatusTooManyRequests)
		render.JSON(w, r, response.LimitReached())
		return
	case errors.Is(err, svc.ErrEmptyRequest):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Please provide an image or a message"))
		return
	case errors.Is(err, models.ErrUserNotFound):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("User not found"))
		return
	case err != nil:
		log.Error("assistant request failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Internal Server Error"))
		return
	}

	render.JSON(w, r, Result{Result: result})
}

// readImage возвращает nil, если поле не передано.
func readImage(form *multipart.Form, field string) (*svc.Image, error) {
	if form == nil || len(form.File[field]) == 0 {
		return nil, nil
	}
	fh := form.File[field][0]
	if fh.Size > maxImageBytes {
		return nil, fmt.Errorf("image %s is too large", field)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		return nil, err
	}
	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	return &svc.Image{Data: data, MIMEType: mimeType}, nil
}
