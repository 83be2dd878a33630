// Package assistant реализует инструменты анализа меню и сравнения образов.
//
// Оба инструмента используют ту же дневную квоту, что и подбор заведений,
// но списывают её только за реально проанализированные изображения.
// Без модели или при её сбое возвращается заготовленный ответ без списания.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/destipicker/internal/lib/metrics"
	"github.com/magabrotheeeer/destipicker/internal/lib/sl"
	"github.com/magabrotheeeer/destipicker/internal/models"
)

// ErrEmptyRequest возвращается, если нет ни изображений, ни текста.
var ErrEmptyRequest = errors.New("please provide an image or a message")

// Image — загруженное изображение.
type Image struct {
	Data     []byte
	MIMEType string
}

// Turn — реплика из предыдущего разговора.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request — запрос к инструменту.
type Request struct {
	Message string
	History []Turn
	Images  []Image
}

// Model генерирует текстовый ответ по подсказке и изображениям.
type Model interface {
	Generate(ctx context.Context, prompt string, images []Image) (string, error)
}

// UserRepository возвращает профиль пользователя.
type UserRepository interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// QuotaTracker резервирует и списывает дневную квоту.
type QuotaTracker interface {
	Reserve(ctx context.Context, user *models.User, tool models.Tool) (*models.QuotaCharge, error)
	Commit(ctx context.Context, charge *models.QuotaCharge) error
}

// Service обслуживает оба инструмента.
type Service struct {
	repo    UserRepository
	quota   QuotaTracker
	model   Model
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewService создаёт Service. model может быть nil: тогда всегда отдаются заготовленные ответы.
func NewService(repo UserRepository, quota QuotaTracker, model Model, log *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{repo: repo, quota: quota, model: model, log: log, metrics: m}
}

// Menu анализирует фотографию меню или отвечает на вопрос о еде.
func (s *Service) Menu(ctx context.Context, userID string, req Request) (string, error) {
	return s.run(ctx, userID, menuTool, req)
}

// Outfit сравнивает два образа или отвечает на вопрос о стиле.
func (s *Service) Outfit(ctx context.Context, userID string, req Request) (string, error) {
	return s.run(ctx, userID, outfitTool, req)
}

func (s *Service) run(ctx context.Context, userID string, t tool, req Request) (string, error) {
	op := "assistant." + string(t.name)
	log := s.log.With(slog.String("op", op), sl.User(userID))

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	charge, err := s.quota.Reserve(ctx, user, t.name)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	message := strings.TrimSpace(req.Message)
	withImages := len(req.Images) >= t.images
	if !withImages && message == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyRequest)
	}
	if !withImages {
		req.Images = nil
	} else {
		req.Images = req.Images[:t.images]
	}

	if s.model == nil {
		s.metrics.Assistant(string(t.name), "canned")
		return t.canned(withImages, message), nil
	}

	prompt := t.prompt(withImages, message, req.History)
	result, err := s.model.Generate(ctx, prompt, req.Images)
	if err != nil || strings.TrimSpace(result) == "" {
		log.Warn("model call failed, using canned reply", sl.Err(err))
		s.metrics.Assistant(string(t.name), "fallback")
		return t.canned(withImages, message), nil
	}

	if withImages {
		if err := s.quota.Commit(ctx, charge); err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
	}
	s.metrics.Assistant(string(t.name), "ok")
	return result, nil
}
