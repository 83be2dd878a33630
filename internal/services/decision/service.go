// Package decision подбирает заведения по бюджету, категории и местоположению.
//
// Конвейер: профиль, квота, уровень цен, координаты, поиск кандидатов,
// каскад фильтров со случайным выбором, демо‑каталог при пустом результате,
// сохранение решения вместе со списанием квоты, событие в брокер.
// Сбои провайдера мест не возвращаются вызывающему: они ведут к демо‑каталогу.
package decision

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/destipicker/internal/lib/currency"
	"github.com/magabrotheeeer/destipicker/internal/lib/metrics"
	"github.com/magabrotheeeer/destipicker/internal/lib/sl"
	"github.com/magabrotheeeer/destipicker/internal/models"
	"github.com/magabrotheeeer/destipicker/internal/places"
)

// DefaultLocation используется, если в профиле нет местоположения.
const DefaultLocation = "Manila, Philippines"

const defaultCurrency = "USD"

// Repository — профили и записи решений.
type Repository interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	// CreateDecision сохраняет решение и, если charge не nil, в той же транзакции списывает квоту.
	CreateDecision(ctx context.Context, d models.Decision, charge *models.QuotaCharge) (string, error)
	ListDecisions(ctx context.Context, userID string, limit, offset int) ([]models.Decision, error)
}

// QuotaTracker проверяет дневной лимит.
type QuotaTracker interface {
	Reserve(ctx context.Context, user *models.User, tool models.Tool) (*models.QuotaCharge, error)
}

// PlacesProvider — геокодирование и поиск заведений рядом.
type PlacesProvider interface {
	Geocode(ctx context.Context, address string) (*models.Location, error)
	NearbySearch(ctx context.Context, loc models.Location, radiusKm float64, category string) ([]models.Venue, error)
}

// EventPublisher публикует событие о сохранённом решении.
type EventPublisher interface {
	PublishDecision(ctx context.Context, event models.DecisionEvent) error
}

// Service выполняет подбор заведений.
type Service struct {
	repo            Repository
	quota           QuotaTracker
	places          PlacesProvider
	selector        *Selector
	events          EventPublisher
	log             *slog.Logger
	metrics         *metrics.Metrics
	defaultLocation string
	now             func() time.Time
}

// NewService создаёт Service. events и m могут быть nil.
func NewService(repo Repository, quota QuotaTracker, provider PlacesProvider, selector *Selector,
	events EventPublisher, log *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		repo:            repo,
		quota:           quota,
		places:          provider,
		selector:        selector,
		events:          events,
		log:             log,
		metrics:         m,
		defaultLocation: DefaultLocation,
		now:             time.Now,
	}
}

// WithDefaultLocation задаёт адрес для пользователей без сохранённого местоположения.
func (s *Service) WithDefaultLocation(addr string) *Service {
	if addr != "" {
		s.defaultLocation = addr
	}
	return s
}

// Decide подбирает заведения для пользователя.
//
// Возвращаемые ошибки: models.ErrUserNotFound, models.ErrQuotaExceeded
// (в том числе при проигранной гонке за последнюю единицу квоты)
// и ошибки хранилища.
func (s *Service) Decide(ctx context.Context, userID string, req models.DecisionRequest) (*models.DecisionResult, error) {
	const op = "decision.Decide"
	log := s.log.With(slog.String("op", op), sl.User(userID))

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	charge, err := s.quota.Reserve(ctx, user, models.ToolDecision)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	code := strings.ToUpper(strings.TrimSpace(req.Currency))
	if code == "" {
		code = user.Currency
	}
	if code == "" {
		code = defaultCurrency
	}
	maxPriceLevel := currency.MaxPriceLevel(req.Budget, code)
	tier := user.Tier()

	candidates := s.candidates(ctx, log, user, req)
	venues, stage := s.selector.Select(candidates, tier, maxPriceLevel)

	isDemo := false
	if len(venues) == 0 {
		log.Warn("no live venues, using demo catalog", slog.String("category", req.Category))
		venues = places.Demo(req.Category)
		isDemo = true
		if limit := pickSize(tier); len(venues) > limit {
			venues = venues[:limit]
		}
	}

	d := models.Decision{
		UserID:     user.UUID,
		Category:   req.Category,
		Budget:     req.Budget,
		Currency:   code,
		Radius:     req.Radius,
		VenueCount: len(venues),
		Venues:     venues,
		IsDemo:     isDemo,
		CreatedAt:  s.now().UTC(),
	}
	id, err := s.repo.CreateDecision(ctx, d, charge)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.Decision(string(tier), string(stage))
	s.publish(ctx, log, models.DecisionEvent{
		DecisionID: id,
		UserID:     user.UUID,
		Category:   req.Category,
		Tier:       tier,
		VenueCount: len(venues),
		IsDemo:     isDemo,
		CreatedAt:  d.CreatedAt,
	})

	log.Info("decision created",
		slog.String("decision_id", id),
		slog.String("tier", string(tier)),
		slog.String("stage", string(stage)),
		slog.Int("max_price_level", maxPriceLevel),
		slog.Int("count", len(venues)),
		slog.Bool("demo", isDemo),
	)

	return &models.DecisionResult{
		Venues:    venues,
		Count:     len(venues),
		IsPremium: user.IsPremium,
		IsDemo:    isDemo,
	}, nil
}

// History возвращает решения пользователя, начиная с последних.
func (s *Service) History(ctx context.Context, userID string, limit, offset int) ([]models.Decision, error) {
	const op = "decision.History"
	list, err := s.repo.ListDecisions(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// candidates возвращает кандидатов от провайдера или nil, если данных нет.
func (s *Service) candidates(ctx context.Context, log *slog.Logger, user *models.User, req models.DecisionRequest) []models.Venue {
	var loc *models.Location
	if req.UseCurrentLocation && req.UserLocation != nil {
		loc = req.UserLocation
	} else {
		addr := strings.TrimSpace(user.Location)
		if addr == "" {
			addr = s.defaultLocation
		}
		var err error
		loc, err = s.places.Geocode(ctx, addr)
		if err != nil {
			s.metrics.ProviderFailed("geocode")
			log.Warn("geocoding failed", slog.String("address", addr), sl.Err(err))
			return nil
		}
		if loc == nil {
			log.Warn("address not found", slog.String("address", addr))
			return nil
		}
	}

	venues, err := s.places.NearbySearch(ctx, *loc, req.Radius, req.Category)
	if err != nil {
		s.metrics.ProviderFailed("nearby")
		log.Warn("nearby search failed", sl.Err(err))
		return nil
	}
	return venues
}

func (s *Service) publish(ctx context.Context, log *slog.Logger, event models.DecisionEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishDecision(ctx, event); err != nil {
		log.Warn("failed to publish decision event", sl.Err(err))
	}
}

func pickSize(tier models.Tier) int {
	if tier == models.TierPremium {
		return premiumPickSize
	}
	return freePickSize
}
