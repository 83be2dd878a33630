// Package quota ведёт дневные лимиты бесплатного тарифа.
//
// Счётчики хранятся в профиле пользователя и изменяются только условными
// атомарными запросами к хранилищу: сброс выполняется, пока дата сброса
// устарела, а списание, пока счётчик меньше лимита.
package quota

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/destipicker/internal/lib/metrics"
	"github.com/magabrotheeeer/destipicker/internal/lib/sl"
	"github.com/magabrotheeeer/destipicker/internal/models"
)

// DefaultDailyLimit — дневной лимит на каждый инструмент.
const DefaultDailyLimit = 3

// Repository — условные операции над счётчиками профиля.
type Repository interface {
	// ResetDailyCounters обнуляет все счётчики и ставит дату сброса day,
	// если сохранённая дата отличается от day. Возвращает true, если сброс выполнен этим вызовом.
	ResetDailyCounters(ctx context.Context, userID string, day time.Time) (bool, error)
	// IncrementUsage увеличивает счётчик инструмента на 1, если дата сброса равна charge.Date,
	// счётчик меньше charge.Limit и пользователь не премиум. Иначе возвращает models.ErrQuotaExceeded.
	IncrementUsage(ctx context.Context, charge models.QuotaCharge) error
}

// Tracker проверяет и списывает дневную квоту.
type Tracker struct {
	repo    Repository
	limit   int
	now     func() time.Time
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewTracker создаёт Tracker. limit <= 0 заменяется на DefaultDailyLimit.
func NewTracker(repo Repository, limit int, log *slog.Logger, m *metrics.Metrics) *Tracker {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	return &Tracker{
		repo:    repo,
		limit:   limit,
		now:     time.Now,
		log:     log,
		metrics: m,
	}
}

// WithClock подменяет источник текущего времени.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// Limit возвращает дневной лимит.
func (t *Tracker) Limit() int {
	return t.limit
}

// Today возвращает текущую календарную дату в UTC.
func (t *Tracker) Today() time.Time {
	return Day(t.now())
}

// Day отбрасывает время суток, оставляя дату в UTC.
func Day(ts time.Time) time.Time {
	y, m, d := ts.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Reserve проверяет, может ли пользователь воспользоваться инструментом сегодня.
// Для премиум‑пользователя возвращается nil без проверок. Устаревшие счётчики
// сначала сбрасываются (в хранилище и в переданном профиле). Списание
// выполняется отдельно через Commit после успешной операции.
func (t *Tracker) Reserve(ctx context.Context, user *models.User, tool models.Tool) (*models.QuotaCharge, error) {
	const op = "quota.Reserve"
	if user.IsPremium {
		return nil, nil
	}

	today := t.Today()
	if user.LastResetDate == nil || !Day(*user.LastResetDate).Equal(today) {
		reset, err := t.repo.ResetDailyCounters(ctx, user.UUID, today)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		user.ResetCounters(today)
		t.log.Debug("daily counters reset", sl.User(user.UUID), slog.Bool("by_this_request", reset))
	}

	if user.Count(tool) >= t.limit {
		t.metrics.QuotaRejected(string(tool))
		return nil, models.ErrQuotaExceeded
	}

	return &models.QuotaCharge{
		UserID: user.UUID,
		Tool:   tool,
		Date:   today,
		Limit:  t.limit,
	}, nil
}

// Commit списывает зарезервированную единицу квоты. nil означает премиум и ничего не делает.
func (t *Tracker) Commit(ctx context.Context, charge *models.QuotaCharge) error {
	const op = "quota.Commit"
	if charge == nil {
		return nil
	}
	if err := t.repo.IncrementUsage(ctx, *charge); err != nil {
		if errors.Is(err, models.ErrQuotaExceeded) {
			t.metrics.QuotaRejected(string(charge.Tool))
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
