package decision

import (
	"math/rand/v2"

	"github.com/magabrotheeeer/destipicker/internal/models"
)

// Stage — шаг каскада фильтров, на котором набрались кандидаты.
type Stage string

const (
	StagePrimary        Stage = "primary"
	StagePremiumRelaxed Stage = "premium_relaxed"
	StageAnyPrice       Stage = "any_price"
	StageNone           Stage = "none"
)

const (
	premiumPickSize = 5
	freePickSize    = 2

	premiumMinRating        = 4.5
	premiumRelaxedMinRating = 4.0
	freeMinRating           = 3.0
)

// RandSource — источник случайных индексов. IntN возвращает число из [0, n).
type RandSource interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Selector фильтрует кандидатов по тарифу и случайно выбирает из подходящих.
type Selector struct {
	rnd RandSource
}

// NewSelector создаёт Selector. nil означает глобальный генератор math/rand/v2.
func NewSelector(rnd RandSource) *Selector {
	if rnd == nil {
		rnd = globalRand{}
	}
	return &Selector{rnd: rnd}
}

// Select применяет каскад фильтров и возвращает до 5 (премиум) или 2 (бесплатно)
// случайных заведений. Следующий шаг каскада выполняется только при пустом
// результате предыдущего. Пустой результат возвращается со StageNone.
func (s *Selector) Select(candidates []models.Venue, tier models.Tier, maxPriceLevel int) ([]models.Venue, Stage) {
	pool, stage := filterCascade(candidates, tier, maxPriceLevel)
	if len(pool) == 0 {
		return nil, StageNone
	}
	s.shuffle(pool)

	if size := pickSize(tier); len(pool) > size {
		pool = pool[:size]
	}
	return pool, stage
}

func filterCascade(candidates []models.Venue, tier models.Tier, maxPriceLevel int) ([]models.Venue, Stage) {
	minRating := freeMinRating
	if tier == models.TierPremium {
		minRating = premiumMinRating
	}
	pool := filter(candidates, func(v models.Venue) bool {
		return v.Rating >= minRating && v.PriceLevelOrDefault() <= maxPriceLevel
	})
	if len(pool) > 0 {
		return pool, StagePrimary
	}

	if tier == models.TierPremium {
		pool = filter(candidates, func(v models.Venue) bool {
			return v.Rating >= premiumRelaxedMinRating && (v.PriceLevel == nil || *v.PriceLevel <= maxPriceLevel)
		})
		if len(pool) > 0 {
			return pool, StagePremiumRelaxed
		}
	}

	pool = filter(candidates, func(v models.Venue) bool {
		return v.Rating >= freeMinRating
	})
	if len(pool) > 0 {
		return pool, StageAnyPrice
	}
	return nil, StageNone
}

// filter возвращает новый срез, исходный не изменяется.
func filter(venues []models.Venue, keep func(models.Venue) bool) []models.Venue {
	out := make([]models.Venue, 0, len(venues))
	for _, v := range venues {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// shuffle — тасование Фишера–Йетса.
func (s *Selector) shuffle(venues []models.Venue) {
	for i := len(venues) - 1; i > 0; i-- {
		j := s.rnd.IntN(i + 1)
		venues[i], venues[j] = venues[j], venues[i]
	}
}
