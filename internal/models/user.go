// Package models содержит доменные структуры сервиса: профиль пользователя,
// заведения, запросы и записи решений, а также значения квот.
// Структуры используются в бизнес‑логике, хранилище и HTTP‑слое.
package models

import (
	"errors"
	"time"
)

var (
	// ErrUserNotFound возвращается, если для идентификатора нет строки профиля.
	ErrUserNotFound = errors.New("user not found")
	// ErrQuotaExceeded возвращается, когда бесплатный пользователь исчерпал дневной лимит.
	ErrQuotaExceeded = errors.New("daily limit reached")
	// ErrNotPremium возвращается при попытке отменить несуществующую премиум‑подписку.
	ErrNotPremium = errors.New("no active subscription")
)

// User представляет профиль пользователя в части, нужной сервису.
// Профиль создаётся подсистемой аутентификации; сервис читает его
// и изменяет только счётчики, дату сброса и признак премиума.
type User struct {
	UUID             string     // Идентификатор пользователя (sub из токена)
	Email            string     // Электронная почта
	IsPremium        bool       // Признак премиум‑тарифа
	DailyUsageCount  int        // Решения за текущий день
	DailyMenuCount   int        // Анализы меню за текущий день
	DailyOutfitCount int        // Сравнения образов за текущий день
	LastResetDate    *time.Time // Дата последнего сброса счётчиков (nil — ещё не сбрасывались)
	Location         string     // Сохранённая строка местоположения
	Currency         string     // Предпочитаемая валюта отображения
	StripeCustomerID string     // Идентификатор клиента в Stripe
}

// Tier возвращает тариф пользователя.
func (u *User) Tier() Tier {
	if u.IsPremium {
		return TierPremium
	}
	return TierFree
}

// Tier — уровень подписки.
type Tier string

const (
	// TierFree — бесплатный тариф с дневной квотой.
	TierFree Tier = "free"
	// TierPremium — платный тариф без квоты.
	TierPremium Tier = "premium"
)
