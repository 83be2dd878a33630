package models

import "time"

// DecisionRequest — параметры запроса на подбор заведений из JSON.
// Currency необязательна: при пустом значении берётся валюта профиля.
type DecisionRequest struct {
	Category           string    `json:"category" validate:"required"`
	Budget             float64   `json:"budget" validate:"gte=0"`
	Currency           string    `json:"currency,omitempty" validate:"omitempty,len=3"`
	Radius             float64   `json:"radius" validate:"gt=0,lte=50"`
	UseCurrentLocation bool      `json:"useCurrentLocation,omitempty"`
	UserLocation       *Location `json:"userLocation,omitempty"`
}

// Decision — сохраняемая запись о подборе. Создаётся один раз и не изменяется.
// VenueCount всегда равен len(Venues).
type Decision struct {
	ID         string
	UserID     string
	Category   string
	Budget     float64
	Currency   string
	Radius     float64
	VenueCount int
	Venues     []Venue
	IsDemo     bool
	CreatedAt  time.Time
}

// DecisionResult — результат подбора, возвращаемый клиенту.
type DecisionResult struct {
	Venues    []Venue `json:"venues"`
	Count     int     `json:"count"`
	IsPremium bool    `json:"is_premium"`
	IsDemo    bool    `json:"is_demo"`
}

// DecisionEvent публикуется в брокер после сохранения решения.
type DecisionEvent struct {
	DecisionID string    `json:"decision_id"`
	UserID     string    `json:"user_id"`
	Category   string    `json:"category"`
	Tier       Tier      `json:"tier"`
	VenueCount int       `json:"venue_count"`
	IsDemo     bool      `json:"is_demo"`
	CreatedAt  time.Time `json:"created_at"`
}

// DecisionView — запись истории решений для ответа клиенту.
type DecisionView struct {
	ID         string    `json:"id"`
	Category   string    `json:"category"`
	Budget     float64   `json:"budget"`
	Currency   string    `json:"currency"`
	Radius     float64   `json:"radius"`
	VenueCount int       `json:"venue_count"`
	Venues     []Venue   `json:"venues"`
	IsDemo     bool      `json:"is_demo"`
	CreatedAt  time.Time `json:"created_at"`
}

// View преобразует запись в представление для клиента.
func (d Decision) View() DecisionView {
	return DecisionView{
		ID:         d.ID,
		Category:   d.Category,
		Budget:     d.Budget,
		Currency:   d.Currency,
		Radius:     d.Radius,
		VenueCount: d.VenueCount,
		Venues:     d.Venues,
		IsDemo:     d.IsDemo,
		CreatedAt:  d.CreatedAt,
	}
}
