package models

import "time"

// Tool — инструмент с дневным учётом использования.
type Tool string

const (
	// ToolDecision — подбор заведений.
	ToolDecision Tool = "decision"
	// ToolMenu — анализ меню.
	ToolMenu Tool = "menu"
	// ToolOutfit — сравнение образов.
	ToolOutfit Tool = "outfit"
)

// Count возвращает значение счётчика инструмента из профиля.
func (u *User) Count(tool Tool) int {
	switch tool {
	case ToolMenu:
		return u.DailyMenuCount
	case ToolOutfit:
		return u.DailyOutfitCount
	default:
		return u.DailyUsageCount
	}
}

// ResetCounters обнуляет все счётчики и выставляет дату сброса.
func (u *User) ResetCounters(day time.Time) {
	u.DailyUsageCount = 0
	u.DailyMenuCount = 0
	u.DailyOutfitCount = 0
	u.LastResetDate = &day
}

// QuotaCharge описывает одну единицу дневной квоты, которую нужно списать
// после успешного выполнения операции. Ключ — (UserID, Tool, Date).
type QuotaCharge struct {
	UserID string
	Tool   Tool
	Date   time.Time // Календарный день (UTC) на момент проверки
	Limit  int       // Списание возможно только пока счётчик меньше лимита
}
