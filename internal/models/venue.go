package models

// Location — географические координаты.
type Location struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

// Geometry повторяет форму ответа провайдера мест.
type Geometry struct {
	Location Location `json:"location"`
}

// Photo — ссылка на фотографию заведения у провайдера.
type Photo struct {
	PhotoReference string `json:"photo_reference"`
	Height         int    `json:"height"`
	Width          int    `json:"width"`
}

// OpeningHours — признак того, что заведение открыто сейчас.
type OpeningHours struct {
	OpenNow bool `json:"open_now"`
}

// Venue — заведение‑кандидат или выбранное заведение.
// Rating может отсутствовать (трактуется как 0), PriceLevel может отсутствовать
// (nil, при фильтрации трактуется как 2).
type Venue struct {
	PlaceID          string        `json:"place_id"`
	Name             string        `json:"name"`
	Rating           float64       `json:"rating,omitempty"`
	PriceLevel       *int          `json:"price_level,omitempty"`
	Vicinity         string        `json:"vicinity"`
	Geometry         Geometry      `json:"geometry"`
	Photos           []Photo       `json:"photos,omitempty"`
	Types            []string      `json:"types,omitempty"`
	UserRatingsTotal int           `json:"user_ratings_total,omitempty"`
	OpeningHours     *OpeningHours `json:"opening_hours,omitempty"`
}

// DefaultPriceLevel — уровень цен, который подставляется при его отсутствии.
const DefaultPriceLevel = 2

// PriceLevelOrDefault возвращает уровень цен или DefaultPriceLevel.
func (v Venue) PriceLevelOrDefault() int {
	if v.PriceLevel == nil {
		return DefaultPriceLevel
	}
	return *v.PriceLevel
}
