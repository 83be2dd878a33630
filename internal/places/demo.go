package places

import "github.com/magabrotheeeer/destipicker/internal/models"

// DefaultCategory — категория демо‑каталога для неизвестных категорий.
const DefaultCategory = "cafe"

func level(n int) *int { return &n }

var demoVenues = map[string][]models.Venue{
	"cafe": {
		{
			PlaceID:    "mock_cafe_1",
			Name:       "Starry Matcha Lounge",
			Vicinity:   "Celestial Way, Metro",
			Rating:     4.9,
			PriceLevel: level(2),
			Geometry:   models.Geometry{Location: models.Location{Lat: 14.5995, Lng: 120.9842}},
			Types:      []string{"cafe", "food", "point_of_interest", "establishment"},
			Photos:     []models.Photo{{PhotoReference: "mock1", Height: 800, Width: 600}},
		},
		{
			PlaceID:    "mock_cafe_2",
			Name:       "Zen Garden Tea House",
			Vicinity:   "Bamboo Grove St.",
			Rating:     4.7,
			PriceLevel: level(3),
			Geometry:   models.Geometry{Location: models.Location{Lat: 14.6010, Lng: 120.9850}},
			Types:      []string{"cafe", "food", "point_of_interest", "establishment"},
			Photos:     []models.Photo{{PhotoReference: "mock2", Height: 800, Width: 600}},
		},
	},
	"restaurant": {
		{
			PlaceID:    "mock_rest_1",
			Name:       "The Matcha Kitchen",
			Vicinity:   "Gourmet Plaza",
			Rating:     4.8,
			PriceLevel: level(3),
			Geometry:   models.Geometry{Location: models.Location{Lat: 14.5980, Lng: 120.9830}},
			Types:      []string{"restaurant", "food", "point_of_interest", "establishment"},
			Photos:     []models.Photo{{PhotoReference: "mock3", Height: 800, Width: 600}},
		},
		{
			PlaceID:    "mock_rest_2",
			Name:       "Emerald Dining",
			Vicinity:   "Skyline Towers",
			Rating:     4.6,
			PriceLevel: level(4),
			Geometry:   models.Geometry{Location: models.Location{Lat: 14.6020, Lng: 120.9860}},
			Types:      []string{"restaurant", "food", "point_of_interest", "establishment"},
			Photos:     []models.Photo{{PhotoReference: "mock4", Height: 800, Width: 600}},
		},
	},
	"shopping_mall": {
		{
			PlaceID:    "mock_shop_1",
			Name:       "Matcha Central Mall",
			Vicinity:   "Retail District",
			Rating:     4.5,
			PriceLevel: level(2),
			Geometry:   models.Geometry{Location: models.Location{Lat: 14.5900, Lng: 120.9800}},
			Types:      []string{"shopping_mall", "establishment"},
			Photos:     []models.Photo{{PhotoReference: "mock5", Height: 800, Width: 600}},
		},
	},
	"park": {
		{
			PlaceID:    "mock_park_1",
			Name:       "Matcha Botanic Garden",
			Vicinity:   "Green belt",
			Rating:     4.9,
			PriceLevel: level(0),
			Geometry:   models.Geometry{Location: models.Location{Lat: 14.5950, Lng: 120.9900}},
			Types:      []string{"park", "establishment"},
			Photos:     []models.Photo{{PhotoReference: "mock6", Height: 800, Width: 600}},
		},
	},
	"night_club": {
		{
			PlaceID:    "mock_club_1",
			Name:       "Neon Matcha Bar",
			Vicinity:   "After Dark St.",
			Rating:     4.7,
			PriceLevel: level(3),
			Geometry:   models.Geometry{Location: models.Location{Lat: 14.6050, Lng: 120.9880}},
			Types:      []string{"night_club", "establishment"},
			Photos:     []models.Photo{{PhotoReference: "mock7", Height: 800, Width: 600}},
		},
	},
}

// Demo возвращает копию демо‑заведений категории; для неизвестной категории — кафе.
// Результат всегда непустой.
func Demo(category string) []models.Venue {
	src, ok := demoVenues[category]
	if !ok {
		src = demoVenues[DefaultCategory]
	}
	out := make([]models.Venue, len(src))
	for i, v := range src {
		if v.PriceLevel != nil {
			v.PriceLevel = level(*v.PriceLevel)
		}
		v.Types = append([]string(nil), v.Types...)
		v.Photos = append([]models.Photo(nil), v.Photos...)
		out[i] = v
	}
	return out
}
