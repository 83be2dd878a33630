// Package places обращается к Google Geocoding и Places Nearby Search и
// содержит статический демо‑каталог заведений на случай, когда провайдер
// ничего не вернул.
//
// Любая ошибка клиента означает «данных нет»: вызывающий код переходит
// к демо‑каталогу, а не отвечает пользователю ошибкой.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/magabrotheeeer/destipicker/internal/cache"
	"github.com/magabrotheeeer/destipicker/internal/config"
	"github.com/magabrotheeeer/destipicker/internal/lib/sl"
	"github.com/magabrotheeeer/destipicker/internal/models"
)

// ErrNoAPIKey возвращается, если ключ провайдера не настроен.
var ErrNoAPIKey = errors.New("places api key is not configured")

// StatusError — ответ провайдера со статусом, отличным от OK и ZERO_RESULTS.
type StatusError struct {
	Status  string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return "places: status " + e.Status
	}
	return "places: status " + e.Status + ": " + e.Message
}

const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

// Client — клиент Google Maps Platform.
type Client struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	cache      cache.Cache
	geocodeTTL time.Duration
	log        *slog.Logger
}

// NewClient создаёт клиент. cache может быть nil, тогда геокодирование не кэшируется.
func NewClient(cfg config.Places, c cache.Cache, log *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{},
		cache:      c,
		geocodeTTL: cfg.GeocodeTTL,
		log:        log,
	}
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry models.Geometry `json:"geometry"`
	} `json:"results"`
}

type nearbyResponse struct {
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message"`
	Results      []models.Venue `json:"results"`
}

// Geocode переводит адрес в координаты. Если адрес не найден, возвращается nil без ошибки.
func (c *Client) Geocode(ctx context.Context, address string) (*models.Location, error) {
	const op = "places.Geocode"
	address = strings.TrimSpace(address)
	key := "geocode:" + strings.ToLower(address)

	if c.cache != nil {
		var cached models.Location
		found, err := c.cache.Get(ctx, key, &cached)
		if err != nil {
			c.log.Warn("geocode cache read failed", slog.String("op", op), sl.Err(err))
		} else if found {
			return &cached, nil
		}
	}

	var resp geocodeResponse
	q := url.Values{}
	q.Set("address", address)
	if err := c.getJSON(ctx, "/geocode/json", q, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	switch resp.Status {
	case statusOK:
	case statusZeroResults:
		return nil, nil
	default:
		return nil, fmt.Errorf("%s: %w", op, &StatusError{Status: resp.Status, Message: resp.ErrorMessage})
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}

	loc := resp.Results[0].Geometry.Location
	if c.cache != nil && c.geocodeTTL > 0 {
		if err := c.cache.Set(ctx, key, loc, c.geocodeTTL); err != nil {
			c.log.Warn("geocode cache write failed", slog.String("op", op), sl.Err(err))
		}
	}
	return &loc, nil
}

// NearbySearch ищет заведения категории category в радиусе radiusKm километров.
// ZERO_RESULTS даёт пустой срез без ошибки.
func (c *Client) NearbySearch(ctx context.Context, loc models.Location, radiusKm float64, category string) ([]models.Venue, error) {
	const op = "places.NearbySearch"
	q := url.Values{}
	q.Set("location", strconv.FormatFloat(loc.Lat, 'f', -1, 64)+","+strconv.FormatFloat(loc.Lng, 'f', -1, 64))
	q.Set("radius", strconv.FormatFloat(radiusKm*1000, 'f', 0, 64))
	q.Set("type", category)

	var resp nearbyResponse
	if err := c.getJSON(ctx, "/place/nearbysearch/json", q, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	switch resp.Status {
	case statusOK:
		return resp.Results, nil
	case statusZeroResults:
		return []models.Venue{}, nil
	default:
		return nil, fmt.Errorf("%s: %w", op, &StatusError{Status: resp.Status, Message: resp.ErrorMessage})
	}
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	if c.apiKey == "" {
		return ErrNoAPIKey
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.New("unexpected status: " + resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
