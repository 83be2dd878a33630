package decision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/destipicker/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetUser(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) CreateDecision(ctx context.Context, d models.Decision, charge *models.QuotaCharge) (string, error) {
	args := m.Called(ctx, d, charge)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) ListDecisions(ctx context.Context, userID string, limit, offset int) ([]models.Decision, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Decision), args.Error(1)
}

type QuotaMock struct{ mock.Mock }

func (m *QuotaMock) Reserve(ctx context.Context, user *models.User, tool models.Tool) (*models.QuotaCharge, error) {
	args := m.Called(ctx, user, tool)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuotaCharge), args.Error(1)
}

type PlacesMock struct{ mock.Mock }

func (m *PlacesMock) Geocode(ctx context.Context, address string) (*models.Location, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Location), args.Error(1)
}

func (m *PlacesMock) NearbySearch(ctx context.Context, loc models.Location, radiusKm float64, category string) ([]models.Venue, error) {
	args := m.Called(ctx, loc, radiusKm, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Venue), args.Error(1)
}

type EventsMock struct{ mock.Mock }

func (m *EventsMock) PublishDecision(ctx context.Context, event models.DecisionEvent) error {
	return m.Called(ctx, event).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

type mocks struct {
	repo   *RepoMock
	quota  *QuotaMock
	places *PlacesMock
	events *EventsMock
}

func newService() (*Service, mocks) {
	m := mocks{repo: new(RepoMock), quota: new(QuotaMock), places: new(PlacesMock), events: new(EventsMock)}
	svc := NewService(m.repo, m.quota, m.places, seeded(1), m.events, newNoopLogger(), nil)
	return svc, m
}

var manila = models.Location{Lat: 14.5995, Lng: 120.9842}

func cafes(n int) []models.Venue {
	out := make([]models.Venue, n)
	for i := range out {
		out[i] = venue(fmt.Sprintf("cafe%d", i), 4.9-float64(i)*0.2, nil)
	}
	return out
}

func TestService_Decide(t *testing.T) {
	freeUser := func() *models.User {
		return &models.User{UUID: "u1", Currency: "PHP", Location: "Cebu City"}
	}
	charge := &models.QuotaCharge{UserID: "u1", Tool: models.ToolDecision, Limit: 3}
	req := models.DecisionRequest{Category: "cafe", Budget: 500, Currency: "PHP", Radius: 5}

	tests := []struct {
		name       string
		req        models.DecisionRequest
		setup      func(m mocks)
		wantErr    error
		wantAnyErr bool
		wantCount  int
		wantDemo   bool
	}{
		{
			name: "live results for free user",
			req:  req,
			setup: func(m mocks) {
				m.repo.On("GetUser", mock.Anything, "u1").Return(freeUser(), nil).Once()
				m.quota.On("Reserve", mock.Anything, mock.Anything, models.ToolDecision).Return(charge, nil).Once()
				m.places.On("Geocode", mock.Anything, "Cebu City").Return(&manila, nil).Once()
				m.places.On("NearbySearch", mock.Anything, manila, 5.0, "cafe").Return(cafes(10), nil).Once()
				m.repo.On("CreateDecision", mock.Anything, mock.MatchedBy(func(d models.Decision) bool {
					return d.VenueCount == 2 && len(d.Venues) == 2 && !d.IsDemo && d.Currency == "PHP"
				}), charge).Return("d1", nil).Once()
				m.events.On("PublishDecision", mock.Anything, mock.MatchedBy(func(e models.DecisionEvent) bool {
					return e.DecisionID == "d1" && e.Tier == models.TierFree
				})).Return(nil).Once()
			},
			wantCount: 2,
		},
		{
			name: "device location skips geocoding",
			req: models.DecisionRequest{
				Category: "park", Budget: 50, Currency: "USD", Radius: 2,
				UseCurrentLocation: true, UserLocation: &models.Location{Lat: 1, Lng: 2},
			},
			setup: func(m mocks) {
				m.repo.On("GetUser", mock.Anything, "u1").Return(freeUser(), nil).Once()
				m.quota.On("Reserve", mock.Anything, mock.Anything, models.ToolDecision).Return(charge, nil).Once()
				m.places.On("NearbySearch", mock.Anything, models.Location{Lat: 1, Lng: 2}, 2.0, "park").
					Return([]models.Venue{venue("p", 4.0, price(0))}, nil).Once()
				m.repo.On("CreateDecision", mock.Anything, mock.Anything, charge).Return("d2", nil).Once()
				m.events.On("PublishDecision", mock.Anything, mock.Anything).Return(nil).Once()
			},
			wantCount: 1,
		},
		{
			name: "provider failure falls back to demo",
			req:  req,
			setup: func(m mocks) {
				m.repo.On("GetUser", mock.Anything, "u1").Return(freeUser(), nil).Once()
				m.quota.On("Reserve", mock.Anything, mock.Anything, models.ToolDecision).Return(charge, nil).Once()
				m.places.On("Geocode", mock.Anything, "Cebu City").Return(&manila, nil).Once()
				m.places.On("NearbySearch", mock.Anything, manila, 5.0, "cafe").Return(nil, errors.New("timeout")).Once()
				m.repo.On("CreateDecision", mock.Anything, mock.MatchedBy(func(d models.Decision) bool {
					return d.IsDemo && d.VenueCount == len(d.Venues) && d.Venues[0].PlaceID == "mock_cafe_1"
				}), charge).Return("d3", nil).Once()
				m.events.On("PublishDecision", mock.Anything, mock.Anything).Return(nil).Once()
			},
			wantCount: 2,
			wantDemo:  true,
		},
		{
			name: "geocode miss falls back to demo for unmapped category",
			req:  models.DecisionRequest{Category: "bowling_alley", Budget: 20, Currency: "USD", Radius: 3},
			setup: func(m mocks) {
				m.repo.On("GetUser", mock.Anything, "u1").Return(freeUser(), nil).Once()
				m.quota.On("Reserve", mock.Anything, mock.Anything, models.ToolDecision).Return(charge, nil).Once()
				m.places.On("Geocode", mock.Anything, "Cebu City").Return(nil, nil).Once()
				m.repo.On("CreateDecision", mock.Anything, mock.MatchedBy(func(d models.Decision) bool {
					return d.IsDemo && d.Venues[0].PlaceID == "mock_cafe_1"
				}), charge).Return("d4", nil).Once()
				m.events.On("PublishDecision", mock.Anything, mock.Anything).Return(nil).Once()
			},
			wantCount: 2,
			wantDemo:  true,
		},
		{
			name: "no candidate passes filters falls back to demo",
			req:  req,
			setup: func(m mocks) {
				m.repo.On("GetUser", mock.Anything, "u1").Return(freeUser(), nil).Once()
				m.quota.On("Reserve", mock.Anything, mock.Anything, models.ToolDecision).Return(charge, nil).Once()
				m.places.On("Geocode", mock.Anything, "Cebu City").Return(&manila, nil).Once()
				m.places.On("NearbySearch", mock.Anything, manila, 5.0, "cafe").
					Return([]models.Venue{venue("bad", 2.1, nil)}, nil).Once()
				m.repo.On("CreateDecision", mock.Anything, mock.Anything, charge).Return("d5", nil).Once()
				m.events.On("PublishDecision", mock.Anything, mock.Anything).Return(nil).Once()
			},
			wantCount: 2,
			wantDemo:  true,
		},
		{
			name: "user not found",
			req:  req,
			setup: func(m mocks) {
				m.repo.On("GetUser", mock.Anything, "u1").Return(nil, models.ErrUserNotFound).Once()
			},
			wantErr: models.ErrUserNotFound,
		},
		{
			name: "quota exceeded",
			req:  req,
			setup: func(m mocks) {
				m.repo.On("GetUser", mock.Anything, "u1").Return(freeUser(), nil).Once()
				m.quota.On("Reserve", mock.Anything, mock.Anything, models.ToolDecision).Return(nil, models.ErrQuotaExceeded).Once()
			},
			wantErr: models.ErrQuotaExceeded,
		},
		{
			name: "persistence failure",
			req:  req,
			setup: func(m mocks) {
				m.repo.On("GetUser", mock.Anything, "u1").Return(freeUser(), nil).Once()
				m.quota.On("Reserve", mock.Anything, mock.Anything, models.ToolDecision).Return(charge, nil).Once()
				m.places.On("Geocode", mock.Anything, "Cebu City").Return(&manila, nil).Once()
				m.places.On("NearbySearch", mock.Anything, manila, 5.0, "cafe").Return(cafes(3), nil).Once()
				m.repo.On("CreateDecision", mock.Anything, mock.Anything, charge).Return("", errors.New("connection reset")).Once()
			},
			wantAnyErr: true,
		},
		{
			name: "event failure does not fail the decision",
			req:  req,
			setup: func(m mocks) {
				m.repo.On("GetUser", mock.Anything, "u1").Return(freeUser(), nil).Once()
				m.quota.On("Reserve", mock.Anything, mock.Anything, models.ToolDecision).Return(charge, nil).Once()
				m.places.On("Geocode", mock.Anything, "Cebu City").Return(&manila, nil).Once()
				m.places.On("NearbySearch", mock.Anything, manila, 5.0, "cafe").Return(cafes(1), nil).Once()
				m.repo.On("CreateDecision", mock.Anything, mock.Anything, charge).Return("d6", nil).Once()
				m.events.On("PublishDecision", mock.Anything, mock.Anything).Return(errors.New("channel closed")).Once()
			},
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService()
			tt.setup(m)

			res, err := svc.Decide(context.Background(), "u1", tt.req)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
			case tt.wantAnyErr:
				assert.Error(t, err)
				assert.Nil(t, res)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantCount, res.Count)
				assert.Len(t, res.Venues, tt.wantCount)
				assert.Equal(t, tt.wantDemo, res.IsDemo)
				assert.False(t, res.IsPremium)
			}

			m.repo.AssertExpectations(t)
			m.quota.AssertExpectations(t)
			m.places.AssertExpectations(t)
			m.events.AssertExpectations(t)
		})
	}
}

func TestService_Decide_PremiumUsesDefaultLocationAndProfileCurrency(t *testing.T) {
	svc, m := newService()
	user := &models.User{UUID: "p1", IsPremium: true, Currency: "EUR"}

	m.repo.On("GetUser", mock.Anything, "p1").Return(user, nil).Once()
	m.quota.On("Reserve", mock.Anything, user, models.ToolDecision).Return(nil, nil).Once()
	m.places.On("Geocode", mock.Anything, DefaultLocation).Return(&manila, nil).Once()
	candidates := []models.Venue{
		venue("r1", 4.9, nil), venue("r2", 4.7, price(3)), venue("r3", 4.5, price(4)),
		venue("r4", 4.3, nil), venue("r5", 3.9, price(1)),
	}
	m.places.On("NearbySearch", mock.Anything, manila, 10.0, "restaurant").Return(candidates, nil).Once()
	m.repo.On("CreateDecision", mock.Anything, mock.MatchedBy(func(d models.Decision) bool {
		return d.Currency == "EUR" && d.VenueCount <= 5
	}), (*models.QuotaCharge)(nil)).Return("d7", nil).Once()
	m.events.On("PublishDecision", mock.Anything, mock.Anything).Return(nil).Once()

	res, err := svc.Decide(context.Background(), "p1", models.DecisionRequest{Category: "restaurant", Budget: 100, Radius: 10})
	require.NoError(t, err)
	assert.True(t, res.IsPremium)
	// 100 EUR ≈ 108 USD, уровень 4: порог 4.5 проходят r1, r2, r3
	assert.Equal(t, 3, res.Count)
	for _, v := range res.Venues {
		assert.GreaterOrEqual(t, v.Rating, 4.5)
	}
	m.repo.AssertExpectations(t)
}

func TestService_History(t *testing.T) {
	svc, m := newService()
	list := []models.Decision{{ID: "d1", UserID: "u1", VenueCount: 0}}
	m.repo.On("ListDecisions", mock.Anything, "u1", 20, 0).Return(list, nil).Once()
	m.repo.On("ListDecisions", mock.Anything, "u2", 20, 0).Return(nil, errors.New("db")).Once()

	got, err := svc.History(context.Background(), "u1", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, list, got)

	_, err = svc.History(context.Background(), "u2", 20, 0)
	assert.Error(t, err)
}
