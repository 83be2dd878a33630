package history

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/destipicker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/destipicker/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) History(ctx context.Context, userID string, limit, offset int) ([]models.Decision, error) {
	args := m.Called(ctx, userID, limit, offset)
	if res := args.Get(0); res != nil {
		return res.([]models.Decision), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestHistoryHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	created := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "defaults",
			url:  "/api/v1/decisions",
			setupMock: func(m *MockService) {
				m.On("History", mock.Anything, "u1", 20, 0).Return([]models.Decision{
					{ID: "d1", Category: "cafe", VenueCount: 0, Venues: []models.Venue{}, CreatedAt: created},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"id":"d1"`,
		},
		{
			name: "empty history",
			url:  "/api/v1/decisions?limit=5&offset=10",
			setupMock: func(m *MockService) {
				m.On("History", mock.Anything, "u1", 5, 10).Return([]models.Decision{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":[]}`,
		},
		{
			name:           "limit too large",
			url:            "/api/v1/decisions?limit=500",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid limit`,
		},
		{
			name:           "negative offset",
			url:            "/api/v1/decisions?offset=-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid offset`,
		},
		{
			name: "storage failure",
			url:  "/api/v1/decisions",
			setupMock: func(m *MockService) {
				m.On("History", mock.Anything, "u1", 20, 0).Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not list decisions`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)
			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserID, "u1"))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
