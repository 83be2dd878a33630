package remove

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/destipicker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/destipicker/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) DeleteAccount(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func TestRemoveHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tests := []struct {
		name           string
		userID         string
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{name: "deleted", userID: "u1", expectedStatus: http.StatusOK, expectedBody: `{"status":"OK","data":{"deleted":true}}`},
		{name: "unauthorized", expectedStatus: http.StatusUnauthorized, expectedBody: `{"status":"Error","error":"Unauthorized"}`},
		{name: "unknown user", userID: "u1", err: models.ErrUserNotFound, expectedStatus: http.StatusNotFound, expectedBody: `{"status":"Error","error":"User not found"}`},
		{name: "failure", userID: "u1", err: errors.New("db down"), expectedStatus: http.StatusInternalServerError, expectedBody: `{"status":"Error","error":"Failed to delete account"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			if tt.userID != "" {
				mockService.On("DeleteAccount", mock.Anything, tt.userID).Return(tt.err)
			}

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/account", nil)
			if tt.userID != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserID, tt.userID))
			}
			w := httptest.NewRecorder()
			New(logger, mockService).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
