package update_booking_status

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type mockService struct{ mock.Mock }

func (m *mockService) UpdateStatus(ctx context.Context, tenantID, id int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	args := m.Called(ctx, tenantID, id, req.Status)
	if r := args.Get(0); r != nil {
		return r.(*models.BookingResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(svc *mockService, target, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/tenants/{tenantId}/bookings/{bookingId}/status", NewHandler(svc, logger.Nop()).Handle).
		Methods(http.MethodPatch)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, target, strings.NewReader(body)))
	return rec
}

func TestHandle_Updated(t *testing.T) {
	svc := &mockService{}
	svc.On("UpdateStatus", mock.Anything, int64(1), int64(42), "canceled").
		Return(&models.BookingResponse{ID: 42, Status: "canceled"}, nil)

	rec := serve(svc, "/tenants/1/bookings/42/status", `{"status":"canceled"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "canceled", body.Status)
	svc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	svc := &mockService{}
	svc.On("UpdateStatus", mock.Anything, int64(1), int64(42), "lost").
		Return(nil, fmt.Errorf("%w: %q", bookings.ErrInvalidStatus, "lost"))
	svc.On("UpdateStatus", mock.Anything, int64(1), int64(43), "canceled").
		Return(nil, bookings.ErrBookingNotFound)
	svc.On("UpdateStatus", mock.Anything, int64(1), int64(44), "pending").
		Return(nil, fmt.Errorf("%w: confirmed -> pending", bookings.ErrInvalidTransition))
	svc.On("UpdateStatus", mock.Anything, int64(1), int64(45), "canceled").
		Return(nil, bookings.ErrInternal)

	tests := []struct {
		name   string
		target string
		body   string
		want   int
		reason string
	}{
		{"unknown status", "/tenants/1/bookings/42/status", `{"status":"lost"}`, http.StatusBadRequest, "BadRequest"},
		{"not found", "/tenants/1/bookings/43/status", `{"status":"canceled"}`, http.StatusNotFound, "NotFound"},
		{"forbidden transition", "/tenants/1/bookings/44/status", `{"status":"pending"}`, http.StatusConflict, "Conflict"},
		{"internal", "/tenants/1/bookings/45/status", `{"status":"canceled"}`, http.StatusInternalServerError, "Internal"},
		{"broken body", "/tenants/1/bookings/42/status", `{"status":`, http.StatusBadRequest, "BadRequest"},
		{"bad booking id", "/tenants/1/bookings/x/status", `{"status":"canceled"}`, http.StatusBadRequest, "BadRequest"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(svc, tt.target, tt.body)
			require.Equal(t, tt.want, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.reason, body["reason"])
		})
	}
}
