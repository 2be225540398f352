package assign_technician

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
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

type mockService struct{ mock.Mock }

func (m *mockService) AssignTechnician(ctx context.Context, tenantID, id int64, req *models.AssignTechnicianRequest) (*models.BookingResponse, error) {
	args := m.Called(ctx, tenantID, id, req.TechnicianID)
	if r := args.Get(0); r != nil {
		return r.(*models.BookingResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(svc *mockService, target, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/tenants/{tenantId}/bookings/{bookingId}/technician", NewHandler(svc, logger.Nop()).Handle).
		Methods(http.MethodPatch)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, target, strings.NewReader(body)))
	return rec
}

func TestHandle_Assigned(t *testing.T) {
	svc := &mockService{}
	svc.On("AssignTechnician", mock.Anything, int64(1), int64(42), ptr.Ptr(int64(7))).
		Return(&models.BookingResponse{ID: 42, TechnicianID: ptr.Ptr(int64(7))}, nil)

	rec := serve(svc, "/tenants/1/bookings/42/technician", `{"technicianId":7}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(7), ptr.Value(body.TechnicianID))
	svc.AssertExpectations(t)
}

func TestHandle_Unassigned(t *testing.T) {
	svc := &mockService{}
	svc.On("AssignTechnician", mock.Anything, int64(1), int64(42), (*int64)(nil)).
		Return(&models.BookingResponse{ID: 42}, nil)

	rec := serve(svc, "/tenants/1/bookings/42/technician", `{"technicianId":null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	svc := &mockService{}
	svc.On("AssignTechnician", mock.Anything, int64(1), int64(42), ptr.Ptr(int64(-1))).
		Return(nil, fmt.Errorf("%w: technicianId must be positive", bookings.ErrInvalidInput))
	svc.On("AssignTechnician", mock.Anything, int64(1), int64(43), ptr.Ptr(int64(7))).
		Return(nil, bookings.ErrBookingNotFound)
	svc.On("AssignTechnician", mock.Anything, int64(1), int64(44), ptr.Ptr(int64(7))).
		Return(nil, fmt.Errorf("%w: status canceled", bookings.ErrBookingInactive))
	svc.On("AssignTechnician", mock.Anything, int64(1), int64(45), ptr.Ptr(int64(7))).
		Return(nil, bookings.ErrInternal)

	tests := []struct {
		name   string
		target string
		body   string
		want   int
		reason string
	}{
		{"invalid technician", "/tenants/1/bookings/42/technician", `{"technicianId":-1}`, http.StatusBadRequest, "BadRequest"},
		{"not found", "/tenants/1/bookings/43/technician", `{"technicianId":7}`, http.StatusNotFound, "NotFound"},
		{"inactive booking", "/tenants/1/bookings/44/technician", `{"technicianId":7}`, http.StatusConflict, "Conflict"},
		{"internal", "/tenants/1/bookings/45/technician", `{"technicianId":7}`, http.StatusInternalServerError, "Internal"},
		{"broken body", "/tenants/1/bookings/42/technician", `{"technicianId":`, http.StatusBadRequest, "BadRequest"},
		{"bad booking id", "/tenants/1/bookings/x/technician", `{"technicianId":7}`, http.StatusBadRequest, "BadRequest"},
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
