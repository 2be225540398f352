package get_availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	getAvailability "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *getAvailability.Request) (*getAvailability.Response, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*getAvailability.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(uc *mockUseCase, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/tenants/{tenantId}/availability", NewHandler(uc, logger.Nop()).Handle)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_Success(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *getAvailability.Request) bool {
		return req.TenantID == 1 &&
			req.Month.Month() == time.January &&
			req.PostalCode != nil && *req.PostalCode == "60000"
	})).Return(&getAvailability.Response{
		TenantID: 1,
		Month:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Zone:     &domain.Zone{Prefix: "60", Label: "Oise"},
		Days: []domain.DayAvailability{{
			Date:    time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			Weekday: time.Monday,
			Sessions: []domain.SessionAvailability{
				{SessionID: "morning", Name: "Matin", Start: "08:00", End: "12:00", Capacity: 1, Remaining: 1, Available: true},
			},
		}},
	}, nil)

	rec := serve(uc, "/tenants/1/availability?month=2026-01&postalCode=60000")
	require.Equal(t, http.StatusOK, rec.Code)

	var body AvailabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2026-01", body.Month)
	require.Len(t, body.Days, 1)
	assert.Equal(t, "2026-01-05", body.Days[0].Date)
	assert.Equal(t, "Monday", body.Days[0].DayOfWeek)
	assert.True(t, body.Days[0].IsBookable)
	assert.Equal(t, "08:00", body.Days[0].Sessions[0].Start)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		err        error
		wantStatus int
		wantReason string
	}{
		{name: "invalid tenant", target: "/tenants/abc/availability?month=2026-01", wantStatus: http.StatusBadRequest, wantReason: handlers.ReasonBadRequest},
		{name: "missing month", target: "/tenants/1/availability", wantStatus: http.StatusBadRequest, wantReason: handlers.ReasonBadRequest},
		{name: "invalid month", target: "/tenants/1/availability?month=01-2026", wantStatus: http.StatusBadRequest, wantReason: handlers.ReasonBadRequest},
		{name: "outside zone", target: "/tenants/1/availability?month=2026-01&postalCode=75008", err: domain.ErrOutsideZone, wantStatus: http.StatusUnprocessableEntity, wantReason: domain.ReasonOutsideZone},
		{name: "tenant not found", target: "/tenants/1/availability?month=2026-01", err: getAvailability.ErrTenantNotFound, wantStatus: http.StatusNotFound, wantReason: handlers.ReasonNotFound},
		{name: "internal", target: "/tenants/1/availability?month=2026-01", err: getAvailability.ErrInternal, wantStatus: http.StatusInternalServerError, wantReason: handlers.ReasonInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			if tt.err != nil {
				uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)
			}

			rec := serve(uc, tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantReason, body.Reason)
			assert.NotEmpty(t, body.Messages)
		})
	}
}
