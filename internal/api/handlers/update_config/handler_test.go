package update_config

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/config"
	"github.com/m04kA/SMC-SchedulingService/internal/service/config/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

const body = `{
	"mode": "session",
	"sessions": [{"id": "morning", "name": "Matin", "start": "08:00", "end": "12:00", "maxBookings": 1}],
	"workDays": ["monday"],
	"autoConfirm": true,
	"services": [{"id": "repair", "name": "Dépannage"}]
}`

type mockService struct{ mock.Mock }

func (m *mockService) Update(ctx context.Context, tenantID int64, req *models.UpdateConfigRequest) (*models.ConfigResponse, error) {
	args := m.Called(ctx, tenantID, req)
	if r := args.Get(0); r != nil {
		return r.(*models.ConfigResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(svc *mockService, payload string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/tenants/{tenantId}/config", NewHandler(svc, logger.Nop()).Handle).Methods(http.MethodPut)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/tenants/4/config", strings.NewReader(payload)))
	return rec
}

func TestHandle_Updated(t *testing.T) {
	svc := &mockService{}
	svc.On("Update", mock.Anything, int64(4), mock.MatchedBy(func(req *models.UpdateConfigRequest) bool {
		return req.Config.Mode == domain.ModeSession &&
			len(req.Config.Sessions) == 1 &&
			req.Config.Sessions[0].MaxBookings == 1 &&
			req.Config.AutoConfirm
	})).Return(&models.ConfigResponse{TenantScheduleConfig: domain.TenantScheduleConfig{TenantID: 4, Mode: domain.ModeSession}}, nil)

	rec := serve(svc, body)
	require.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandle_InvalidConfiguration(t *testing.T) {
	svc := &mockService{}
	svc.On("Update", mock.Anything, int64(4), mock.Anything).
		Return(nil, &domain.ConfigurationError{Problems: []string{"sessions[0]: end must be after start"}})

	rec := serve(svc, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.ReasonInvalidConfiguration, resp.Reason)
	assert.Equal(t, []string{"sessions[0]: end must be after start"}, resp.Messages)
}

func TestHandle_Failures(t *testing.T) {
	svc := &mockService{}
	assert.Equal(t, http.StatusBadRequest, serve(svc, `{"mode": `).Code)

	svc.On("Update", mock.Anything, int64(4), mock.Anything).Return(nil, config.ErrInternal)
	assert.Equal(t, http.StatusInternalServerError, serve(svc, body).Code)
}
