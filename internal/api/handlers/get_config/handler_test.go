package get_config

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain/domaintest"
	"github.com/m04kA/SMC-SchedulingService/internal/service/config"
	"github.com/m04kA/SMC-SchedulingService/internal/service/config/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type mockService struct{ mock.Mock }

func (m *mockService) Get(ctx context.Context, tenantID int64) (*models.ConfigResponse, error) {
	args := m.Called(ctx, tenantID)
	if r := args.Get(0); r != nil {
		return r.(*models.ConfigResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(svc *mockService, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/tenants/{tenantId}/config", NewHandler(svc, logger.Nop()).Handle)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle(t *testing.T) {
	svc := &mockService{}
	svc.On("Get", mock.Anything, int64(1)).Return(models.FromDomainConfig(domaintest.SessionConfig()), nil)
	svc.On("Get", mock.Anything, int64(2)).Return(nil, config.ErrConfigNotFound)
	svc.On("Get", mock.Anything, int64(3)).Return(nil, config.ErrInternal)

	rec := serve(svc, "/tenants/1/config")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "session", body["mode"])
	assert.Len(t, body["sessions"], 2)
	assert.Contains(t, body, "updatedAt")

	assert.Equal(t, http.StatusNotFound, serve(svc, "/tenants/2/config").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(svc, "/tenants/3/config").Code)
	assert.Equal(t, http.StatusBadRequest, serve(svc, "/tenants/x/config").Code)
}
