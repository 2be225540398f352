package update_config

import (
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/config/models"
)

const (
	msgInvalidTenantID    = "некорректный ID тенанта"
	msgInvalidRequestBody = "некорректное тело запроса"
)

type Handler struct {
	service ConfigService
	logger  Logger
}

func NewHandler(service ConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/tenants/{tenantId}/config
// Тело запроса: конфигурация тенанта целиком
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем tenantId из URL
	tenantID, err := handlers.PathInt64(r, "tenantId")
	if err != nil {
		h.logger.Warn("PUT /tenants/{id}/config - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	// Декодируем body
	var req models.UpdateConfigRequest
	if err := handlers.DecodeJSON(r, &req.Config); err != nil {
		h.logger.Warn("PUT /tenants/{id}/config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), tenantID, &req)
	if err != nil {
		// InvalidConfiguration со списком проблем
		if handlers.RespondRejection(w, err) {
			h.logger.Warn("PUT /tenants/{id}/config - Invalid config: tenant_id=%d, error=%v", tenantID, err)
			return
		}

		h.logger.Error("PUT /tenants/{id}/config - Failed to update config: tenant_id=%d, error=%v", tenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /tenants/{id}/config - Config updated successfully: tenant_id=%d, mode=%s",
		tenantID, result.Mode)
	handlers.RespondJSON(w, http.StatusOK, result)
}
