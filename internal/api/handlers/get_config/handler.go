package get_config

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/config"
)

const (
	msgInvalidTenantID = "некорректный ID тенанта"
	msgNotFound        = "конфигурация не найдена"
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

// Handle GET /api/v1/tenants/{tenantId}/config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем tenantId из URL
	tenantID, err := handlers.PathInt64(r, "tenantId")
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/config - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	result, err := h.service.Get(r.Context(), tenantID)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			h.logger.Warn("GET /tenants/{id}/config - Config not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}

		h.logger.Error("GET /tenants/{id}/config - Failed to get config: tenant_id=%d, error=%v", tenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /tenants/{id}/config - Config retrieved successfully: tenant_id=%d", tenantID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
