package get_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	getAvailability "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_availability"
)

const (
	msgInvalidTenantID = "некорректный ID тенанта"
	msgMissingMonth    = "месяц обязателен"
	msgInvalidMonth    = "некорректный формат месяца, ожидается YYYY-MM"
	msgTenantNotFound  = "календарь тенанта не найден"
	msgInvalidParams   = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/availability
// Query params: month (required, YYYY-MM), postalCode (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем tenantId из URL
	tenantID, err := handlers.PathInt64(r, "tenantId")
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/availability - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	// Извлекаем month из query параметров
	monthStr := r.URL.Query().Get("month")
	if monthStr == "" {
		h.logger.Warn("GET /tenants/{id}/availability - Missing month")
		handlers.RespondBadRequest(w, msgMissingMonth)
		return
	}

	// Формируем запрос к use case (с парсингом месяца)
	useCaseReq, err := ToUseCaseRequest(tenantID, monthStr, r.URL.Query().Get("postalCode"))
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/availability - Invalid month format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMonth)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if handlers.RespondRejection(w, err) {
			h.logger.Warn("GET /tenants/{id}/availability - Rejected: tenant_id=%d, error=%v", tenantID, err)
			return
		}

		switch {
		case errors.Is(err, getAvailability.ErrTenantNotFound):
			h.logger.Warn("GET /tenants/{id}/availability - Tenant not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /tenants/{id}/availability - Invalid parameters: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /tenants/{id}/availability - Failed to get availability: tenant_id=%d, error=%v",
				tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("GET /tenants/{id}/availability - Availability retrieved successfully: tenant_id=%d, month=%s, days=%d",
		tenantID, response.Month, len(response.Days))
	handlers.RespondJSON(w, http.StatusOK, response)
}
