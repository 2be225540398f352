package reserve_session

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	reserveSession "github.com/m04kA/SMC-SchedulingService/internal/usecase/reserve_session"
)

const (
	msgInvalidTenantID = "некорректный ID тенанта"
	msgTenantNotFound  = "календарь тенанта не найден"

	// Ошибки тела запроса отдаются с причиной ValidationFailed в формате проблем domain
	problemInvalidBody = "body: malformed JSON"
	problemInvalidDate = "date: expected YYYY-MM-DD"
)

type Handler struct {
	useCase ReserveSessionUseCase
	logger  Logger
}

func NewHandler(useCase ReserveSessionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/tenants/{tenantId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем tenantId из URL
	tenantID, err := handlers.PathInt64(r, "tenantId")
	if err != nil {
		h.logger.Warn("POST /tenants/{id}/bookings - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	var req ReserveRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /tenants/{id}/bookings - Invalid request body: %v", err)
		handlers.RespondReason(w, http.StatusBadRequest, domain.ReasonValidationFailed, problemInvalidBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты)
	useCaseReq, err := req.ToUseCaseRequest(tenantID)
	if err != nil {
		h.logger.Warn("POST /tenants/{id}/bookings - Invalid date: %v", err)
		handlers.RespondReason(w, http.StatusBadRequest, domain.ReasonValidationFailed, problemInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// SlotFull, OutsideZone, ValidationFailed, OutsideLeadTimeWindow
		if handlers.RespondRejection(w, err) {
			h.logger.Warn("POST /tenants/{id}/bookings - Reservation rejected: tenant_id=%d, date=%s, session=%s, error=%v",
				tenantID, req.Date, req.SessionID, err)
			return
		}

		switch {
		case errors.Is(err, reserveSession.ErrTenantNotFound):
			h.logger.Warn("POST /tenants/{id}/bookings - Tenant not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		default:
			h.logger.Error("POST /tenants/{id}/bookings - Failed to reserve: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /tenants/{id}/bookings - Booking created successfully: booking_id=%d, tenant_id=%d, status=%s",
		response.ID, tenantID, response.Status)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
