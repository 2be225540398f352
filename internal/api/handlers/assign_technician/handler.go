package assign_technician

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
)

const (
	msgInvalidTenantID     = "некорректный ID тенанта"
	msgInvalidBookingID    = "некорректный ID бронирования"
	msgInvalidBody         = "некорректное тело запроса"
	msgInvalidTechnicianID = "некорректный ID техника"
	msgBookingInactive     = "бронирование отклонено или отменено"
	msgNotFound            = "бронирование не найдено"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/tenants/{tenantId}/bookings/{bookingId}/technician
// {"technicianId": null} снимает назначение
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, err := handlers.PathInt64(r, "tenantId")
	if err != nil {
		h.logger.Warn("PATCH /tenants/{id}/bookings/{id}/technician - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /tenants/{id}/bookings/{id}/technician - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req models.AssignTechnicianRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /tenants/{id}/bookings/{id}/technician - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	booking, err := h.service.AssignTechnician(r.Context(), tenantID, bookingID, &req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /tenants/{id}/bookings/{id}/technician - Invalid technician: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTechnicianID)

		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /tenants/{id}/bookings/{id}/technician - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrBookingInactive):
			h.logger.Warn("PATCH /tenants/{id}/bookings/{id}/technician - Booking inactive: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondConflict(w, msgBookingInactive)

		default:
			h.logger.Error("PATCH /tenants/{id}/bookings/{id}/technician - Failed to assign technician: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /tenants/{id}/bookings/{id}/technician - Technician updated: booking_id=%d", bookingID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
