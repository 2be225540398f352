package reserve_session

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	reserveSession "github.com/m04kA/SMC-SchedulingService/internal/usecase/reserve_session"
)

// ReserveRequest HTTP request model
type ReserveRequest struct {
	PostalCode     string              `json:"postalCode"`
	ServiceID      string              `json:"serviceId"`
	EquipmentID    *string             `json:"equipmentId,omitempty"`
	InterventionID *string             `json:"interventionId,omitempty"`
	Attributes     map[string]string   `json:"attributes,omitempty"`
	Selections     map[string][]string `json:"selections,omitempty"`
	Date           string              `json:"date"` // "2026-01-05"
	SessionID      string              `json:"sessionId"`
	Contact        domain.Contact      `json:"contact"`
	Location       *domain.GeoPoint    `json:"location,omitempty"`
}

// ReserveResponse HTTP response model
type ReserveResponse struct {
	ID        int64  `json:"id"`
	Status    string `json:"status"`
	Date      string `json:"date"`
	SessionID string `json:"sessionId"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ReserveRequest) ToUseCaseRequest(tenantID int64) (*reserveSession.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	return &reserveSession.Request{
		TenantID: tenantID,
		Booking: domain.BookingRequest{
			PostalCode:     r.PostalCode,
			ServiceID:      r.ServiceID,
			EquipmentID:    r.EquipmentID,
			InterventionID: r.InterventionID,
			Attributes:     r.Attributes,
			Selections:     r.Selections,
			Date:           date,
			SessionID:      r.SessionID,
			Contact:        r.Contact,
			Location:       r.Location,
		},
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *reserveSession.Response) *ReserveResponse {
	return &ReserveResponse{
		ID:        resp.Booking.ID,
		Status:    string(resp.Booking.Status),
		Date:      resp.Booking.BookingDate.Format(domain.DateFormat),
		SessionID: resp.Booking.SessionID,
	}
}
