package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AssignTechnicianRequest запрос на назначение техника
// TechnicianID nil снимает назначение
type AssignTechnicianRequest struct {
	TechnicianID *int64 `json:"technicianId"`
}

// ListBookingsRequest запрос на получение бронирований тенанта
type ListBookingsRequest struct {
	TenantID        int64      `json:"tenantId"`
	StartDate       *time.Time `json:"startDate,omitempty"` // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`   // Конец периода (опционально)
	SessionID       *string    `json:"sessionId,omitempty"`
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отклоненные и отмененные
	TechnicianID    *int64     `json:"technicianId,omitempty"`    // Фильтр по технику (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		TenantID:        r.TenantID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		SessionID:       r.SessionID,
		IncludeInactive: r.IncludeInactive,
		TechnicianID:    r.TechnicianID,
	}

	if r.Status != nil {
		status, ok := domain.ParseBookingStatus(*r.Status)
		if !ok {
			return filter, fmt.Errorf("%w: %q", ErrInvalidStatus, *r.Status)
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID             int64   `json:"id"`
	TenantID       int64   `json:"tenantId"`
	BookingDate    string  `json:"bookingDate"` // "2026-01-05"
	SessionID      string  `json:"sessionId"`
	SessionStart   string  `json:"sessionStart"` // "08:00"
	SessionEnd     string  `json:"sessionEnd"`
	Status         string  `json:"status"`
	ServiceID      string  `json:"serviceId"`
	EquipmentID    *string `json:"equipmentId,omitempty"`
	InterventionID *string `json:"interventionId,omitempty"`
	PostalCode     string  `json:"postalCode"`
	TechnicianID   *int64  `json:"technicianId,omitempty"`

	Attributes map[string]string   `json:"attributes,omitempty"`
	Selections map[string][]string `json:"selections,omitempty"`
	Contact    domain.Contact      `json:"contact"`
	Location   *domain.GeoPoint    `json:"location,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:             b.ID,
		TenantID:       b.TenantID,
		BookingDate:    b.BookingDate.Format(domain.DateFormat),
		SessionID:      b.SessionID,
		SessionStart:   b.SessionStart.String(),
		SessionEnd:     b.SessionEnd.String(),
		Status:         string(b.Status),
		ServiceID:      b.ServiceID,
		EquipmentID:    b.EquipmentID,
		InterventionID: b.InterventionID,
		PostalCode:     b.PostalCode,
		TechnicianID:   b.TechnicianID,
		Attributes:     b.Details.Attributes,
		Selections:     b.Details.Selections,
		Contact:        b.Details.Contact,
		Location:       b.Location,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, b := range bookings {
		if r := FromDomainBooking(b); r != nil {
			resp.Bookings = append(resp.Bookings, *r)
		}
	}

	return resp
}
