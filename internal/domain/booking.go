package domain

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"   // ждет ручного подтверждения
	StatusConfirmed BookingStatus = "confirmed" // подтверждено
	StatusRejected  BookingStatus = "rejected"  // отклонено тенантом
	StatusCanceled  BookingStatus = "canceled"  // отменено
)

// statusTransitions допустимые переходы статусов
var statusTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusRejected, StatusCanceled},
	StatusConfirmed: {StatusCanceled},
}

// ParseBookingStatus конвертирует строку в BookingStatus с валидацией
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCanceled:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

// CanTransitionTo проверяет, разрешен ли переход в статус next
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsActive returns true if the status occupies a place in its session
func (s BookingStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// GeoPoint координаты адреса клиента (от внешнего геокодера)
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Contact контактные данные клиента
type Contact struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city,omitempty"`
	Comment   string `json:"comment,omitempty"`
}

// FullName имя и фамилия через пробел
func (c Contact) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	if c.FirstName == "" {
		return c.LastName
	}
	return c.FirstName + " " + c.LastName
}

// BookingDetails данные мастера, сохраняемые вместе с бронированием
type BookingDetails struct {
	Attributes map[string]string   `json:"attributes,omitempty"`
	Selections map[string][]string `json:"selections,omitempty"`
	Contact    Contact             `json:"contact"`
}

// Booking represents a reserved session of a tenant calendar
// После создания меняются только Status и TechnicianID
type Booking struct {
	ID             int64
	TenantID       int64
	BookingDate    time.Time
	SessionID      string
	SessionStart   types.TimeString
	SessionEnd     types.TimeString
	ServiceID      string
	EquipmentID    *string
	InterventionID *string
	PostalCode     string
	Details        BookingDetails
	Location       *GeoPoint
	Status         BookingStatus
	TechnicianID   *int64 // назначенный техник, nil пока не назначен

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies a place in its session
func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// BookingsFilter фильтр для выборки бронирований тенанта
type BookingsFilter struct {
	TenantID        int64          // Обязательный параметр
	StartDate       *time.Time     // Начало периода (включительно)
	EndDate         *time.Time     // Конец периода (включительно)
	SessionID       *string        // Фильтр по сессии
	Status          *BookingStatus // Фильтр по статусу
	IncludeInactive bool           // Включать отклоненные и отмененные
	TechnicianID    *int64         // Фильтр по назначенному технику
}
