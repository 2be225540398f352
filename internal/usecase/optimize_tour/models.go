package optimize_tour

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request маршрут по явному списку остановок
type Request struct {
	Depot domain.Point
	Stops []domain.Stop
}

// Response упорядоченные остановки и длина маршрута от депо
type Response struct {
	Depot         domain.Point
	Stops         []domain.Stop
	TotalDistance float64
}

// DayRequest маршрут техника по подтвержденным бронированиям дня, назначенным ему
type DayRequest struct {
	TenantID     int64
	TechnicianID int64
	Date         time.Time
	Depot        domain.Point
}

// TourStop остановка маршрута вместе с бронированием
type TourStop struct {
	Stop        domain.Stop
	Booking     *domain.Booking
	LegDistance float64 // Расстояние от предыдущей точки
}

// DayResponse маршрут дня
type DayResponse struct {
	TenantID      int64
	TechnicianID  int64
	Date          time.Time
	Depot         domain.Point
	Stops         []TourStop
	TotalDistance float64
	Unlocated     []int64 // Бронирования без координат, не вошедшие в маршрут
}
