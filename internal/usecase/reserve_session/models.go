package reserve_session

import (
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request запрос на резервирование окна
type Request struct {
	TenantID int64
	Booking  domain.BookingRequest
}

// Response созданное бронирование
type Response struct {
	Booking *domain.Booking
}
