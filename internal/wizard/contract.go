package wizard

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Calendar доступность дня по конфигурации тенанта
type Calendar interface {
	Day(ctx context.Context, cfg *domain.TenantScheduleConfig, date time.Time) (*domain.DayAvailability, error)
}

// Reserver резервирование окна
// Отказы возвращаются ошибками с причинами domain (ErrSlotFull, ErrOutsideZone, ...)
type Reserver interface {
	Reserve(ctx context.Context, tenantID int64, req domain.BookingRequest) (*domain.Booking, error)
}
