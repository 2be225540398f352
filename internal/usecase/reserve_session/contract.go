package reserve_session

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CountActive(ctx context.Context, tenantID int64, date time.Time, sessionID string) (int, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// TenantRepository интерфейс репозитория конфигураций тенантов
type TenantRepository interface {
	Get(ctx context.Context, tenantID int64) (*domain.TenantScheduleConfig, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикует события бронирований
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// MetricsCollector счетчик исходов резервирования
type MetricsCollector interface {
	RecordReservation(outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
