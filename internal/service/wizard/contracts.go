package wizard

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	getAvailability "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_availability"
	reserveSession "github.com/m04kA/SMC-SchedulingService/internal/usecase/reserve_session"
	intake "github.com/m04kA/SMC-SchedulingService/internal/wizard"
)

// SessionStore хранилище сессий мастера (Redis или память процесса)
type SessionStore interface {
	Get(ctx context.Context, id string) (*intake.Session, error)
	Save(ctx context.Context, s *intake.Session) error
	Delete(ctx context.Context, id string) error
}

// TenantRepository интерфейс репозитория конфигураций тенантов
type TenantRepository interface {
	Get(ctx context.Context, tenantID int64) (*domain.TenantScheduleConfig, error)
}

// AvailabilityCalculator доступность месяца для шага выбора даты и дня для шага выбора окна
type AvailabilityCalculator interface {
	Execute(ctx context.Context, req *getAvailability.Request) (*getAvailability.Response, error)
	Day(ctx context.Context, cfg *domain.TenantScheduleConfig, date time.Time) (*domain.DayAvailability, error)
}

// ReserveUseCase резервирование окна
type ReserveUseCase interface {
	Execute(ctx context.Context, req *reserveSession.Request) (*reserveSession.Response, error)
}

// MetricsCollector счетчик переходов мастера
type MetricsCollector interface {
	RecordWizardTransition(state, result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
