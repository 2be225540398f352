package get_availability

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request запрос доступности на месяц
type Request struct {
	TenantID   int64
	Month      time.Time // Любой момент месяца, учитываются год и месяц
	PostalCode *string   // Если указан, проверяется зона обслуживания
}

// Response доступность всех дней месяца
type Response struct {
	TenantID int64
	Month    time.Time // Первый день месяца в часовом поясе тенанта
	Zone     *domain.Zone
	Days     []domain.DayAvailability
}

// DayRequest запрос доступности одного дня (для мастера записи)
type DayRequest struct {
	TenantID int64
	Date     time.Time
}
