package config

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// TenantRepository интерфейс репозитория конфигураций тенантов
type TenantRepository interface {
	Get(ctx context.Context, tenantID int64) (*domain.TenantScheduleConfig, error)
	Upsert(ctx context.Context, cfg *domain.TenantScheduleConfig) (*domain.TenantScheduleConfig, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
