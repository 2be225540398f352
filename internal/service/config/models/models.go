package models

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// UpdateConfigRequest новая конфигурация тенанта целиком
type UpdateConfigRequest struct {
	Config domain.TenantScheduleConfig
}

// ConfigResponse ответ с конфигурацией тенанта
type ConfigResponse struct {
	domain.TenantScheduleConfig
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(c *domain.TenantScheduleConfig) *ConfigResponse {
	if c == nil {
		return nil
	}
	return &ConfigResponse{
		TenantScheduleConfig: *c,
		UpdatedAt:            c.UpdatedAt,
	}
}

// ToDomainConfig конвертирует запрос в domain модель
// tenantId из пути важнее значения в теле
func (r *UpdateConfigRequest) ToDomainConfig(tenantID int64) *domain.TenantScheduleConfig {
	cfg := r.Config
	cfg.TenantID = tenantID
	if cfg.Timezone == "" {
		cfg.Timezone = domain.DefaultTimezone
	}
	return &cfg
}
