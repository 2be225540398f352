package config

import (
	"context"
	"errors"
	"fmt"

	tenantRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-SchedulingService/internal/service/config/models"
)

// Service сервис для работы с конфигурацией расписания тенанта
type Service struct {
	tenantRepo TenantRepository
	logger     Logger
}

// NewService создает новый экземпляр сервиса конфигурации
func NewService(tenantRepo TenantRepository, logger Logger) *Service {
	return &Service{
		tenantRepo: tenantRepo,
		logger:     logger,
	}
}

// Get получает конфигурацию тенанта
func (s *Service) Get(ctx context.Context, tenantID int64) (*models.ConfigResponse, error) {
	s.logger.Info("Get: fetching config of tenant=%d", tenantID)

	cfg, err := s.tenantRepo.Get(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrConfigNotFound) {
			s.logger.Warn("Get: tenant=%d has no config", tenantID)
			return nil, ErrConfigNotFound
		}
		s.logger.Error("Get: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainConfig(cfg), nil
}

// Update создает или полностью заменяет конфигурацию тенанта
// Некорректная конфигурация отклоняется целиком (*domain.ConfigurationError), чтобы она не всплыла при записи
func (s *Service) Update(ctx context.Context, tenantID int64, req *models.UpdateConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("Update: replacing config of tenant=%d", tenantID)

	// 1. Приводим запрос к domain модели
	cfg := req.ToDomainConfig(tenantID)

	// 2. Валидируем конфигурацию целиком
	if err := cfg.Validate(); err != nil {
		s.logger.Warn("Update: invalid config of tenant=%d: %v", tenantID, err)
		return nil, err
	}

	// 3. Сохраняем
	saved, err := s.tenantRepo.Upsert(ctx, cfg)
	if err != nil {
		s.logger.Error("Update: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully saved config of tenant=%d (%s mode, %d services)",
		tenantID, saved.Mode, len(saved.Services))
	return models.FromDomainConfig(saved), nil
}
