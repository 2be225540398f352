package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/domain/domaintest"
	tenantRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-SchedulingService/internal/service/config/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type mockTenantRepo struct{ mock.Mock }

func (m *mockTenantRepo) Get(ctx context.Context, tenantID int64) (*domain.TenantScheduleConfig, error) {
	args := m.Called(ctx, tenantID)
	if c := args.Get(0); c != nil {
		return c.(*domain.TenantScheduleConfig), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTenantRepo) Upsert(ctx context.Context, cfg *domain.TenantScheduleConfig) (*domain.TenantScheduleConfig, error) {
	args := m.Called(ctx, cfg)
	if c := args.Get(0); c != nil {
		return c.(*domain.TenantScheduleConfig), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestService_Get(t *testing.T) {
	repo := &mockTenantRepo{}
	svc := NewService(repo, logger.Nop())

	repo.On("Get", mock.Anything, int64(1)).Return(domaintest.SessionConfig(), nil)
	repo.On("Get", mock.Anything, int64(2)).Return(nil, tenantRepo.ErrConfigNotFound)
	repo.On("Get", mock.Anything, int64(3)).Return(nil, assert.AnError)

	resp, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeSession, resp.Mode)

	_, err = svc.Get(context.Background(), 2)
	assert.ErrorIs(t, err, ErrConfigNotFound)

	_, err = svc.Get(context.Background(), 3)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_Update(t *testing.T) {
	repo := &mockTenantRepo{}
	svc := NewService(repo, logger.Nop())

	cfg := *domaintest.SessionConfig()
	cfg.TenantID = 99
	cfg.Timezone = ""

	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(c *domain.TenantScheduleConfig) bool {
		return c.TenantID == 5 && c.Timezone == domain.DefaultTimezone
	})).Return(&domain.TenantScheduleConfig{TenantID: 5, Mode: domain.ModeSession}, nil).Once()

	resp, err := svc.Update(context.Background(), 5, &models.UpdateConfigRequest{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.TenantID)
	repo.AssertExpectations(t)
}

func TestService_Update_RejectsInvalidConfig(t *testing.T) {
	repo := &mockTenantRepo{}
	svc := NewService(repo, logger.Nop())

	cfg := *domaintest.SlotConfig()
	cfg.Slots.DayEnd = "07:00"

	_, err := svc.Update(context.Background(), 1, &models.UpdateConfigRequest{Config: cfg})

	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	assert.NotEmpty(t, domain.ProblemsOf(err))
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}
