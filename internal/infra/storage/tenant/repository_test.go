package tenant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/domain/domaintest"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/storagetest"
)

func TestRepository_GetMissing(t *testing.T) {
	repo := NewRepository(storagetest.Open(t), storagetest.Driver)

	_, err := repo.Get(context.Background(), domaintest.TenantID)
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestRepository_UpsertRoundTrip(t *testing.T) {
	repo := NewRepository(storagetest.Open(t), storagetest.Driver)
	ctx := context.Background()

	saved, err := repo.Upsert(ctx, domaintest.SessionConfig())
	require.NoError(t, err)
	assert.False(t, saved.UpdatedAt.IsZero())

	got, err := repo.Get(ctx, domaintest.TenantID)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeSession, got.Mode)
	require.Len(t, got.Sessions, 2)
	assert.Equal(t, 1, got.Sessions[0].MaxBookings)
	assert.Len(t, got.Services, 2)
	assert.Len(t, got.Zones, 2)

	// Повторная запись заменяет документ целиком
	_, err = repo.Upsert(ctx, domaintest.SlotConfig())
	require.NoError(t, err)

	got, err = repo.Get(ctx, domaintest.TenantID)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeSlot, got.Mode)
	assert.Empty(t, got.Sessions)
	require.NotNil(t, got.Slots)
	assert.Equal(t, 60, got.Slots.DurationMinutes)
}
