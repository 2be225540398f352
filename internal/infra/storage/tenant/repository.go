package tenant

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/sqlvalue"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Repository хранит конфигурации расписания тенантов (JSON документ на тенанта)
type Repository struct {
	db      DBExecutor
	builder squirrel.StatementBuilderType
}

// NewRepository создает новый экземпляр репозитория конфигураций
func NewRepository(db DBExecutor, driver string) *Repository {
	return &Repository{db: db, builder: psqlbuilder.ForDriver(driver)}
}

// Get получает конфигурацию расписания тенанта
func (r *Repository) Get(ctx context.Context, tenantID int64) (*domain.TenantScheduleConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Select("config", "updated_at").
		From("tenant_schedule_configs").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var (
		raw       []byte
		updatedAt sqlvalue.Time
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(&raw, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan config: %v", ErrScanRow, err)
	}

	var cfg domain.TenantScheduleConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("%w: Get - unmarshal config: %v", ErrCodec, err)
	}
	cfg.TenantID = tenantID
	cfg.UpdatedAt = updatedAt.Time

	return &cfg, nil
}

// Upsert создает или полностью заменяет конфигурацию тенанта
func (r *Repository) Upsert(ctx context.Context, cfg *domain.TenantScheduleConfig) (*domain.TenantScheduleConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - marshal config: %v", ErrCodec, err)
	}

	query, args, err := r.builder.Insert("tenant_schedule_configs").
		Columns("tenant_id", "config").
		Values(cfg.TenantID, string(raw)).
		Suffix("ON CONFLICT (tenant_id) DO UPDATE SET config = EXCLUDED.config, updated_at = CURRENT_TIMESTAMP RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var updatedAt sqlvalue.Time
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute upsert: %v", ErrExecQuery, err)
	}
	cfg.UpdatedAt = updatedAt.Time

	return cfg, nil
}
